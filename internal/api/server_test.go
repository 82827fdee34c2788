package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	channelstubs "flowermarket/internal/channel/stubs"
	"flowermarket/internal/config"
	"flowermarket/internal/directory"
	"flowermarket/internal/models"
	"flowermarket/internal/publish"
	storagestubs "flowermarket/internal/storage/stubs"
	"flowermarket/internal/telegram"
)

const testBotToken = "123456:TEST-TOKEN"

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *channelstubs.Recorder) {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{
			TelegramToken:   testBotToken,
			ChannelID:       -1001234567890,
			ChannelUsername: "@flowermarket",
			MaxMedia:        10,
		}
	}

	dir, err := directory.Load()
	require.NoError(t, err)

	recorder := channelstubs.NewRecorder()
	server := NewServer(cfg, dir, storagestubs.NewMemoryStore(), recorder, zap.NewNop())

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, recorder
}

func validPayload() publish.Request {
	return publish.Request{
		Description: "Fresh red roses",
		Price:       "1500",
		Contacts:    "Telegram: @florist1",
		Region:      "Бишкек",
		City:        "Центр",
		Media:       []publish.MediaRef{{URL: "/uploads/a.jpg", Kind: models.MediaPhoto}},
	}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) publish.Response {
	t.Helper()
	defer resp.Body.Close()
	var out publish.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health publish.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)

	_, err = time.Parse(time.RFC3339, health.Timestamp)
	assert.NoError(t, err)
}

func TestConfigEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/config")
	require.NoError(t, err)
	defer resp.Body.Close()

	var cfg struct {
		ChannelName string          `json:"channelName"`
		MaxMedia    int             `json:"maxMedia"`
		Features    map[string]bool `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, "@flowermarket", cfg.ChannelName)
	assert.Equal(t, 10, cfg.MaxMedia)
	assert.True(t, cfg.Features["priceNegotiable"])
}

func TestCities(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/cities/" + url.PathEscape("Нарынская"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Cities []string `json:"cities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"Нарын", "Ат-Баши"}, out.Cities)
}

func TestCities_UnknownRegionIsEmptyList(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/cities/Atlantis")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Cities []string `json:"cities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotNil(t, out.Cities)
	assert.Empty(t, out.Cities)
}

func multipartUpload(t *testing.T, url, filename, contentType string, data []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(url+"/api/upload", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestUpload(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := multipartUpload(t, ts.URL, "rose.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out publish.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(out.URL, ".jpg"))

	// the stored file is served back with its media type
	fileResp, err := http.Get(ts.URL + out.URL)
	require.NoError(t, err)
	defer fileResp.Body.Close()
	assert.Equal(t, http.StatusOK, fileResp.StatusCode)
	assert.Equal(t, "image/jpeg", fileResp.Header.Get("Content-Type"))
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := multipartUpload(t, ts.URL, "notes.pdf", "application/pdf", []byte("%PDF"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestPublish_Success(t *testing.T) {
	ts, recorder := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/publish", validPayload())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.PostLink)
	assert.NotZero(t, out.MessageID)

	posts := recorder.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "Fresh red roses", posts[0].Description)
}

func TestPublish_InvalidPayload(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*publish.Request)
	}{
		{name: "short description", mutate: func(r *publish.Request) { r.Description = "ab" }},
		{name: "bad price", mutate: func(r *publish.Request) { r.Price = "cheap" }},
		{name: "no contacts", mutate: func(r *publish.Request) { r.Contacts = " " }},
		{name: "no region", mutate: func(r *publish.Request) { r.Region = "" }},
		{name: "no city", mutate: func(r *publish.Request) { r.City = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts, recorder := newTestServer(t, nil)

			payload := validPayload()
			tc.mutate(&payload)

			resp := postJSON(t, ts.URL+"/api/publish", payload)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			out := decodeResponse(t, resp)
			assert.False(t, out.Success)
			assert.NotEmpty(t, out.Error)
			assert.Empty(t, recorder.Posts(), "a rejected payload must not reach the channel")
		})
	}
}

func TestPublish_ChannelFailureIsBadGateway(t *testing.T) {
	ts, recorder := newTestServer(t, nil)
	recorder.Err = errors.New("telegram: chat not found")

	resp := postJSON(t, ts.URL+"/api/publish", validPayload())
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
}

func TestPublish_WebhookModeRequiresInitData(t *testing.T) {
	cfg := &config.Config{
		TelegramToken:   testBotToken,
		ChannelID:       -1001234567890,
		ChannelUsername: "@flowermarket",
		MaxMedia:        10,
		WebhookMode:     true,
		WebhookURL:      "https://flowers.example.com",
	}
	ts, recorder := newTestServer(t, cfg)

	t.Run("missing initData is rejected", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/publish", validPayload())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
		assert.Empty(t, recorder.Posts())
	})

	t.Run("signed initData is accepted", func(t *testing.T) {
		values := url.Values{}
		values.Set("user", `{"id":99,"first_name":"Aigul"}`)
		values.Set("auth_date", fmt.Sprintf("%d", time.Now().Unix()))

		payload := validPayload()
		payload.InitData = telegram.SignInitData(values, testBotToken)

		resp := postJSON(t, ts.URL+"/api/publish", payload)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
		assert.Len(t, recorder.Posts(), 1)
	})
}

func TestUpload_WebhookModeRequiresAuthHeader(t *testing.T) {
	cfg := &config.Config{
		TelegramToken: testBotToken,
		ChannelID:     -1001234567890,
		MaxMedia:      10,
		WebhookMode:   true,
		WebhookURL:    "https://flowers.example.com",
	}
	ts, _ := newTestServer(t, cfg)

	resp := multipartUpload(t, ts.URL, "rose.jpg", "image/jpeg", []byte("fake"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebApp(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/web-app")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
