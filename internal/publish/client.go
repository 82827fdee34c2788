package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client is the HTTP client for the Publish API
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a Publish API client for the given base URL
func NewClient(baseURL string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(20 * time.Second).
		SetHeader("User-Agent", "FlowerMarket-Go-App/1.0")

	return &Client{http: httpClient, logger: logger}
}

// Publish posts a finished listing payload. A non-2xx reply is returned as
// a *StatusError carrying the backend's error message; transport failures
// are returned as-is.
func (c *Client) Publish(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/publish")
	if err != nil {
		return nil, fmt.Errorf("publish request failed: %w", err)
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		if !resp.IsSuccess() {
			return nil, &StatusError{Code: resp.StatusCode()}
		}
		return nil, fmt.Errorf("invalid publish response: %w", err)
	}

	if !resp.IsSuccess() {
		c.logger.Warn("Publish API rejected the payload",
			zap.Int("status", resp.StatusCode()),
			zap.String("error", result.Error),
		)
		return nil, &StatusError{Code: resp.StatusCode(), Message: result.Error}
	}
	return &result, nil
}

// Upload transfers one staged media file and returns its reference URL
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(data)).
		Post("/api/upload")
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}

	if !resp.IsSuccess() {
		var result Response
		_ = json.Unmarshal(resp.Body(), &result)
		return "", &StatusError{Code: resp.StatusCode(), Message: result.Error}
	}

	var result UploadResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("invalid upload response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response contains no url")
	}
	return result.URL, nil
}

// Health pings the backend. Callers treat a failure as a connectivity
// warning only; it never blocks the wizard.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if !resp.IsSuccess() {
		return &StatusError{Code: resp.StatusCode()}
	}
	return nil
}
