// Package api serves the Mini App: the embedded form shell, the static
// region directory, media uploads and the publish endpoint.
package api

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"flowermarket/internal/config"
	"flowermarket/internal/directory"
	"flowermarket/internal/publish"
	"flowermarket/internal/storage"
	"flowermarket/internal/telegram"
	"flowermarket/internal/wizard"
	"flowermarket/web"
)

// Poster republishes a validated payload to the channel
type Poster interface {
	Publish(ctx context.Context, ad publish.Request) (postLink string, messageID int, err error)
}

// Server handles HTTP requests for the Mini App
type Server struct {
	cfg    *config.Config
	dir    *directory.Directory
	store  storage.MediaStore
	poster Poster
	logger *zap.Logger
}

// NewServer creates a Mini App HTTP server
func NewServer(cfg *config.Config, dir *directory.Directory, store storage.MediaStore, poster Poster, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, dir: dir, store: store, poster: poster, logger: logger}
}

// RegisterRoutes registers all Mini App routes on the provided mux
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/web-app", s.handleIndex)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.HandlerFunc(s.handleUploadedFile)))

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/cities/", s.handleCities)
	mux.HandleFunc("/api/upload", s.authMiddleware(s.handleUpload))
	mux.HandleFunc("/api/publish", s.handlePublish)
}

// handleIndex serves the Mini App HTML from the embedded filesystem
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	content, err := web.Content.ReadFile("index.html")
	if err != nil {
		s.logger.Error("Failed to read embedded index.html", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, publish.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleConfig tells the Mini App the channel name and feature limits
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"channelName": s.cfg.ChannelUsername,
		"maxMedia":    s.cfg.MaxMedia,
		"features": map[string]bool{
			"comments":        true,
			"location":        true,
			"priceNegotiable": true,
		},
	})
}

// handleCities returns the static city list for a region. Unknown regions
// yield an empty list rather than an error.
func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	region := strings.TrimPrefix(r.URL.Path, "/api/cities/")
	if decoded, err := url.PathUnescape(region); err == nil {
		region = decoded
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"cities": s.dir.CitiesFor(region),
	})
}

// maxUploadBytes caps a single media upload; videos are the larger kind
const maxUploadBytes = wizard.MaxVideoBytes

// handleUpload stores one media file and returns its reference URL
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		writeError(w, http.StatusUnsupportedMediaType, "only image and video uploads are accepted")
		return
	}
	limit := int64(wizard.MaxImageBytes)
	if strings.HasPrefix(contentType, "video/") {
		limit = wizard.MaxVideoBytes
	}
	if int64(len(data)) > limit {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	mediaURL, err := s.store.Save(r.Context(), header.Filename, data)
	if err != nil {
		s.logger.Error("Failed to store uploaded media", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	writeJSON(w, http.StatusCreated, publish.UploadResponse{URL: mediaURL})
}

// handleUploadedFile serves a stored media file back. The Content-Type
// comes from the uuid filename's extension; Telegram fetches media by URL
// and will not sniff an untyped reply.
func (s *Server) handleUploadedFile(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Open(r.Context(), r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(r.URL.Path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handlePublish validates the payload and republishes it to the channel.
// The init data signature inside the body is checked in webhook mode;
// polling mode skips it for easier local development.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req publish.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Failed to decode publish request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.cfg.WebhookMode {
		if _, err := telegram.ValidateInitData(req.InitData, s.cfg.TelegramToken); err != nil {
			s.logger.Warn("Rejected publish request with invalid initData", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid Telegram data")
			return
		}
	}

	if reason := validatePayload(req); reason != "" {
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	postLink, messageID, err := s.poster.Publish(r.Context(), req)
	if err != nil {
		// The payload was fine; the channel integration failed. Reported
		// distinctly so clients can tell it apart from their own mistakes.
		s.logger.Error("Channel publish failed",
			zap.Error(err),
			zap.String("region", req.Region),
		)
		writeError(w, http.StatusBadGateway, "failed to publish to the channel")
		return
	}

	s.logger.Info("Listing published",
		zap.Int("message_id", messageID),
		zap.String("region", req.Region),
		zap.String("city", req.City),
		zap.Int("media_count", len(req.Media)),
	)
	writeJSON(w, http.StatusOK, publish.Response{
		Success:   true,
		PostLink:  postLink,
		MessageID: messageID,
	})
}

// validatePayload re-checks the wizard field rules server-side. The
// contact line arrives pre-formatted, so only presence is checked there.
func validatePayload(req publish.Request) string {
	if !wizard.ValidDescription(req.Description) {
		return "description must be at least 3 characters"
	}
	if !wizard.ValidPrice(req.Price) {
		return "invalid price"
	}
	if strings.TrimSpace(req.Contacts) == "" {
		return "missing contacts"
	}
	if req.Region == "" || req.City == "" {
		return "missing region or city"
	}
	return ""
}

// authMiddleware validates the Mini App authorization header. Skipped in
// polling mode so local development does not need signed init data.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.WebhookMode {
			s.logger.Debug("Skipping authentication (polling mode)",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "tma ") {
			s.logger.Warn("Missing or invalid authorization header")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		initData := strings.TrimPrefix(authHeader, "tma ")
		user, err := telegram.ValidateInitData(initData, s.cfg.TelegramToken)
		if err != nil {
			s.logger.Warn("Failed to validate initData",
				zap.Error(err),
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		s.logger.Debug("Authenticated request",
			zap.Int64("user_id", user.ID),
			zap.String("path", r.URL.Path),
		)
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, publish.Response{Success: false, Error: message})
}
