// Package publish defines the wire contract of the Publish API and an HTTP
// client for it. The wizard's submission orchestrator talks to the backend
// exclusively through these types.
package publish

import (
	"fmt"

	"flowermarket/internal/models"
)

// MediaRef is one pre-uploaded media item in the publish payload. Kind is
// kept so the channel publisher sends videos as videos.
type MediaRef struct {
	URL  string           `json:"url"`
	Kind models.MediaKind `json:"kind"`
}

// Request is the normalized listing payload sent to POST /api/publish.
// Media carries pre-uploaded references (see /api/upload).
type Request struct {
	InitData    string     `json:"initData,omitempty"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Contacts    string     `json:"contacts"`
	Region      string     `json:"region"`
	City        string     `json:"city"`
	Address     string     `json:"address"`
	Media       []MediaRef `json:"media"`
}

// Response is the Publish API reply
type Response struct {
	Success   bool   `json:"success"`
	PostLink  string `json:"postLink,omitempty"`
	MessageID int    `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// UploadResponse is the /api/upload reply
type UploadResponse struct {
	URL string `json:"url"`
}

// HealthResponse is the /health reply
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// StatusError is returned by the client when the backend answered with a
// non-success HTTP status. The submission orchestrator uses the code to
// distinguish a rejected payload from a failed channel integration.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("publish api returned status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("publish api returned status %d", e.Code)
}
