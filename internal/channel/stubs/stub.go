package stubs

import (
	"context"
	"fmt"
	"sync"

	"flowermarket/internal/publish"
)

// Recorder is an in-memory channel publisher for tests and local
// development. It records every payload instead of talking to Telegram.
type Recorder struct {
	mu     sync.Mutex
	posts  []publish.Request
	nextID int

	// Err, when set, is returned by Publish to simulate a channel outage
	Err error
}

// NewRecorder creates an empty recording publisher
func NewRecorder() *Recorder {
	return &Recorder{nextID: 1}
}

// Publish records the payload and returns a synthetic post link
func (r *Recorder) Publish(ctx context.Context, ad publish.Request) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return "", 0, r.Err
	}

	id := r.nextID
	r.nextID++
	r.posts = append(r.posts, ad)
	return fmt.Sprintf("https://t.me/c/0/%d", id), id, nil
}

// Posts returns copies of the recorded payloads in publish order
func (r *Recorder) Posts() []publish.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]publish.Request(nil), r.posts...)
}
