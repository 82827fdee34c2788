package wizard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"flowermarket/internal/publish"
)

// Transport is what the submission orchestrator needs from the backend:
// a media upload step and the publish call. publish.Client implements it.
type Transport interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Publish(ctx context.Context, req publish.Request) (*publish.Response, error)
}

// Result is a successful publication
type Result struct {
	PostLink  string
	MessageID int
}

// Submit publishes the draft. It re-validates steps 1..5 in order even when
// the preview step was reached normally; the first failure jumps the session
// back to that step and nothing is sent. Staged media without a reference
// URL is uploaded first, then the normalized payload is posted. While a
// submission is pending a second call returns ErrSubmitInFlight without
// touching the network. On success the draft is consumed; on failure the
// session stays on the preview step so the user can retry.
func (s *Session) Submit(ctx context.Context, t Transport) (*Result, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if s.completed {
		s.mu.Unlock()
		return nil, ErrDraftConsumed
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	// Guard against stale state: a step may have been invalidated after it
	// was passed.
	for step := StepMedia; step <= StepLocation; step++ {
		if verr := Validate(step, s.draft, s.dir); verr != nil {
			s.logger.Warn("Submission blocked by re-validation",
				zap.Stringer("step", verr.Step),
				zap.String("field", verr.Field),
			)
			s.step = verr.Step
			s.enterStep(verr.Step)
			return nil, verr
		}
	}

	if err := s.uploadPending(ctx, t); err != nil {
		return nil, err
	}

	req := s.buildRequest()
	resp, err := t.Publish(ctx, req)
	if err != nil {
		return nil, mapPublishError(err)
	}
	if !resp.Success {
		return nil, &SubmitError{Kind: SubmitServerRejected, Message: resp.Error}
	}

	s.logger.Info("Listing published",
		zap.String("post_link", resp.PostLink),
		zap.Int("media_count", s.staging.Count()),
	)

	s.mu.Lock()
	s.completed = true
	s.mu.Unlock()

	return &Result{PostLink: resp.PostLink, MessageID: resp.MessageID}, nil
}

// uploadPending transfers staged files that have no reference URL yet.
// Items uploaded by an earlier failed attempt keep their URLs, so a retry
// does not re-send them.
func (s *Session) uploadPending(ctx context.Context, t Transport) error {
	for i := range s.staging.items {
		it := &s.staging.items[i]
		if it.item.RemoteURL != "" {
			continue
		}
		url, err := t.Upload(ctx, it.item.Name, it.data)
		if err != nil {
			return mapPublishError(err)
		}
		s.staging.setRemoteURL(i, url)
	}
	s.draft.Media = s.staging.Items()
	return nil
}

func (s *Session) buildRequest() publish.Request {
	d := s.draft
	media := make([]publish.MediaRef, 0, s.staging.Count())
	for _, m := range s.staging.Items() {
		media = append(media, publish.MediaRef{URL: m.RemoteURL, Kind: m.Kind})
	}
	return publish.Request{
		InitData:    s.initData,
		Description: d.Description,
		Price:       d.Price,
		Contacts:    FormatContact(d.ContactMethod, d.ContactValue),
		Region:      d.Location.Region,
		City:        d.Location.City,
		Address:     d.Location.Address,
		Media:       media,
	}
}

// mapPublishError translates transport failures into the submit taxonomy:
// a 5xx from the backend means its channel integration failed (partial
// success), any other status means the payload was rejected, everything
// else is a network failure.
func mapPublishError(err error) error {
	var statusErr *publish.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code >= 500 {
			return &SubmitError{Kind: SubmitUpstreamUnavailable, Message: statusErr.Message, Err: err}
		}
		return &SubmitError{Kind: SubmitServerRejected, Message: statusErr.Message, Err: err}
	}
	return &SubmitError{Kind: SubmitNetwork, Message: "could not reach the publish API", Err: err}
}
