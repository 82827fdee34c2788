package wizard

import (
	"errors"
	"fmt"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission is still pending. The pending request is not cancelled.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// ErrDraftConsumed is returned when Submit is called after the draft has
// already been published.
var ErrDraftConsumed = errors.New("draft has already been published")

// ValidationError blocks a step transition. It is always resolved locally:
// the session stays on (or jumps back to) the offending step and the
// renderer shows Reason as the step hint.
type ValidationError struct {
	Step   Step
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Step, e.Field, e.Reason)
}

// MediaErrorKind categorizes staging failures
type MediaErrorKind int

const (
	TooManyFiles MediaErrorKind = iota
	FileTooLarge
	UnsupportedType
)

func (k MediaErrorKind) String() string {
	switch k {
	case TooManyFiles:
		return "too many files"
	case FileTooLarge:
		return "file too large"
	case UnsupportedType:
		return "unsupported type"
	default:
		return fmt.Sprintf("MediaErrorKind(%d)", int(k))
	}
}

// MediaError reports one rejected file (or an over-limit batch). Staging
// continues for unaffected files; the error is surfaced as a transient
// notification.
type MediaError struct {
	Kind MediaErrorKind
	File string
}

func (e *MediaError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Kind)
	}
	return e.Kind.String()
}

// SubmitErrorKind categorizes submission failures past validation
type SubmitErrorKind int

const (
	// SubmitNetwork means the Publish API could not be reached
	SubmitNetwork SubmitErrorKind = iota
	// SubmitServerRejected means the API answered but declined the payload
	SubmitServerRejected
	// SubmitUpstreamUnavailable means the payload reached the backend but
	// the channel integration itself failed
	SubmitUpstreamUnavailable
)

func (k SubmitErrorKind) String() string {
	switch k {
	case SubmitNetwork:
		return "network error"
	case SubmitServerRejected:
		return "server rejected"
	case SubmitUpstreamUnavailable:
		return "upstream unavailable"
	default:
		return fmt.Sprintf("SubmitErrorKind(%d)", int(k))
	}
}

// SubmitError is a retry-friendly submission failure: the session stays on
// the preview step with the draft intact.
type SubmitError struct {
	Kind    SubmitErrorKind
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a step validation failure
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsNetworkError reports whether err is a failure to reach the Publish API
func IsNetworkError(err error) bool {
	var serr *SubmitError
	return errors.As(err, &serr) && serr.Kind == SubmitNetwork
}
