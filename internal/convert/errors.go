package convert

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the pipeline can report to a client.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindSizeExceeded
	KindInvalidDocument
	KindFetchFailed
	KindNoPagesRendered
	KindArchiveFailed
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindSizeExceeded:
		return "size_exceeded"
	case KindInvalidDocument:
		return "invalid_document"
	case KindFetchFailed:
		return "fetch_failed"
	case KindNoPagesRendered:
		return "no_pages_rendered"
	case KindArchiveFailed:
		return "archive_failed"
	default:
		return "internal"
	}
}

// Error pairs a Kind with a message safe to echo to the client. The
// wrapped cause stays in logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// SafeMessage is what the response body carries.
func (e *Error) SafeMessage() string { return e.Message }

func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrapf attaches a cause that must never reach the client.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// ClientMessage returns the safe message for err, or a generic one for
// unclassified faults.
func ClientMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.SafeMessage()
	}
	return "internal error"
}
