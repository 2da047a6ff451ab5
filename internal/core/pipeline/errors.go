package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the ingestion pipeline and the record
// surface can produce. Every stage converts its failures into exactly one
// Kind before they cross the package boundary.
type Kind string

const (
	KindInvalidInput      Kind = "invalid-input"
	KindUnsupportedFormat Kind = "unsupported-format"
	KindExtraction        Kind = "extraction-error"
	KindLowSignal         Kind = "low-signal"
	KindEmptyContent      Kind = "empty-content"
	KindStorage           Kind = "storage-error"
	KindGeneration        Kind = "generation-error"
	KindPersistence       Kind = "persistence-error"
	KindNotFound          Kind = "not-found"
	KindForbidden         Kind = "forbidden"
	KindInternal          Kind = "internal"
)

// ErrFileTooLarge marks the oversized-file case inside invalid-input so the
// HTTP layer can answer 413 instead of 400.
var ErrFileTooLarge = errors.New("file too large")

// Error is a classified pipeline failure. Message is safe to show to
// callers; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a classified error wrapping cause (which may be nil).
func Errf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the classification from err. Unclassified errors are
// contract violations and report as internal.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err. Internal errors are
// surfaced generically; their detail belongs in logs only.
func MessageOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) && pe.Kind != KindInternal {
		return pe.Message
	}
	return "something went wrong during processing"
}
