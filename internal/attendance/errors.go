package attendance

import (
	"errors"
	"fmt"
)

// Error kinds, matched with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("too large")
)

// Error is the recoverable failure returned by every operation.
type Error struct {
	Kind    error  // one of ErrNotFound, ErrInvalidInput, ErrTooLarge
	Op      string // operation name, e.g. "update_student"
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap exposes both the kind and the underlying error.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// KindName returns a stable name for err's kind, or "internal" if err is not
// an *Error.
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	default:
		return "internal"
	}
}

func notFound(op, entity string, id uint64) *Error {
	return &Error{Kind: ErrNotFound, Op: op, Message: fmt.Sprintf("%s with id=%d not found", entity, id)}
}

func invalidInput(op, msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Op: op, Message: msg}
}

func tooLarge(op, entity string, err error) *Error {
	return &Error{Kind: ErrTooLarge, Op: op, Message: entity + " record exceeds the size limit", Err: err}
}
