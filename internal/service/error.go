package service

import "errors"

// Error kinds returned by Converter.Convert. Match them with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrFetchTimeout     = errors.New("fetch timeout")
	ErrFetchFailed      = errors.New("fetch failed")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrTextTooLong      = errors.New("text too long")
	ErrSynthesisFailed  = errors.New("synthesis failed")
)

// Error is a conversion failure carrying a message fit for the caller.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Error returns the caller-facing message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
