package http

import (
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/narrate/internal/service"
)

// ErrorBody is the JSON error document returned by every operation.
type ErrorBody struct {
	status  int
	Message string `json:"error" doc:"Explanation of the failure"`
}

// Error returns the error message.
func (e *ErrorBody) Error() string {
	return e.Message
}

// GetStatus returns the HTTP status code.
func (e *ErrorBody) GetStatus() int {
	return e.status
}

func init() {
	// Render framework errors (validation, body too large, ...) in the same shape.
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		details := make([]string, 0, len(errs))
		for _, err := range errs {
			if err == nil {
				continue
			}
			// Values are left out: they can hold the whole request body.
			var detailer huma.ErrorDetailer
			if errors.As(err, &detailer) {
				d := detailer.ErrorDetail()
				if d.Location != "" {
					details = append(details, d.Location+": "+d.Message)
				} else {
					details = append(details, d.Message)
				}
				continue
			}
			details = append(details, err.Error())
		}
		if len(details) > 0 {
			message += ": " + strings.Join(details, "; ")
		}
		return &ErrorBody{status: status, Message: message}
	}
}

// convertError maps a conversion failure to its HTTP status.
func convertError(err error) error {
	msg := err.Error()

	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrFetchTimeout),
		errors.Is(err, service.ErrFetchFailed),
		errors.Is(err, service.ErrExtractionFailed),
		errors.Is(err, service.ErrTextTooLong):
		return huma.Error400BadRequest(msg)
	case errors.Is(err, service.ErrSynthesisFailed):
		return huma.Error500InternalServerError(msg)
	default:
		return huma.Error500InternalServerError("Failed to generate audio: " + msg)
	}
}
