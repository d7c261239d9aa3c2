package form

import (
	"errors"
	"strings"

	"hotel_listing/internal/validation"
)

var (
	// ErrBusy is returned when an upload, delete or submit is already in flight.
	ErrBusy = errors.New("form: another operation is in flight")
	// ErrLocked is returned for any input while the form is submitting.
	ErrLocked = errors.New("form: submitting, controls are disabled")

	ErrInvalidTransition = errors.New("form: select a country first")
	ErrUnknownOption     = errors.New("form: unknown option")
	ErrDisabled          = errors.New("form: control is disabled")
	ErrUnknownField      = errors.New("form: unknown field")
	ErrNoImage           = errors.New("form: no image to delete")
)

// ValidationError blocks a submit and carries one message per failing field.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range e.Fields.Fields() {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "form: invalid draft (" + strings.Join(parts, "; ") + ")"
}
