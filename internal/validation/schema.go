// Package validation holds the declarative field rules for a hotel draft.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel_listing/internal/domain"
)

// schema mirrors the draft fields that carry constraints. Amenities, state and
// city are optional and have no rules.
type schema struct {
	Title               string `json:"title" validate:"min=3,max=255"`
	Description         string `json:"description" validate:"min=10"`
	Image               string `json:"image" validate:"required"`
	Country             string `json:"country" validate:"required"`
	State               string `json:"state" validate:"omitempty"`
	City                string `json:"city" validate:"omitempty"`
	LocationDescription string `json:"locationDescription" validate:"min=10"`
}

var messages = map[string]string{
	"title":               "Title must be at least 3 characters long",
	"description":         "Description must be at least 10 characters long",
	"image":               "Image is required",
	"country":             "Country is required",
	"locationDescription": "Location description must be at least 10 characters long",
}

// tagMessages override the field message for a specific rule.
var tagMessages = map[string]string{
	"title.max": "Title must be at most 255 characters long",
}

// FieldErrors maps a draft field (json name) to its message.
type FieldErrors map[string]string

// Fields returns the failing field names in a stable order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every constrained field of the normalized draft. It returns
// nil when the draft is submittable.
func Validate(d domain.HotelDraft) FieldErrors {
	d = d.Normalized()
	err := validate.Struct(schema{
		Title:               d.Title,
		Description:         d.Description,
		Image:               d.Image,
		Country:             d.Country,
		State:               d.State,
		City:                d.City,
		LocationDescription: d.LocationDescription,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError only happens on programmer error
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[fe.Field()]
		}
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out[fe.Field()] = msg
	}
	return out
}

// Message returns the rule message for a field, or "" if the field has none.
func Message(field string) string { return messages[field] }
