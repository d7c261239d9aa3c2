package validation_test

import (
	"strings"
	"testing"

	"hotel_listing/internal/domain"
	"hotel_listing/internal/validation"
)

func validDraft() domain.HotelDraft {
	return domain.HotelDraft{
		Title:               "Beach Hotel",
		Description:         "A quiet hotel close to the beach.",
		Image:               "https://x/img.png",
		Country:             "US",
		LocationDescription: "Two blocks from the pier.",
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	if errs := validation.Validate(validDraft()); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidate_TitleTooShort(t *testing.T) {
	d := validDraft()
	d.Title = "ab"
	errs := validation.Validate(d)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs["title"] != "Title must be at least 3 characters long" {
		t.Fatalf("unexpected title message: %q", errs["title"])
	}
}

func TestValidate_EmptyDraftReportsEveryRequiredField(t *testing.T) {
	errs := validation.Validate(domain.DraftFromExisting(nil))
	want := []string{"country", "description", "image", "locationDescription", "title"}
	got := errs.Fields()
	if len(got) != len(want) {
		t.Fatalf("fields: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fields: got %v want %v", got, want)
		}
		if errs[want[i]] != validation.Message(want[i]) {
			t.Fatalf("message mismatch for %s", want[i])
		}
	}
}

func TestValidate_OptionalFieldsMayBeAbsent(t *testing.T) {
	d := validDraft()
	d.State, d.City = "", ""
	d.Amenities = domain.Amenities{}
	if errs := validation.Validate(d); errs != nil {
		t.Fatalf("optional fields should not fail: %v", errs)
	}
}

func TestValidate_CountsRunesNotBytes(t *testing.T) {
	d := validDraft()
	d.Title = "Hôt" // 3 runes, 4 bytes
	if errs := validation.Validate(d); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidate_PaddingDoesNotCount(t *testing.T) {
	d := validDraft()
	d.Title = "  ab  "
	d.Description = "x         "
	errs := validation.Validate(d)
	if errs["title"] == "" || errs["description"] == "" || len(errs) != 2 {
		t.Fatalf("padded short text must fail, got %v", errs)
	}
}

func TestValidate_TitleTooLong(t *testing.T) {
	d := validDraft()
	d.Title = strings.Repeat("é", 255)
	if errs := validation.Validate(d); errs != nil {
		t.Fatalf("255 runes should pass: %v", errs)
	}
	d.Title += "x"
	errs := validation.Validate(d)
	if errs["title"] != "Title must be at most 255 characters long" {
		t.Fatalf("unexpected title message: %q", errs["title"])
	}
}
