package application

import "testing"

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"field": "invalid"}}
	if got := withFields.Error(); got != "validation failed" {
		t.Fatalf("expected consistent message for populated error, got %q", got)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	var nilErr *ValidationError
	if nilErr.HasErrors() {
		t.Fatalf("expected HasErrors to report false for nil error")
	}

	if (&ValidationError{}).HasErrors() {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	if !(&ValidationError{FieldErrors: map[string]string{"field": "bad"}}).HasErrors() {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestValidationError_Add(t *testing.T) {
	t.Parallel()

	vErr := &ValidationError{}
	vErr.add("first", "value")
	if got := vErr.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	vErr.add("first", "replaced")
	if got := vErr.FieldErrors["first"]; got != "replaced" {
		t.Fatalf("expected add to overwrite existing field, got %q", got)
	}
}
