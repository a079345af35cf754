package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"purchasePrice": "must be >= 0",
		"email":         "is required",
	}}

	expected := "validation failed: email: is required; purchasePrice: must be >= 0"
	if err.Error() != expected {
		t.Errorf("Error() = %q, expected %q", err.Error(), expected)
	}

	if (&ValidationError{}).Error() != "validation failed" {
		t.Error("empty ValidationError should have a generic message")
	}
}

func TestIsValidation(t *testing.T) {
	wrapped := fmt.Errorf("decoding property: %w", NewValidationError("value", "is required"))
	if !IsValidation(wrapped) {
		t.Error("expected wrapped ValidationError to be detected")
	}
	if IsValidation(errors.New("boom")) {
		t.Error("plain error is not a validation error")
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("property")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected NotFound to wrap ErrNotFound")
	}
	if err.Error() != "property not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}
