package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("category", "must not be blank", "  ")

	if err.Field != "category" {
		t.Errorf("Expected field to be 'category', got '%s'", err.Field)
	}

	if err.Message != "must not be blank" {
		t.Errorf("Expected message to be 'must not be blank', got '%s'", err.Message)
	}

	expected := "validation error on field 'category': must not be blank"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("name", "is required", nil))
	expected := "validation failed: name is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("numDrops", "must be greater than or equal to 0", -1))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestToValidationErrors(t *testing.T) {
	type request struct {
		Name     string `validate:"required"`
		NumDrops int    `validate:"gte=0"`
	}

	err := validator.New().Struct(request{NumDrops: -2})
	errs := ToValidationErrors(err)

	if len(errs) != 2 {
		t.Fatalf("Expected 2 validation errors, got %d", len(errs))
	}
	if errs[0].Field != "Name" || errs[0].Message != "is required" {
		t.Errorf("Unexpected first error: %+v", errs[0])
	}
	if errs[1].Rule != "gte" || errs[1].Message != "must be greater than or equal to 0" {
		t.Errorf("Unexpected second error: %+v", errs[1])
	}
}
