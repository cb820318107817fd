package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/gradebook/internal/errors"
)

// ===== GRADEBOOK ERRORS =====

var (
	// Data-integrity errors: the mutation is rejected and nothing changes
	ErrDuplicateCategory = errors.New("category already exists")
	ErrUnknownCategory   = errors.New("category does not exist")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrEmptySelection    = errors.New("no assignments selected")

	// Import errors: the whole import is aborted
	ErrMalformedImport = errors.New("malformed course data")

	// Storage errors: downgraded to warnings, memory stays authoritative
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrMalformedStorage   = errors.New("stored gradebook is malformed")

	ErrUnknownCommand = errors.New("unknown command")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// GradebookError records which operation failed and on what.
type GradebookError struct {
	Op      string                 `json:"op"`
	Err     error                  `json:"-"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *GradebookError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Message)
}

func (e *GradebookError) Unwrap() error {
	return e.Err
}

// ===== ERROR HELPERS =====

func NewGradebookError(op string, err error, message string, context map[string]interface{}) *GradebookError {
	return &GradebookError{
		Op:      op,
		Err:     err,
		Message: message,
		Context: context,
	}
}

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsDataIntegrity checks if the error blocked a mutation because of bad references
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrDuplicateCategory) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrEmptySelection)
}

// IsStorage checks if the error came from the persistence boundary
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrMalformedStorage)
}

// IsImport checks if the error aborted an import
func IsImport(err error) bool {
	return errors.Is(err, ErrMalformedImport)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
