package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrRepairToolNotFound   = errors.New("repair tool not found")
	ErrRepairFailed         = errors.New("repair failed")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrClassificationFailed = errors.New("classification failed")
	ErrRoutingFailed        = errors.New("routing failed")
	ErrDestinationExists    = errors.New("destination already exists")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsFatal reports whether err must abort the whole batch rather than a single document.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRepairToolNotFound)
}
