package common

import (
	"fmt"
)

// Error codes attached to AppError, used by the CLIs to pick exit codes and
// by logs to group failures.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeExtraction   = "EXTRACTION_FAILED"
	CodeInternal     = "INTERNAL"
)

// AppError pairs a stable code with a human message and the underlying cause.
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
