package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType classifies a report generation failure.
type ErrorType string

const (
	ErrTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeMissingColumn     ErrorType = "MISSING_COLUMN"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeIO                ErrorType = "IO"
	ErrTypeNoData            ErrorType = "NO_DATA"
	ErrTypeInternal          ErrorType = "INTERNAL"
)

// AppError is the single error currency of the pipeline. Every failure that
// reaches the caller is one of these, carrying its type, a human-readable
// message and the underlying cause when there is one.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new application error without a cause.
func New(errType ErrorType, message string) *AppError {
	return &AppError{Type: errType, Message: message}
}

// Wrap creates a new application error wrapping an underlying cause.
func Wrap(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause}
}

// Helper constructors for the common failure modes

// NewUnsupportedFormat reports an input extension outside the recognized set.
func NewUnsupportedFormat(ext string) *AppError {
	return New(ErrTypeUnsupportedFormat,
		fmt.Sprintf("unsupported file format %q: use .xlsx, .xls or .csv", ext))
}

// NewMissingColumn reports required source columns absent from the loaded table.
func NewMissingColumn(columns []string) *AppError {
	return New(ErrTypeMissingColumn,
		fmt.Sprintf("required column(s) missing from input: %s", strings.Join(columns, ", ")))
}

// NewIOError reports an underlying storage access failure.
func NewIOError(operation string, cause error) *AppError {
	return Wrap(ErrTypeIO, fmt.Sprintf("i/o failure during %s", operation), cause)
}

// NewInternalError reports a defect that should never occur with correct inputs.
func NewInternalError(message string) *AppError {
	return New(ErrTypeInternal, message)
}

// TypeOf returns the error type of err, or ErrTypeInternal when err is not
// an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeInternal
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
