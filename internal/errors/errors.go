package errors

import (
	"errors"
	"fmt"

	"github.com/iancoleman/strcase"
)

// Standard application errors
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrEmptyLine       = errors.New("line is empty or contains only whitespace")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidEncoding = errors.New("invalid text encoding")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading the input file
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewFileNotFoundError reports a missing input file. The message is shown to
// the user verbatim.
func NewFileNotFoundError(path string) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: fmt.Sprintf("File %s not found", path),
		Err:     ErrFileNotFound,
	}
}

// NewParsingError creates a new error related to JSON decoding
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to writing the output file
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			if errors.Is(appErr.Err, ErrFileNotFound) {
				return fmt.Sprintf("Error: %s", appErr.Message)
			}
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeUnknown, "":
			return fmt.Sprintf("Error: %s", appErr.Message)
		default:
			return fmt.Sprintf("%s error: %s", strcase.ToCamel(string(appErr.Type)), appErr.Message)
		}
	}

	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrInvalidConfig) {
		return "Error: The configuration is invalid. Please check your config file."
	}

	return fmt.Sprintf("Error: %v", err)
}
