package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("permission denied"),
			},
			expected: "input: failed to read input: permission denied",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
				Err:     nil,
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeOutput,
		Message: "test message",
		Err:     wrappedErr,
	}

	assert.Equal(t, wrappedErr, appErr.Unwrap())
	assert.ErrorIs(t, appErr, wrappedErr)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name:     "same type",
			appError: NewInputError("test message", nil),
			target:   NewInputError("different message", errors.New("some error")),
			expected: true,
		},
		{
			name:     "different type",
			appError: NewInputError("test message", nil),
			target:   NewOutputError("test message", nil),
			expected: false,
		},
		{
			name:     "not an AppError",
			appError: NewInputError("test message", nil),
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Is(tt.target))
		})
	}
}

func TestNewFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("movie_ids.json")

	assert.Equal(t, ErrorTypeInput, err.Type)
	assert.Equal(t, "File movie_ids.json not found", err.Message)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "file not found",
			err:      NewFileNotFoundError("movie_ids_x_x_x.json"),
			expected: "Error: File movie_ids_x_x_x.json not found",
		},
		{
			name:     "wrapped file not found",
			err:      fmt.Errorf("extract: %w", NewFileNotFoundError("in.json")),
			expected: "Error: File in.json not found",
		},
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("JSON syntax error at offset 3", nil),
			expected: "JSON parsing error: JSON syntax error at offset 3",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "config error",
			err:      NewConfigError("id field must not be empty", nil),
			expected: "Config error: id field must not be empty",
		},
		{
			name:     "unknown app error",
			err:      &AppError{Type: ErrorTypeUnknown, Message: "boom"},
			expected: "Error: boom",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "standard error - invalid path",
			err:      ErrInvalidFilePath,
			expected: "Error: Invalid file path. Please provide a valid file path.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserFriendlyError(tt.err))
		})
	}
}
