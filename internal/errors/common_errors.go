package errors

import (
	"fmt"
	"strings"
)

// Helper functions for common error types

// NewLoadError creates an error for a source that cannot be read or parsed
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewSchemaError creates an error naming columns absent from a table
func NewSchemaError(columns ...string) *AppError {
	var message string
	switch len(columns) {
	case 0:
		message = "column not found in table"
	case 1:
		message = fmt.Sprintf("column '%s' not found in table", columns[0])
	default:
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = "'" + c + "'"
		}
		message = fmt.Sprintf("columns %s not found in table", strings.Join(quoted, ", "))
	}
	err := NewAppError(ErrTypeSchema, message, nil)
	err.Columns = columns
	return err
}

// NewValidationError creates a validation error, optionally naming the offending columns
func NewValidationError(message string, columns ...string) *AppError {
	err := NewAppError(ErrTypeValidation, message, nil)
	err.Columns = columns
	return err
}

// NewRenderError creates a chart rendering error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsLoadError reports whether err is a LOAD error
func IsLoadError(err error) bool { return IsType(err, ErrTypeLoad) }

// IsSchemaError reports whether err is a SCHEMA error
func IsSchemaError(err error) bool { return IsType(err, ErrTypeSchema) }

// IsValidationError reports whether err is a VALIDATION error
func IsValidationError(err error) bool { return IsType(err, ErrTypeValidation) }

// IsRenderError reports whether err is a RENDER error
func IsRenderError(err error) bool { return IsType(err, ErrTypeRender) }
