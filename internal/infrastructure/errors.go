package infrastructure

import (
	"fmt"

	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// ErrorType names err for metrics and span attributes: the AppError type
// when there is one, the Go type otherwise.
func ErrorType(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return string(appErr.Type)
	}
	return fmt.Sprintf("%T", err)
}
