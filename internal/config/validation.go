package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("datelayout", isDateLayout)

	// report yaml key names in messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("config validation failed", err)
	}
	messages := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = formatFieldError(fe)
	}
	return apperrors.NewConfigError("config validation failed: "+strings.Join(messages, "; "), nil)
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "datelayout":
		return fmt.Sprintf("%s must be a Go date layout such as 2006-01-02", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// isDateLayout accepts layouts that round-trip a reference date
func isDateLayout(fl validator.FieldLevel) bool {
	layout := fl.Field().String()
	ref := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	formatted := ref.Format(layout)
	if formatted == layout {
		return false
	}
	parsed, err := time.Parse(layout, formatted)
	return err == nil && parsed.Year() == 2025 && parsed.Month() == 4 && parsed.Day() == 15
}
