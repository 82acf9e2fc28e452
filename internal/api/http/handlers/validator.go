package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/account-service/pkg/apperrors"
)

// RequestValidator wraps go-playground/validator and reports violations as
// field-keyed validation errors.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator builds a validator that reports fields by their JSON names.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate checks the payload against its struct tags.
func (rv *RequestValidator) Validate(payload any) error {
	err := rv.v.Struct(payload)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]any, len(ve))
		for _, fe := range ve {
			details[fe.Field()] = fieldMessage(fe)
		}
		return apperrors.NewValidationError("Validation failed", details)
	}
	return apperrors.NewValidationError("Validation failed", nil)
}

// fieldMessage converts a single violation into a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Field() == "password" {
			return fmt.Sprintf("Password must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}
