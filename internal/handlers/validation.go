package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/hackathon-hub/registration-api/internal/forms"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts binding errors to a user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
		return result
	}

	if errors.Is(err, forms.ErrInvalidAnswer) {
		return []ValidationError{{Field: "data", Message: "Answers must be strings or arrays of strings"}}
	}

	return []ValidationError{{Field: "body", Message: "Malformed JSON body"}}
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "uuid":
		return fe.Field() + " must be a valid UUID"
	case "min", "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "max", "lte":
		return fe.Field() + " must not exceed " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "hexcolor":
		return fe.Field() + " must be a hex color"
	default:
		return fe.Field() + " is invalid"
	}
}
