package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ian97531/boombox/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

func fieldErrors(err error, fallback string) map[string]string {
	details := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		details[fallback] = "invalid format"
		return details
	}

	for _, fieldError := range validationErrs {
		field := strings.ToLower(fieldError.Field())

		switch fieldError.Tag() {
		case "required":
			details[field] = "is required"
		case "min", "gte":
			details[field] = "is too small"
		case "max", "lte":
			details[field] = "is too large"
		case "oneof":
			details[field] = "must be one of the allowed values"
		default:
			details[field] = "is invalid"
		}
	}
	return details
}

// ValidateRequest binds the JSON body and validates both struct tags and domain rules
func ValidateRequest(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("Validation failed", fieldErrors(err, "request"))
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuery binds and validates query parameters
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		apiErr := errors.NewBadRequestError("Invalid query parameters")
		apiErr.Details = fieldErrors(err, "query")
		return apiErr
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
