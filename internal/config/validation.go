package config

import (
	"fmt"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks the resolved settings for coherence. A gateway with neither a
// local credential nor a relay URL still starts: every AI feature just reports
// itself unavailable. Everything else must be well-formed.
func (s *Settings) Validate() *errors.APIError {
	if err := validate.Struct(s.AI); err != nil {
		return formatValidationError(err)
	}

	if s.AI.Credential != "" && s.AI.RelayURL != "" {
		return errors.NewConfigurationError(
			"GEMINI_API_KEY and AI_RELAY_URL are mutually exclusive: unset one to pick an operating mode")
	}

	if s.AI.RelayToken != "" && s.AI.RelayURL == "" {
		return errors.NewConfigurationError("AI_RELAY_TOKEN is set but AI_RELAY_URL is not")
	}

	return nil
}

// formatValidationError converts validator errors into a configuration APIError
func formatValidationError(err error) *errors.APIError {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatFieldError(e))
		}
		return errors.NewConfigurationError(strings.Join(messages, "; "))
	}
	return errors.NewConfigurationError(err.Error())
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", e.Field())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", e.Field())
	case "min":
		return fmt.Sprintf("field '%s' is below the allowed minimum (%s)", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("field '%s' is above the allowed maximum (%s)", e.Field(), e.Param())
	default:
		return fmt.Sprintf("field '%s' failed validation '%s'", e.Field(), e.Tag())
	}
}
