package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/errors"
	"github.com/go-playground/validator/v10"
)

const maxRequestBytes = 4 << 20 // 4 MiB, enough for inline images

var validate = validator.New()

// DecodeAndValidate decodes a JSON request body into the target struct and
// runs its validate tags. Returns a validation APIError describing the first
// problem found, nil on success.
func DecodeAndValidate(r *http.Request, into interface{}) *errors.APIError {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return errors.NewValidationError("failed to read request body")
	}
	if len(body) == 0 {
		return errors.NewValidationError("request body is required")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid request format: %v", err))
	}

	return ValidateStruct(into)
}

// ValidateStruct runs validate tags against an already-decoded struct
func ValidateStruct(into interface{}) *errors.APIError {
	if err := validate.Struct(into); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			return errors.NewValidationError(formatFieldErrors(fieldErrors))
		}
		return errors.NewValidationError(err.Error())
	}
	return nil
}

func formatFieldErrors(fieldErrors validator.ValidationErrors) string {
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, formatFieldError(fe))
	}
	return strings.Join(messages, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", fe.Field())
	case "min":
		return fmt.Sprintf("field '%s' must have at least %s items or characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field '%s' must have at most %s items or characters", fe.Field(), fe.Param())
	case "base64":
		return fmt.Sprintf("field '%s' must be base64 encoded", fe.Field())
	default:
		return fmt.Sprintf("field '%s' failed validation '%s'", fe.Field(), fe.Tag())
	}
}
