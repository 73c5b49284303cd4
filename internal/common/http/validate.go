package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs validator tags on a request DTO and returns a
// field->reason map suitable for the error envelope details.
func ValidateStruct(v any) (map[string]any, bool) {
	err := validate.Struct(v)
	if err == nil {
		return nil, true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]any{"request": "invalid"}, false
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = tagMessage(fe)
	}
	return details, false
}

func WriteValidationError(w http.ResponseWriter, details map[string]any) {
	WriteErrorEnvelope(w, http.StatusBadRequest, CodeValidationFailed, "validation failed", details, "")
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
