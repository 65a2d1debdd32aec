package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs tag validation and converts failures into a
// ValidationError with per-field details.
func validateStruct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return apperrors.NewValidationError("validation failed", details)
}
