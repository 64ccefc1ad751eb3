package serverutils

import (
	"fmt"
	"strings"

	"collabotree-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures into the
// validation error kind so the error middleware answers 422.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidation("invalid request payload")
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}
	return apperror.NewValidation(strings.Join(parts, "; "))
}
