package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"rag-chatbot-be/internal/pkg/apperrors"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures into a
// single validation error with a readable field list.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.KindValidation, "invalid request payload", err)
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}

	return apperrors.New(apperrors.KindValidation, "validation failed: "+strings.Join(parts, "; "))
}
