package helpers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/events/internal/models"
)

// FieldViolations flattens validator errors into the response shape. It
// returns nil when err is not a validation error.
func FieldViolations(err error) []models.FieldViolation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]models.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldViolation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s must not be empty", fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}
