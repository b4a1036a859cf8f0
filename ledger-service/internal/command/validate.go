package command

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct reports the first failing field of v as a ValidationError
// wrapping sentinel.
func validateStruct(v any, prefix string, sentinel error) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return &ValidationError{Message: err.Error(), err: sentinel}
	}
	fe := fieldErrors[0]
	field := fe.Field()
	if prefix != "" {
		field = prefix + "." + field
	}
	return &ValidationError{Field: field, Message: describe(fe), err: sentinel}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
