package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validator returns the shared validator. Field errors carry json names.
func Validator() *validator.Validate {
	return validate
}

// IsEmail applies the same email rule as the registration form.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
