package entity

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = RegisterValidations(v)
	return v
}

func validatePincode(fl validator.FieldLevel) bool {
	return ValidPincode(fl.Field().String())
}

// RegisterValidations installs the custom tags on another validator, such as
// the one gin binds with.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("pincode", validatePincode)
}

// Validate checks s against its validate tags and reports the first failing
// field as a ValidationError.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "pincode" {
			return ErrInvalidPincode
		}
		return ValidationError{Field: fe.Field(), Message: messageFor(fe.Tag())}
	}
	return err
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "is too short"
	default:
		return "is invalid"
	}
}
