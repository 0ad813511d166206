// Package serializers converts between HTTP payloads and models. Request
// structs carry validator tags; responses come in the shapes the API promises.
package serializers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"recipeapi/internal/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "nonnegative", func(fl validator.FieldLevel) bool {
		return !Decimal(fl.Field().String()).Negative()
	})
	mustRegister(v, "max_places", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && Decimal(fl.Field().String()).Places() <= limit
	})
	mustRegister(v, "max_digits", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && Decimal(fl.Field().String()).Digits() <= limit
	})
	mustRegister(v, "max_whole", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && Decimal(fl.Field().String()).WholeDigits() <= limit
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
	}
}

// Validate checks req against its struct tags and returns a ValidationError
// with one message per failing field.
func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	out := &errs.ValidationError{}
	for _, e := range verrs {
		out.Add(e.Field(), message(e))
	}
	return out.OrNil()
}

func message(e validator.FieldError) string {
	isText := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "min":
		if isText {
			return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "max":
		if isText {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "nonnegative":
		return "Ensure this value is greater than or equal to 0."
	case "max_places":
		return fmt.Sprintf("Ensure that there are no more than %s decimal places.", e.Param())
	case "max_whole":
		return fmt.Sprintf("Ensure that there are no more than %s digits before the decimal point.", e.Param())
	case "max_digits":
		return fmt.Sprintf("Ensure that there are no more than %s digits in total.", e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}
