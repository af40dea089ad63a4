package input

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator. Field names come from the
// form tag so errors line up with the raw field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("probability", validateProbability)
		validate = v
	})
	return validate
}

func validateProbability(fl validator.FieldLevel) bool {
	p := fl.Field().Float()
	return p >= 0 && p <= 1
}

// Struct runs the validate tags on s and records any failures as domain errors.
func (r *Reader) Struct(s interface{}) {
	err := Validator().Struct(s)
	if err == nil {
		return
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		r.Fail("input", KindDomain, err.Error())
		return
	}
	for _, fieldError := range validationErrors {
		if r.failed(fieldError.Field()) {
			continue
		}
		r.Fail(fieldError.Field(), KindDomain, formatRule(fieldError))
	}
}

func formatRule(fieldError validator.FieldError) string {
	param := fieldError.Param()
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", param)
	case "gte", "min":
		return fmt.Sprintf("must be at least %s", param)
	case "lt":
		return fmt.Sprintf("must be less than %s", param)
	case "lte", "max":
		return fmt.Sprintf("must be at most %s", param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", param)
	case "probability":
		return "must be a probability between 0 and 1"
	default:
		return fmt.Sprintf("failed validation: %s", fieldError.Tag())
	}
}
