package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// MinContactDigits is the shortest accepted contact number
const MinContactDigits = 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return len(utils.DigitsOnly(fl.Field().String())) >= MinContactDigits
	})
	return v
}

// validateStruct maps the first validator failure to a Validation error
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", err.Error())
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), namespaceRoot(fe))
	return apperr.Validation(field, describe(fe))
}

func namespaceRoot(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[:i+1]
	}
	return ""
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "contact":
		return fmt.Sprintf("must contain at least %d digits", MinContactDigits)
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must use the format " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}
