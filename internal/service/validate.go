package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
)

// phonePattern accepts digits, dashes, parentheses and spaces.
var phonePattern = regexp.MustCompile(`^[\d\-\(\)\s]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validateRequest checks a request message and reports the first bad field
// as an invalid_argument error.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s: %s", fe.Field(), describe(fe)))
	}
	return connect.NewError(connect.CodeInvalidArgument, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone":
		return "may contain only digits, dashes, parentheses and spaces"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "cannot be empty"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
