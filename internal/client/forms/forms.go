// Package forms validates user input before it reaches the network.
// It wraps go-playground/validator with the rules the client needs and
// converts failures into *ValidationError.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/spentra/internal/common"
	"github.com/go-playground/validator/v10"
)

// emailPattern is the deliberately loose local@domain.tld check.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[a-zA-Z]{2,}$`)

// ValidationError is a client-side input error. Field is the form field
// name (the `form` struct tag), Message is ready to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrValidation
}

// Validator checks form structs tagged with `validate`.
type Validator struct {
	v *validator.Validate
}

// New registers the "spentra_email" rule and uses `form` tags as field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	_ = v.RegisterValidation("spentra_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return &Validator{v: v}
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Check validates form and returns the first failure as *ValidationError.
func (v *Validator) Check(form any) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "spentra_email", "email":
		return "please enter a valid email address"
	case "eqfield":
		return "passwords do not match"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return strings.ReplaceAll(fe.Error(), "'", "")
	}
}
