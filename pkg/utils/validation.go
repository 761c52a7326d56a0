package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"memcore/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field paths using json tag names so rejections match the
	// wire form of the candidate, not Go identifiers.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// ValidateStruct validates a struct based on its validation tags.
// The first violation is returned as a DomainError tagged with the
// offending field path; the caller never sees partial results.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError maps validator failures onto the domain taxonomy
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err
	}

	e := validationErrors[0]
	field := fieldPath(e)

	switch e.Tag() {
	case "required":
		return errors.NewMissingRequiredField(field)
	case "min":
		// An empty collection is reported the same as an absent one.
		switch e.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return errors.NewMissingRequiredField(field)
		}
		fallthrough
	case "gte", "lte", "max":
		if e.Kind().String() == "float64" || e.Kind().String() == "float32" {
			val, _ := e.Value().(float64)
			return errors.NewScoreOutOfRange(field, val)
		}
		return errors.NewDomainError(
			errors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			fmt.Sprintf("%s must satisfy %s=%s", field, e.Tag(), e.Param()),
		).WithField(field)
	case "len":
		return errors.NewDomainError(
			errors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			fmt.Sprintf("%s must have exactly %s elements", field, e.Param()),
		).WithField(field)
	default:
		return errors.NewDomainError(
			errors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			fmt.Sprintf("%s is invalid", field),
		).WithField(field)
	}
}

// fieldPath strips the root struct name from the validator namespace
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return strings.ToLower(e.Field())
}
