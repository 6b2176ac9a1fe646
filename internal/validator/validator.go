// Package validator provides request validation using go-playground/validator.
package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	countryCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)
	languageRe    = regexp.MustCompile(`^[a-z]{2}(-[a-zA-Z]{2,8})?$`)
	slugRe        = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Validator wraps the go-playground validator with locale-dimension rules.
type Validator struct {
	v *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// New creates a new Validator with the custom locale-dimension validations
// registered: country (ISO 3166-1 alpha-2, uppercase), langcode (lowercase
// two-letter code with optional subtag), and slug.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return countryCodeRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return languageRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates the given struct and returns ValidationErrors if invalid.
func (v *Validator) Validate(i interface{}) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, e := range err.(validator.ValidationErrors) {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Value:   fmt.Sprintf("%v", e.Value()),
			Message: formatErrorMessage(e),
		})
	}

	return errs
}

// formatErrorMessage generates a human-readable error message.
func formatErrorMessage(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "country":
		return fmt.Sprintf("%s must be a two-letter uppercase country code", field)
	case "langcode":
		return fmt.Sprintf("%s must be a lowercase language code like fr or pt-BR", field)
	case "slug":
		return fmt.Sprintf("%s must be a lowercase slug", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}
