package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// validate is the package-level validator instance.
// Field errors are reported by their koanf key.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	return v
}

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast - the program should not start with invalid config.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validate.Struct(c); err != nil {
		result = multierror.Append(result, fieldErrors(err)...)
	}

	result = multierror.Append(result, c.crossFieldErrors()...)

	if result.ErrorOrNil() == nil {
		return nil
	}

	result.ErrorFormat = formatErrors

	return result
}

// crossFieldErrors reports constraints that span several fields.
func (c *Config) crossFieldErrors() []error {
	var errs []error

	m := c.Metadata
	if m.MaxPageSize > 0 && m.DefaultPageSize > m.MaxPageSize {
		errs = append(errs, fmt.Errorf("metadata.default_page_size (%d) must not exceed metadata.max_page_size (%d)",
			m.DefaultPageSize, m.MaxPageSize))
	}

	if m.Password != "" && m.UserID == "" {
		errs = append(errs, errors.New("metadata.user_id is required when metadata.password is set"))
	}

	return errs
}

// fieldErrors converts validator errors to readable errors.
func fieldErrors(err error) []error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []error{err}
	}

	errs := make([]error, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, errors.New(formatFieldError(e)))
	}

	return errs
}

// formatErrors renders all validation errors in one message.
func formatErrors(errs []error) string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}

	return fmt.Sprintf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath converts "Config.server.port" to "server.port".
func formatFieldPath(namespace string) string {
	// Remove the root struct name (Config.)
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	// Convert to lowercase
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}
