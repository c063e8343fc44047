package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents an invalid settings value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks settings for required fields and valid values.
func Validate(s *Settings) error {
	var errors []string

	if strings.TrimSpace(s.Manifest) == "" {
		errors = append(errors, ValidationError{Field: "manifest", Message: "must not be empty"}.Error())
	}

	if strings.TrimSpace(s.UVBinary) == "" {
		errors = append(errors, ValidationError{Field: "uv_binary", Message: "must not be empty"}.Error())
	}

	if s.CommandTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "command_timeout",
			Message: fmt.Sprintf("must not be negative, got %s", s.CommandTimeout),
		}.Error())
	}

	for i, name := range s.Exclude {
		if strings.TrimSpace(name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("exclude[%d]", i),
				Message: "package name must not be empty",
			}.Error())
		}
	}

	if err := validateRegistry(s.Registry); err != nil {
		errors = append(errors, err.Error())
	}

	if s.Backup.Keep < 1 {
		errors = append(errors, ValidationError{
			Field:   "backup.keep",
			Message: fmt.Sprintf("must be at least 1, got %d", s.Backup.Keep),
		}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateRegistry(r RegistryConfig) error {
	if r.BaseURL == "" {
		if r.Lookup {
			return ValidationError{Field: "registry.base_url", Message: "required when registry.lookup is enabled"}
		}
		return nil
	}

	u, err := url.Parse(r.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{
			Field:   "registry.base_url",
			Message: fmt.Sprintf("invalid URL %q (expected http or https)", r.BaseURL),
		}
	}

	return nil
}
