package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the config rules registered
func NewValidator() *Validator {
	v := validator.New()

	// player ids end up in cache keys and file names
	_ = v.RegisterValidation("playerid", func(fl validator.FieldLevel) bool {
		return playerIDPattern.MatchString(fl.Field().String())
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}

// ValidatePlayerID checks a player id given outside a config file
func ValidatePlayerID(id string) error {
	if len(id) == 0 || len(id) > 64 || !playerIDPattern.MatchString(id) {
		return fmt.Errorf("invalid player id %q: use up to 64 letters, digits, '-' or '_'", id)
	}
	return nil
}
