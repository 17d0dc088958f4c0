package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("configuration validation failed")

// Validator checks a loaded configuration.
type Validator interface {
	Validate(cfg *Config) error
}

type validatorImpl struct {
	validate *validator.Validate
}

func NewValidator() Validator {
	return &validatorImpl{validate: validator.New()}
}

// Validate runs the struct tags and then the cross-field checks that tags
// cannot express (start and goal inside the grid, walls off the endpoints).
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is nil", ErrInvalid)
	}
	if err := v.validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		msgs := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			msgs = append(msgs, formatValidationError(e))
		}
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(msgs, "\n  - "))
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return fmt.Errorf("%w:\n  - %w", ErrInvalid, err)
	}
	size := cfg.Simulation.Field.Size
	if size*size > cfg.Server.MaxCells {
		return fmt.Errorf("%w:\n  - simulation.field.size %d exceeds server.max_cells %d", ErrInvalid, size, cfg.Server.MaxCells)
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s (got: %v)", field, e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got: %v)", field, e.Param(), e.Value())
	case "lt":
		return fmt.Sprintf("%s must be less than %s (got: %v)", field, e.Param(), e.Value())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (got: %v)", field, e.Tag(), e.Value())
	}
}

// formatFieldPath turns "Config.Simulation.Field.Size" into
// "simulation.field.size".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}
