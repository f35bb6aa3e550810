package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSourcing(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSourcing() error {
	if c.Sourcing.MinDurationFactor > c.Sourcing.MaxDurationFactor {
		return fmt.Errorf(
			"sourcing.min_duration_factor (%.2f) must not exceed sourcing.max_duration_factor (%.2f)",
			c.Sourcing.MinDurationFactor, c.Sourcing.MaxDurationFactor,
		)
	}
	if c.Sourcing.MaxSuggestions > 64 {
		return errors.New("sourcing.max_suggestions must be 64 or fewer")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
