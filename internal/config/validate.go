package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMapping(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMapping() error {
	if filepath.Clean(c.Mapping.Template) == filepath.Clean(c.Mapping.Generated) {
		return errors.New("mapping.generated must differ from mapping.template")
	}
	if filepath.Clean(c.Mapping.CleanedInput) == filepath.Clean(c.Mapping.RDFOutput) {
		return errors.New("mapping.cleaned_input must differ from mapping.rdf_output")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.StageTimeoutSeconds < 0 {
		return errors.New("pipeline.stage_timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
