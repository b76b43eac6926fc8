package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateNode()...)
	errors = append(errors, c.validateFederation()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateNode() ValidationErrors {
	var errors ValidationErrors

	// A node without its gateway URL cannot reach any peer table; refuse to
	// run rather than fail on the first search.
	if c.Node.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "node.base_url",
			Message: "base_url is required",
		})
	} else if _, err := url.ParseRequestURI(c.Node.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "node.base_url",
			Message: "base_url must be a valid URL",
		})
	}

	if c.Node.RegistryURL != "" {
		if _, err := url.ParseRequestURI(c.Node.RegistryURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "node.registry_url",
				Message: "registry_url must be a valid URL",
			})
		}
	}

	return errors
}

func (c *Config) validateFederation() ValidationErrors {
	var errors ValidationErrors

	if c.Federation.Workers <= 0 {
		errors = append(errors, ValidationError{
			Field:   "federation.workers",
			Message: "workers must be positive",
		})
	}

	if c.Federation.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "federation.timeout_seconds",
			Message: "timeout_seconds must be positive",
		})
	}

	if c.Federation.MaxRetries < 0 {
		errors = append(errors, ValidationError{
			Field:   "federation.max_retries",
			Message: "max_retries cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateServer() ValidationErrors {
	var errors ValidationErrors

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: "port must be between 1 and 65535",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
