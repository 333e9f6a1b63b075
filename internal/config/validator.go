package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errs []error

	if err := validateEndpoint(cfg.Endpoint); err != nil {
		errs = append(errs, err)
	}

	if err := validateSession(cfg.Session); err != nil {
		errs = append(errs, err)
	}

	if err := validateLogging(cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

func validateEndpoint(cfg EndpointConfig) error {
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "endpoint.host",
			Message: "host is required",
		}
	}
	if u, err := url.Parse(cfg.Host); err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{
			Field:   "endpoint.host",
			Message: fmt.Sprintf("host must be an absolute URL, got %q", cfg.Host),
		}
	}
	if cfg.WriteKey == "" {
		return &ValidationError{
			Field:   "endpoint.write_key",
			Message: "write key is required",
		}
	}
	if cfg.SourceKey == "" {
		return &ValidationError{
			Field:   "endpoint.source_key",
			Message: "source key is required",
		}
	}
	if cfg.ConnectTimeoutSeconds < 0 {
		return &ValidationError{
			Field:   "endpoint.connect_timeout_seconds",
			Message: "connect timeout must not be negative",
		}
	}
	if cfg.ReadTimeoutSeconds < 0 {
		return &ValidationError{
			Field:   "endpoint.read_timeout_seconds",
			Message: "read timeout must not be negative",
		}
	}
	return nil
}

func validateSession(cfg SessionConfig) error {
	if cfg.StorePath == "" {
		return &ValidationError{
			Field:   "session.store_path",
			Message: "store path is required",
		}
	}
	if cfg.AppName == "" {
		return &ValidationError{
			Field:   "session.app_name",
			Message: "app name is required",
		}
	}
	if cfg.IdleTimeoutSeconds < 0 {
		return &ValidationError{
			Field:   "session.idle_timeout_seconds",
			Message: "idle timeout must not be negative",
		}
	}
	return nil
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return &ValidationError{
		Field:   "logging.level",
		Message: fmt.Sprintf("unknown level %q", cfg.Level),
	}
}
