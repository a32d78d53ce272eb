package models

import (
	"errors"
	"fmt"
)

// Model generation failures. Callers recover from these with the fallback predictor.
var (
	ErrModelUnavailable = errors.New("prediction model is not configured")
	ErrEmptyResponse    = errors.New("prediction model returned an empty response")
	ErrSchemaViolation  = errors.New("prediction model response does not match the schema")
)

// ConfigError reports a missing provider credential.
type ConfigError struct {
	Provider string
	EnvVar   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s API key is not configured, set the %s environment variable", e.Provider, e.EnvVar)
}

// UpstreamError reports a non-success response from a provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, e.Status)
}

// IsConfigError reports whether err is caused by a missing credential.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
