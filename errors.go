package stagekit

import "fmt"

// ConfigError reports an invalid machine configuration. It is the only
// error class the engine surfaces: runtime conditions such as unhandled
// events, vetoed transitions and unknown targets follow the permissiveness
// policy (silent or logged no-ops) and never become errors.
type ConfigError struct {
	Component string
	Issue     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigError creates a new configuration error.
func NewConfigError(component, issue string) *ConfigError {
	return &ConfigError{
		Component: component,
		Issue:     issue,
	}
}

// IsConfigError checks if an error is a ConfigError.
func IsConfigError(err error) bool {
	_, ok := err.(*ConfigError)
	return ok
}
