package aliases

import "fmt"

// ConfigurationError reports a registration that would leave a factory in an
// ambiguous state, such as a duplicate name or an alias to an unknown target.
// It is raised during initialization and is never the result of a lookup.
type ConfigurationError struct {
	Factory string
	Name    string
	Reason  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Factory, e.Reason)
}

// NewConfigurationError builds a ConfigurationError with a formatted reason.
func NewConfigurationError(factory, name, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Factory: factory,
		Name:    name,
		Reason:  fmt.Sprintf(format, args...),
	}
}
