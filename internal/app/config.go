package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths   []string // .hcl files or directories
	EnvFiles      []string // dotenv files
	Expressions   []string
	ListFunctions bool
	// Timezone overrides the timezone from the configuration files and the
	// environment.
	Timezone string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Expressions) == 0 && !cfg.ListFunctions {
		return nil, errors.New("nothing to do: provide an expression or request the function list")
	}
	return &cfg, nil
}
