package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories and
	// merges it into a single Model. A path that does not exist is an
	// error.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
