// Package cli parses command-line arguments, validates user input and
// handles process-level concerns like exit codes. It turns flags and
// positional expressions into an app.Config.
package cli
