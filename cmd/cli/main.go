package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/queryfuncs/internal/app"
	"github.com/vk/queryfuncs/internal/cli"
	"github.com/vk/queryfuncs/internal/hcl_adapter"
)

// main is the entrypoint for the queryfuncs application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Conflicting registrations panic while the factory is built; turn that
	// into a regular error for the caller.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader := hcl_adapter.NewLoader()
	a, err := app.NewApp(outW, errW, appConfig, loader)
	if err != nil {
		return err
	}

	return a.Run(context.Background())
}
