package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/config"
	"github.com/vk/queryfuncs/internal/ctxlog"
	"github.com/vk/queryfuncs/internal/functions"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	model   *config.Model
	factory *functions.Factory
}

// NewApp is the constructor for the main application. It loads the
// configuration files and builds the app's own sealed function factory from
// modules (coreModules when none are given) plus the configured aliases.
//
// Conflicting registrations inside modules are programming errors and
// panic; problems in configuration files are returned as errors.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...functions.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	env, err := loadEnv(cfg.EnvFiles)
	if err != nil {
		return nil, err
	}
	if tz := env[EnvTimezone]; tz != "" {
		model.Settings.Timezone = tz
	}
	if cfg.Timezone != "" {
		model.Settings.Timezone = cfg.Timezone
	}
	logger.Debug("Configuration loaded.", "aliases", len(model.Aliases), "dictionaries", len(model.Dictionaries))

	if len(modules) == 0 {
		modules = coreModules
	}

	var aliasErr error
	userAliases := functions.ModuleFunc(func(f *functions.Factory) {
		for _, a := range model.Aliases {
			cs := aliases.CaseSensitive
			if a.CaseInsensitive {
				cs = aliases.CaseInsensitive
			}
			if err := f.RegisterAlias(a.Name, a.Target, cs); err != nil {
				aliasErr = fmt.Errorf("invalid alias %q in %s: %w", a.Name, a.Source, err)
				return
			}
		}
	})

	factory := functions.BuildWith(
		[]functions.Option{functions.WithLogger(logger)},
		append(modules[:len(modules):len(modules)], userAliases)...,
	)
	if aliasErr != nil {
		return nil, aliasErr
	}
	logger.Debug("Function factory built.", "modules", len(modules), "functions", len(factory.AllNames()))

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		model:   model,
		factory: factory,
	}, nil
}

// Factory returns the application's function factory. This is primarily for testing.
func (a *App) Factory() *functions.Factory {
	return a.factory
}
