// Package app wires the application together: configuration loading, logging,
// the operation registry, and the benchmark run lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/tunegridgo/internal/config"
	"github.com/specialistvlad/tunegridgo/internal/ctxlog"
	"github.com/specialistvlad/tunegridgo/internal/engine"
	"github.com/specialistvlad/tunegridgo/internal/metric"
	"github.com/specialistvlad/tunegridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.BenchPath)
	if err != nil {
		// A failure to load the benchmark is a fatal startup error.
		panic(fmt.Errorf("failed to load benchmark: %w", err))
	}
	logger.Debug("Benchmark loaded and translated into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All operation modules registered.", "count", len(modules))

	if err := validateModel(model, reg); err != nil {
		panic(err)
	}
	logger.Debug("Benchmark validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// validateModel checks the parts of the benchmark that must resolve against
// compiled-in registries before any work starts.
func validateModel(model *config.Model, reg *registry.Registry) error {
	if model.Run == nil {
		return fmt.Errorf("benchmark declares no run block")
	}
	if len(model.Preprocessors) == 0 {
		return fmt.Errorf("benchmark declares no preprocessors")
	}
	if len(model.Models) == 0 {
		return fmt.Errorf("benchmark declares no models")
	}

	if model.Run.Operation != "" {
		if _, err := reg.Lookup(model.Run.Operation); err != nil {
			return err
		}
	}
	for _, name := range model.Run.Metrics {
		if _, err := metric.Lookup(name); err != nil {
			return err
		}
	}
	for _, def := range model.Models {
		if _, err := engine.Lookup(def.Engine); err != nil {
			return fmt.Errorf("model %q: %w", def.Name, err)
		}
	}
	return nil
}
