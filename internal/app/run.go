package app

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/builder"
	"github.com/specialistvlad/tunegridgo/internal/config"
	"github.com/specialistvlad/tunegridgo/internal/ctxlog"
	"github.com/specialistvlad/tunegridgo/internal/dataset"
	"github.com/specialistvlad/tunegridgo/internal/executor"
	"github.com/specialistvlad/tunegridgo/internal/export"
	"github.com/specialistvlad/tunegridgo/internal/rank"
	"github.com/specialistvlad/tunegridgo/internal/render"
	"github.com/specialistvlad/tunegridgo/internal/resample"
	"github.com/specialistvlad/tunegridgo/internal/scheduler"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

const (
	defaultFolds = 10
	defaultSeed  = 1
)

// Run executes the loaded benchmark end to end: build the workflow set, map
// the operation over it, rank, render, and optionally export.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	run := a.model.Run

	data, err := dataset.FromCSV(run.Data)
	if err != nil {
		return err
	}
	a.logger.Debug("Dataset loaded.", "rows", data.NumRows(), "columns", len(data.Columns()))

	folds := run.Folds
	if folds == 0 {
		folds = defaultFolds
	}
	seed := run.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	plan, err := resample.VFold(data, folds, seed)
	if err != nil {
		return err
	}
	a.logger.Debug("Resampling plan built.", "splits", plan.Len())

	req, err := buildRequest(a.model)
	if err != nil {
		return err
	}
	set, skipped, err := builder.Build(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to build workflow set: %w", err)
	}
	a.logger.Info("Workflow set built.", "entries", set.Len(), "skipped", len(skipped))
	if set.Len() == 0 {
		return fmt.Errorf("workflow set is empty, nothing to execute")
	}

	workers := appConfig.Workers
	if workers == 0 {
		workers = run.Workers
	}
	var strategy scheduler.Strategy = scheduler.Sequential{}
	if workers > 1 {
		strategy = scheduler.Pool{Workers: workers}
	}

	metrics := run.Metrics
	if len(metrics) == 0 {
		metrics = []string{"rmse"}
	}

	// The run block's metric list rides into every operation as an option, so
	// the metric ranked on is always one the operation computed.
	options := make(map[string]cty.Value, len(run.Options)+1)
	for k, v := range run.Options {
		options[k] = v
	}
	if _, ok := options["metrics"]; !ok {
		names := make([]cty.Value, len(metrics))
		for i, name := range metrics {
			names[i] = cty.StringVal(name)
		}
		options["metrics"] = cty.ListVal(names)
	}

	exec := executor.New(a.registry, strategy)
	params := executor.Params{
		Operation: run.Operation,
		Options:   options,
		Force:     appConfig.Force || run.Force,
		Verbose:   appConfig.Verbose,
	}
	if err := exec.Run(ctx, set, plan, params); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	rows, err := rank.Rank(set, metrics[0], true)
	if err != nil {
		return err
	}

	fmt.Fprint(a.outW, render.RankingTable(rows))

	if run.Export != "" {
		if _, err := export.Ranking(ctx, run.Export, rows); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// buildRequest translates the benchmark model into a builder request.
func buildRequest(model *config.Model) (builder.Request, error) {
	req := builder.Request{}

	for _, def := range model.Preprocessors {
		req.Preprocessors = append(req.Preprocessors, builder.NamedPreprocessor{
			Name: def.Name,
			Preprocessor: &workflow.Preprocessor{
				Outcome:    def.Outcome,
				Predictors: def.Predictors,
				Log:        def.Log,
				Normalize:  def.Normalize,
			},
		})
	}

	for _, def := range model.Models {
		mode := def.Mode
		if mode == "" {
			mode = workflow.ModeRegression
		}
		req.Models = append(req.Models, builder.NamedModel{
			Name: def.Name,
			Spec: &workflow.ModelSpec{
				Engine: def.Engine,
				Mode:   mode,
				Params: def.Params,
				Tune:   def.Tune,
				Grid:   def.Grid,
			},
		})
	}

	if model.Set != nil {
		switch model.Set.Mode {
		case "", "cross":
			req.Mode = builder.Cross
		case "pairwise":
			req.Mode = builder.Pairwise
		default:
			return builder.Request{}, fmt.Errorf("unknown workflow_set mode %q", model.Set.Mode)
		}
		req.Options = model.Set.Options
	}

	return req, nil
}
