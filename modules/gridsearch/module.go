// Package gridsearch provides the default tuning operation: exhaustive
// evaluation of the cross product of candidate values for every tune-marked
// hyperparameter.
package gridsearch

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/engine"
	"github.com/specialistvlad/tunegridgo/internal/evaluate"
	"github.com/specialistvlad/tunegridgo/internal/registry"
	"github.com/specialistvlad/tunegridgo/internal/resample"
	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the operation with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("grid_search", Run)
}

// Run is the grid_search operation.
func Run(ctx context.Context, wf *workflow.Workflow, plan *resample.Plan, options map[string]cty.Value) (result.TuningResult, error) {
	metrics, err := evaluate.MetricsFromOptions(options)
	if err != nil {
		return nil, err
	}

	configs, err := buildGrid(wf.Spec)
	if err != nil {
		return nil, err
	}

	summaries, err := evaluate.Configs(ctx, wf, plan, configs, metrics)
	if err != nil {
		return nil, err
	}
	return result.Of(summaries), nil
}

// buildGrid crosses the candidate values of every tuned hyperparameter. A
// spec with nothing to tune yields a single default configuration.
func buildGrid(spec *workflow.ModelSpec) ([]workflow.Config, error) {
	tuned := spec.TuneParams()
	if len(tuned) == 0 {
		return []workflow.Config{{Label: "config01", Values: map[string]cty.Value{}}}, nil
	}

	candidates := make([][]float64, len(tuned))
	for i, name := range tuned {
		vals, err := Candidates(spec, name)
		if err != nil {
			return nil, err
		}
		candidates[i] = vals
	}

	var configs []workflow.Config
	assignment := make([]float64, len(tuned))
	var cross func(depth int)
	cross = func(depth int) {
		if depth == len(tuned) {
			values := make(map[string]cty.Value, len(tuned))
			for i, name := range tuned {
				values[name] = cty.NumberFloatVal(assignment[i])
			}
			configs = append(configs, workflow.Config{
				Label:  fmt.Sprintf("config%02d", len(configs)+1),
				Values: values,
			})
			return
		}
		for _, v := range candidates[depth] {
			assignment[depth] = v
			cross(depth + 1)
		}
	}
	cross(0)
	return configs, nil
}

// Candidates resolves the candidate values for one tuned hyperparameter: the
// spec's explicit grid when given, otherwise the engine's declared defaults.
func Candidates(spec *workflow.ModelSpec, param string) ([]float64, error) {
	if vals, ok := spec.Grid[param]; ok {
		if len(vals) == 0 {
			return nil, fmt.Errorf("grid for parameter %q is empty", param)
		}
		return vals, nil
	}

	eng, err := engine.Lookup(spec.Engine)
	if err != nil {
		return nil, err
	}
	for _, ps := range eng.Params() {
		if ps.Name == param {
			return ps.Candidates, nil
		}
	}
	return nil, fmt.Errorf("engine %q has no tunable parameter %q", spec.Engine, param)
}
