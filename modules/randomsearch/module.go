// Package randomsearch provides a tuning operation that samples
// hyperparameter configurations uniformly from the candidate values instead
// of crossing them exhaustively.
package randomsearch

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/evaluate"
	"github.com/specialistvlad/tunegridgo/internal/registry"
	"github.com/specialistvlad/tunegridgo/internal/resample"
	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
	"github.com/specialistvlad/tunegridgo/modules/gridsearch"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the operation with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("random_search", Run)
}

// Run is the random_search operation. Options: "iterations" (default 10) and
// "seed" (default 1) keep runs reproducible.
func Run(ctx context.Context, wf *workflow.Workflow, plan *resample.Plan, options map[string]cty.Value) (result.TuningResult, error) {
	metrics, err := evaluate.MetricsFromOptions(options)
	if err != nil {
		return nil, err
	}
	iterations, err := evaluate.IntOption(options, "iterations", 10)
	if err != nil {
		return nil, err
	}
	if iterations < 1 {
		return nil, fmt.Errorf("option \"iterations\" must be at least 1, got %d", iterations)
	}
	seed, err := evaluate.IntOption(options, "seed", 1)
	if err != nil {
		return nil, err
	}

	configs, err := sampleConfigs(wf.Spec, iterations, int64(seed))
	if err != nil {
		return nil, err
	}

	summaries, err := evaluate.Configs(ctx, wf, plan, configs, metrics)
	if err != nil {
		return nil, err
	}
	return result.Of(summaries), nil
}

// sampleConfigs draws one value per tuned parameter per iteration, deduping
// identical draws so the scoring loop never fits the same point twice.
func sampleConfigs(spec *workflow.ModelSpec, iterations int, seed int64) ([]workflow.Config, error) {
	tuned := spec.TuneParams()
	if len(tuned) == 0 {
		return []workflow.Config{{Label: "config01", Values: map[string]cty.Value{}}}, nil
	}

	candidates := make([][]float64, len(tuned))
	for i, name := range tuned {
		vals, err := gridsearch.Candidates(spec, name)
		if err != nil {
			return nil, err
		}
		candidates[i] = vals
	}

	rng := rand.New(rand.NewSource(seed))
	seen := make(map[string]struct{}, iterations)
	var configs []workflow.Config
	for i := 0; i < iterations; i++ {
		values := make(map[string]cty.Value, len(tuned))
		key := ""
		for j, name := range tuned {
			v := candidates[j][rng.Intn(len(candidates[j]))]
			values[name] = cty.NumberFloatVal(v)
			key += fmt.Sprintf("%s=%g;", name, v)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		configs = append(configs, workflow.Config{
			Label:  fmt.Sprintf("config%02d", len(configs)+1),
			Values: values,
		})
	}
	return configs, nil
}
