// Package fitresamples provides the evaluation-only operation: no tuning,
// just fitting the workflow's fixed specification across the resampling plan.
package fitresamples

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

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
	r.Register("fit_resamples", Run)
}

// Run is the fit_resamples operation. It refuses workflows that still carry
// tunable placeholders, since there is no grid to resolve them.
func Run(ctx context.Context, wf *workflow.Workflow, plan *resample.Plan, options map[string]cty.Value) (result.TuningResult, error) {
	if wf.Spec.IsTunable() {
		return nil, fmt.Errorf(
			"fit_resamples cannot evaluate a workflow with open tuning parameters %v; finalize it or use a tuning operation",
			wf.Spec.TuneParams())
	}

	metrics, err := evaluate.MetricsFromOptions(options)
	if err != nil {
		return nil, err
	}

	configs := []workflow.Config{{Label: "config01", Values: map[string]cty.Value{}}}
	summaries, err := evaluate.Configs(ctx, wf, plan, configs, metrics)
	if err != nil {
		return nil, err
	}
	return result.Of(summaries), nil
}
