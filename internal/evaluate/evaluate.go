// Package evaluate contains the scoring loop shared by the built-in tuning
// operations: fit a workflow's engine on every analysis set of a resampling
// plan, predict the assessment set, and summarize metrics per configuration.
package evaluate

import (
	"context"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"gonum.org/v1/gonum/stat"

	"github.com/specialistvlad/tunegridgo/internal/engine"
	"github.com/specialistvlad/tunegridgo/internal/metric"
	"github.com/specialistvlad/tunegridgo/internal/resample"
	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

// Configs scores every configuration across every split of the plan and
// returns one summary per (configuration, metric) pair.
func Configs(ctx context.Context, wf *workflow.Workflow, plan *resample.Plan, configs []workflow.Config, metrics []metric.Metric) ([]result.Summary, error) {
	eng, err := engine.Lookup(wf.Spec.Engine)
	if err != nil {
		return nil, err
	}

	fixed, err := FloatParams(wf.Spec.Params)
	if err != nil {
		return nil, err
	}

	summaries := make([]result.Summary, 0, len(configs)*len(metrics))
	for _, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		params := make(map[string]float64, len(fixed)+len(cfg.Values))
		for k, v := range fixed {
			params[k] = v
		}
		tuned, err := FloatParams(cfg.Values)
		if err != nil {
			return nil, fmt.Errorf("configuration %q: %w", cfg.Label, err)
		}
		for k, v := range tuned {
			params[k] = v
		}

		// scores[metric] collects one value per split.
		scores := make(map[string][]float64, len(metrics))
		for _, split := range plan.Splits() {
			truth, preds, err := fitSplit(ctx, wf, plan, split, eng, params)
			if err != nil {
				return nil, fmt.Errorf("configuration %q: %w", cfg.Label, err)
			}
			for _, m := range metrics {
				score, err := Score(m.Name, truth, preds)
				if err != nil {
					return nil, err
				}
				scores[m.Name] = append(scores[m.Name], score)
			}
		}

		for _, m := range metrics {
			vals := scores[m.Name]
			mean := stat.Mean(vals, nil)
			var stderr float64
			if len(vals) > 1 {
				stderr = stat.StdDev(vals, nil) / math.Sqrt(float64(len(vals)))
			}
			summaries = append(summaries, result.Summary{
				Config: cfg,
				Metric: m.Name,
				Mean:   mean,
				StdErr: stderr,
				N:      len(vals),
			})
		}
	}

	return summaries, nil
}

// fitSplit trains on the split's analysis rows and predicts its assessment
// rows. Preprocessing statistics are estimated from the analysis set only.
func fitSplit(ctx context.Context, wf *workflow.Workflow, plan *resample.Plan, split resample.Split, eng engine.Engine, params map[string]float64) (truth, preds []float64, err error) {
	analysis, err := plan.Data().Subset(split.Analysis)
	if err != nil {
		return nil, nil, err
	}
	assessment, err := plan.Data().Subset(split.Assessment)
	if err != nil {
		return nil, nil, err
	}

	fitted, err := wf.Preprocessor.Fit(analysis)
	if err != nil {
		return nil, nil, err
	}
	trainX, trainY, err := fitted.Transform(analysis)
	if err != nil {
		return nil, nil, err
	}
	testX, testY, err := fitted.Transform(assessment)
	if err != nil {
		return nil, nil, err
	}

	model, err := eng.Fit(ctx, trainX, trainY, params)
	if err != nil {
		return nil, nil, err
	}
	return testY, model.Predict(testX), nil
}

// Score computes one metric over a prediction vector.
func Score(metricName string, truth, preds []float64) (float64, error) {
	if len(truth) != len(preds) {
		return 0, fmt.Errorf("got %d predictions for %d observations", len(preds), len(truth))
	}
	switch metricName {
	case "rmse":
		var sse float64
		for i := range truth {
			d := preds[i] - truth[i]
			sse += d * d
		}
		return math.Sqrt(sse / float64(len(truth))), nil
	case "mae":
		var sum float64
		for i := range truth {
			sum += math.Abs(preds[i] - truth[i])
		}
		return sum / float64(len(truth)), nil
	case "rsq":
		return stat.RSquaredFrom(preds, truth, nil), nil
	default:
		return 0, fmt.Errorf("metric %q is not computable for regression results", metricName)
	}
}

// FloatParams converts cty parameter values to float64, rejecting anything
// non-numeric.
func FloatParams(values map[string]cty.Value) (map[string]float64, error) {
	out := make(map[string]float64, len(values))
	for name, v := range values {
		if v.Type() != cty.Number {
			return nil, fmt.Errorf("parameter %q must be numeric, got %s", name, v.Type().FriendlyName())
		}
		f, _ := v.AsBigFloat().Float64()
		out[name] = f
	}
	return out, nil
}
