// Package workflow models the composed preprocessor+model unit that the rest
// of the system schedules, tunes, and ranks.
package workflow

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ErrUnresolvedTuning is returned when finalizing a workflow leaves at least
// one tunable hyperparameter without a concrete value.
var ErrUnresolvedTuning = errors.New("unresolved tuning parameter")

// IncompatibilityError signals that a specific preprocessor/model pairing is
// structurally invalid. Builders treat it as a skip-and-warn condition rather
// than a fatal one.
type IncompatibilityError struct {
	Reason string
}

func (e *IncompatibilityError) Error() string {
	return fmt.Sprintf("incompatible combination: %s", e.Reason)
}

// Workflow is a composed preprocessor and model spec.
type Workflow struct {
	Preprocessor *Preprocessor
	Spec         *ModelSpec
}

// Compose pairs a preprocessor with a model spec, applying the structural
// compatibility contract. An *IncompatibilityError marks the single pairing
// as invalid without condemning either half.
func Compose(pre *Preprocessor, spec *ModelSpec) (*Workflow, error) {
	if pre == nil || spec == nil {
		return nil, fmt.Errorf("compose requires both a preprocessor and a model spec")
	}
	if spec.Mode != "" && pre.Outcome == "" {
		return nil, &IncompatibilityError{
			Reason: fmt.Sprintf("engine %q requires an outcome column but the preprocessor declares none", spec.Engine),
		}
	}
	return &Workflow{Preprocessor: pre, Spec: spec}, nil
}

// Finalize binds the concrete hyperparameter values of cfg into a new, fully
// specified workflow. Every tune-marked parameter must be resolved.
func (w *Workflow) Finalize(cfg Config) (*Workflow, error) {
	spec := w.Spec.Clone()
	var unresolved []string
	for _, name := range spec.Tune {
		v, ok := cfg.Values[name]
		if !ok {
			unresolved = append(unresolved, name)
			continue
		}
		spec.Params[name] = v
	}
	if len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvedTuning, unresolved)
	}
	spec.Tune = nil
	spec.Grid = nil
	return &Workflow{Preprocessor: w.Preprocessor, Spec: spec}, nil
}

// Config is one concrete hyperparameter setting, labeled for display and
// selection.
type Config struct {
	Label  string
	Values map[string]cty.Value
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := Config{Label: c.Label, Values: make(map[string]cty.Value, len(c.Values))}
	for k, v := range c.Values {
		out.Values[k] = v
	}
	return out
}
