package workflow

import (
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Mode values understood by the built-in engines.
const (
	ModeRegression = "regression"
)

// ModelSpec describes a model: which engine fits it, fixed hyperparameter
// values, and which hyperparameters are left open for tuning. The engine name
// is resolved at fit time, so a spec stays an inert value until then.
type ModelSpec struct {
	Engine string
	Mode   string
	Params map[string]cty.Value
	Tune   []string
	Grid   map[string][]float64 // explicit candidate values per tuned param
}

// TuneParams returns the names of hyperparameters marked for tuning.
func (s *ModelSpec) TuneParams() []string {
	return slices.Clone(s.Tune)
}

// IsTunable reports whether any hyperparameter is still open.
func (s *ModelSpec) IsTunable() bool {
	return len(s.Tune) > 0
}

// Clone returns a deep copy of the spec.
func (s *ModelSpec) Clone() *ModelSpec {
	out := &ModelSpec{
		Engine: s.Engine,
		Mode:   s.Mode,
		Params: make(map[string]cty.Value, len(s.Params)),
		Tune:   slices.Clone(s.Tune),
	}
	for k, v := range s.Params {
		out.Params[k] = v
	}
	if s.Grid != nil {
		out.Grid = make(map[string][]float64, len(s.Grid))
		for k, v := range s.Grid {
			out.Grid[k] = slices.Clone(v)
		}
	}
	return out
}
