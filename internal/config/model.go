// Package config holds the format-agnostic model of a benchmark definition.
// Loaders translate their source format into this model; nothing here knows
// about HCL.
package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of one benchmark: the declared
// preprocessors and models, how they combine, and how the run executes.
type Model struct {
	Preprocessors []*PreprocessorDef
	Models        []*ModelDef
	Set           *SetDef
	Run           *RunDef
}

// PreprocessorDef declares one named preprocessor. Declaration order matters
// for pairwise combination.
type PreprocessorDef struct {
	Name       string
	Outcome    string
	Predictors []string
	Log        []string
	Normalize  bool
}

// ModelDef declares one named model specification.
type ModelDef struct {
	Name   string
	Engine string
	Mode   string
	Params map[string]cty.Value
	Tune   []string
	Grid   map[string][]float64
}

// SetDef configures the combination step.
type SetDef struct {
	// Mode is "cross" (default) or "pairwise".
	Mode string
	// Options holds per-entry option overrides keyed by workflow id.
	Options map[string]map[string]cty.Value
}

// RunDef configures the batch execution.
type RunDef struct {
	Data      string
	Operation string
	Metrics   []string
	Folds     int
	Seed      int64
	Workers   int
	Force     bool
	Export    string
	// Options applies to every workflow entry.
	Options map[string]cty.Value
}

// Loader is the interface for a format-specific benchmark loader.
type Loader interface {
	// Load reads benchmark definitions from the given paths and translates
	// them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
