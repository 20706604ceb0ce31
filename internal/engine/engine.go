// Package engine hosts the model-fitting engines behind a registry, so model
// specs can name an algorithm without the orchestration core knowing how it
// fits. Registration follows the same name-to-handler shape as the tuning
// operation registry.
package engine

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ParamSpec declares one hyperparameter an engine understands, with the
// default candidate values used when a model spec tunes it without an
// explicit grid.
type ParamSpec struct {
	Name       string
	Default    float64
	Candidates []float64
}

// Model is a fitted model ready to predict.
type Model interface {
	Predict(x *mat.Dense) []float64
}

// Engine fits models from a design matrix and outcome vector. Params carries
// resolved hyperparameter values; missing keys fall back to the engine's
// declared defaults.
type Engine interface {
	Name() string
	Params() []ParamSpec
	Fit(ctx context.Context, x *mat.Dense, y []float64, params map[string]float64) (Model, error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Engine{}
)

// Register adds an engine to the registry. Registering a name twice is a
// programmer error.
func Register(e Engine) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[e.Name()]; exists {
		panic(fmt.Sprintf("engine %q already registered", e.Name()))
	}
	registry[e.Name()] = e
}

// Lookup resolves an engine by name.
func Lookup(name string) (Engine, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", name)
	}
	return e, nil
}

// paramOr returns the named parameter or the given default.
func paramOr(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

func init() {
	Register(&Linear{})
	Register(&Cart{})
	Register(&KNN{})
}
