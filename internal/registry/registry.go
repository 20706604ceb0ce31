// Package registry maps operation names to the Go functions that tune or
// evaluate a single workflow. The batch executor dispatches through it, so a
// run can select its operation by name.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/resample"
	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

// DefaultOperation is the operation used when a run names none.
const DefaultOperation = "grid_search"

// Operation is the fixed call signature every tuning/evaluation routine
// implements: a borrowed workflow, a shared read-only resampling plan, and
// the merged options for this one entry. It returns a new owned result.
type Operation func(ctx context.Context, wf *workflow.Workflow, plan *resample.Plan, options map[string]cty.Value) (result.TuningResult, error)

// Module is the interface a package implements to contribute operations.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered operations for one application instance.
type Registry struct {
	operations map[string]Operation
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{operations: make(map[string]Operation)}
}

// Register adds an operation under a name. Registering a name twice is a
// programmer error.
func (r *Registry) Register(name string, op Operation) {
	if _, exists := r.operations[name]; exists {
		panic(fmt.Sprintf("operation %q already registered", name))
	}
	slog.Debug("Registering operation.", "name", name)
	r.operations[name] = op
}

// Lookup resolves an operation by name.
func (r *Registry) Lookup(name string) (Operation, error) {
	op, ok := r.operations[name]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q (registered: %v)", name, r.Names())
	}
	return op, nil
}

// Names returns the registered operation names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.operations))
	for name := range r.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
