// Package executor maps a tuning/evaluation operation over every entry of a
// workflow set. Each entry is one independent unit of work; failures are
// captured per entry so a bad combination never takes the batch down with it.
package executor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/ctxlog"
	"github.com/specialistvlad/tunegridgo/internal/registry"
	"github.com/specialistvlad/tunegridgo/internal/resample"
	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/scheduler"
	"github.com/specialistvlad/tunegridgo/internal/workset"
)

// Params configures one batch run.
type Params struct {
	// Operation names the registered tuning routine. Empty selects the
	// default grid search.
	Operation string
	// Options applies to every entry; per-entry options win on key conflict.
	Options map[string]cty.Value
	// Force re-runs entries that already hold an outcome. Without it they
	// are skipped with a warning.
	Force bool
	// Verbose emits per-entry progress lines.
	Verbose bool
}

// Executor drives batch runs through a registry and an execution strategy.
type Executor struct {
	registry *registry.Registry
	strategy scheduler.Strategy
}

// New creates an executor. A nil strategy means sequential execution.
func New(reg *registry.Registry, strategy scheduler.Strategy) *Executor {
	if strategy == nil {
		strategy = scheduler.Sequential{}
	}
	return &Executor{registry: reg, strategy: strategy}
}

// Run executes the selected operation once per entry, in table order, storing
// each outcome back into its entry. The plan is shared read-only; only this
// goroutine writes into the set.
func (e *Executor) Run(ctx context.Context, set *workset.Set, plan *resample.Plan, params Params) error {
	logger := ctxlog.FromContext(ctx)

	opName := params.Operation
	if opName == "" {
		opName = registry.DefaultOperation
	}
	op, err := e.registry.Lookup(opName)
	if err != nil {
		return err
	}

	// Decide up front which entries run, so progress counts are stable.
	var pending []*workset.Entry
	for _, entry := range set.Entries() {
		if entry.Outcome.HasRun() && !params.Force {
			logger.Warn("Workflow already has a result, skipping. Use force to re-run.", "id", entry.ID)
			continue
		}
		pending = append(pending, entry)
	}
	if len(pending) == 0 {
		logger.Info("No workflows to execute.")
		return nil
	}

	total := len(pending)
	units := make([]scheduler.Unit, total)
	for i, entry := range pending {
		units[i] = scheduler.Unit{
			Index: i,
			ID:    entry.ID,
			Run:   e.unit(entry, plan, op, params, i+1, total),
		}
	}

	logger.Info("🚀 Starting batch execution.", "operation", opName, "workflows", total)
	outcomes := e.strategy.Execute(ctx, units)

	// Workers returned outcomes; store them from the orchestrating goroutine
	// in entry order.
	for i, entry := range pending {
		if !outcomes[i].HasRun() {
			continue // interrupted before execution, leave unset
		}
		entry.Outcome = outcomes[i]
	}
	logger.Info("🏁 Batch execution finished.", "workflows", total)

	return ctx.Err()
}

// unit builds the closure for one entry. The closure merges options, invokes
// the operation, and converts any error or panic into a failure marker.
func (e *Executor) unit(entry *workset.Entry, plan *resample.Plan, op registry.Operation, params Params, k, total int) func(ctx context.Context) result.Outcome {
	return func(ctx context.Context) (outcome result.Outcome) {
		logger := ctxlog.FromContext(ctx).With("id", entry.ID)

		defer func() {
			if r := recover(); r != nil {
				logger.Warn("Workflow execution panicked.", "panic", r)
				logger.Debug("Panic stack trace.", "stack", string(debug.Stack()))
				outcome = result.Failure(fmt.Sprintf("panic: %v", r))
			}
		}()

		if params.Verbose {
			logger.Info(fmt.Sprintf("▶️ Executing workflow (%d of %d).", k, total))
		}
		start := time.Now()

		res, err := op(ctx, entry.Workflow, plan, mergeOptions(params.Options, entry.Options))
		elapsed := time.Since(start)

		if err != nil {
			logger.Warn("Workflow execution failed.", "error", err, "elapsed", elapsed)
			return result.Failure(err.Error())
		}

		if params.Verbose {
			logger.Info(fmt.Sprintf("✅ Finished workflow (%d of %d).", k, total), "elapsed", elapsed)
		}
		return result.Success(res)
	}
}

// mergeOptions layers entry options over base options; entry keys win.
func mergeOptions(base, entry map[string]cty.Value) map[string]cty.Value {
	merged := make(map[string]cty.Value, len(base)+len(entry))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range entry {
		merged[k] = v
	}
	return merged
}
