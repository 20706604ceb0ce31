package workset

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

// ReplaceOption tweaks ReplaceWorkflow behavior.
type ReplaceOption func(*replaceOptions)

type replaceOptions struct {
	keepOutcome bool
}

// KeepOutcome preserves the entry's stored outcome across a workflow
// replacement. Without it the outcome is cleared, since a result computed for
// the old workflow is stale for the new one.
func KeepOutcome() ReplaceOption {
	return func(o *replaceOptions) { o.keepOutcome = true }
}

// PullWorkflow returns the composed workflow stored under id.
func (s *Set) PullWorkflow(id string) (*workflow.Workflow, error) {
	e, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	return e.Workflow, nil
}

// ReplaceWorkflow swaps the composed workflow stored under id. By default the
// entry's outcome is cleared.
func (s *Set) ReplaceWorkflow(id string, wf *workflow.Workflow, opts ...ReplaceOption) error {
	e, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	if wf == nil {
		return fmt.Errorf("replacement workflow for %q must not be nil", id)
	}

	var options replaceOptions
	for _, opt := range opts {
		opt(&options)
	}

	e.Workflow = wf
	if !options.keepOutcome {
		e.Outcome = result.NotRun()
	}
	return nil
}

// UpdateOptions merges the given values into the entry's options. Existing
// keys are overwritten, absent keys are preserved.
func (s *Set) UpdateOptions(id string, options map[string]cty.Value) error {
	e, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	for k, v := range options {
		e.Options[k] = v
	}
	return nil
}

// Finalize binds cfg into the entry's workflow and returns the resulting
// fully-specified workflow. The stored entry is not modified; callers decide
// whether to ReplaceWorkflow with the finalized one.
func (s *Set) Finalize(id string, cfg workflow.Config) (*workflow.Workflow, error) {
	e, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	finalized, err := e.Workflow.Finalize(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize workflow %q: %w", id, err)
	}
	return finalized, nil
}
