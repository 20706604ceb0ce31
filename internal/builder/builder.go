// Package builder constructs workflow sets from named preprocessors and model
// specs, either as a full cross product or as declaration-order pairs. It owns
// id derivation and all build-time validation.
package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/ctxlog"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
	"github.com/specialistvlad/tunegridgo/internal/workset"
)

// Mode selects how preprocessors and models are combined.
type Mode int

const (
	// Cross combines every preprocessor with every model.
	Cross Mode = iota
	// Pairwise pairs the i-th preprocessor with the i-th model and requires
	// equal counts.
	Pairwise
)

// ConfigurationError marks fatal build-time problems: bad names, duplicate
// ids, size mismatches. A build that raises one has not been partially
// applied.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// NamedPreprocessor is a preprocessor plus its user-supplied name.
type NamedPreprocessor struct {
	Name         string
	Preprocessor *workflow.Preprocessor
}

// NamedModel is a model spec plus its user-supplied name.
type NamedModel struct {
	Name string
	Spec *workflow.ModelSpec
}

// Composer is the hook through which the composition collaborator signals
// that a single pairing is structurally invalid. Returning a
// *workflow.IncompatibilityError excludes the pair and continues the build;
// any other error aborts it.
type Composer func(pre *workflow.Preprocessor, spec *workflow.ModelSpec) (*workflow.Workflow, error)

// SkippedPair records one combination excluded for incompatibility.
type SkippedPair struct {
	ID     string
	Reason string
}

// Request describes one workflow-set build. Preprocessors and Models are
// ordered slices because pairwise mode depends on declaration order.
type Request struct {
	Preprocessors []NamedPreprocessor
	Models        []NamedModel
	Mode          Mode
	// Options holds per-entry option overrides keyed by derived id.
	Options map[string]map[string]cty.Value
	// Compose overrides the default workflow composition hook.
	Compose Composer
}

// ID derives the workflow id for one preprocessor/model pairing.
func ID(preprocessor, model string) string {
	return preprocessor + "_" + model
}

// Build constructs the workflow set. Incompatible pairings are skipped with a
// warning and reported in the returned slice; every entry of the result has an
// unset outcome.
func Build(ctx context.Context, req Request) (*workset.Set, []SkippedPair, error) {
	logger := ctxlog.FromContext(ctx)

	if err := validateNames(req); err != nil {
		return nil, nil, err
	}

	pairs, err := combinations(req)
	if err != nil {
		return nil, nil, err
	}

	if err := checkIDCollisions(pairs); err != nil {
		return nil, nil, err
	}
	if err := checkOptionIDs(req.Options, pairs); err != nil {
		return nil, nil, err
	}

	compose := req.Compose
	if compose == nil {
		compose = workflow.Compose
	}

	set := workset.New()
	var skipped []SkippedPair
	for _, pair := range pairs {
		wf, err := compose(pair.pre.Preprocessor, pair.model.Spec)
		if err != nil {
			var incompat *workflow.IncompatibilityError
			if errors.As(err, &incompat) {
				logger.Warn("Skipping incompatible combination.", "id", pair.id, "reason", incompat.Reason)
				skipped = append(skipped, SkippedPair{ID: pair.id, Reason: incompat.Reason})
				continue
			}
			return nil, nil, fmt.Errorf("failed to compose workflow %q: %w", pair.id, err)
		}

		entry := &workset.Entry{
			ID:               pair.id,
			PreprocessorName: pair.pre.Name,
			ModelName:        pair.model.Name,
			Workflow:         wf,
			Options:          cloneOptions(req.Options[pair.id]),
		}
		if err := set.Add(entry); err != nil {
			return nil, nil, configErrorf("%s", err)
		}
	}

	logger.Debug("Workflow set built.", "entries", set.Len(), "skipped", len(skipped))
	return set, skipped, nil
}

type pairing struct {
	id    string
	pre   NamedPreprocessor
	model NamedModel
}

func combinations(req Request) ([]pairing, error) {
	switch req.Mode {
	case Cross:
		pairs := make([]pairing, 0, len(req.Preprocessors)*len(req.Models))
		for _, pre := range req.Preprocessors {
			for _, model := range req.Models {
				pairs = append(pairs, pairing{id: ID(pre.Name, model.Name), pre: pre, model: model})
			}
		}
		return pairs, nil
	case Pairwise:
		if len(req.Preprocessors) != len(req.Models) {
			return nil, configErrorf(
				"pairwise mode requires equal counts, got %d preprocessors and %d models",
				len(req.Preprocessors), len(req.Models))
		}
		pairs := make([]pairing, 0, len(req.Preprocessors))
		for i := range req.Preprocessors {
			pre, model := req.Preprocessors[i], req.Models[i]
			pairs = append(pairs, pairing{id: ID(pre.Name, model.Name), pre: pre, model: model})
		}
		return pairs, nil
	default:
		return nil, configErrorf("unknown combination mode %d", req.Mode)
	}
}

func validateNames(req Request) error {
	seen := make(map[string]struct{}, len(req.Preprocessors))
	for _, pre := range req.Preprocessors {
		if pre.Name == "" {
			return configErrorf("preprocessor names must not be empty")
		}
		if _, dup := seen[pre.Name]; dup {
			return configErrorf("duplicate preprocessor name %q", pre.Name)
		}
		seen[pre.Name] = struct{}{}
	}

	seen = make(map[string]struct{}, len(req.Models))
	for _, model := range req.Models {
		if model.Name == "" {
			return configErrorf("model names must not be empty")
		}
		if _, dup := seen[model.Name]; dup {
			return configErrorf("duplicate model name %q", model.Name)
		}
		seen[model.Name] = struct{}{}
	}
	return nil
}

// checkIDCollisions fails fast when distinct pairings derive the same id,
// e.g. preprocessor "a_b" with model "c" versus "a" with "b_c". Ids are never
// silently renamed.
func checkIDCollisions(pairs []pairing) error {
	seen := make(map[string]struct{}, len(pairs))
	var colliding []string
	for _, pair := range pairs {
		if _, dup := seen[pair.id]; dup {
			colliding = append(colliding, pair.id)
		}
		seen[pair.id] = struct{}{}
	}
	if len(colliding) > 0 {
		sort.Strings(colliding)
		return configErrorf("workflow id collisions: %s", strings.Join(colliding, ", "))
	}
	return nil
}

func checkOptionIDs(options map[string]map[string]cty.Value, pairs []pairing) error {
	if len(options) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		known[pair.id] = struct{}{}
	}
	var unknown []string
	for id := range options {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return configErrorf("options reference unknown workflow ids: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func cloneOptions(options map[string]cty.Value) map[string]cty.Value {
	out := make(map[string]cty.Value, len(options))
	for k, v := range options {
		out[k] = v
	}
	return out
}
