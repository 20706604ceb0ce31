package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/config"
)

func (l *Loader) translateModel(block *modelBlock) (*config.ModelDef, error) {
	def := &config.ModelDef{
		Name:   block.Name,
		Engine: block.Engine,
		Mode:   block.Mode,
		Tune:   block.Tune,
		Params: map[string]cty.Value{},
	}

	if block.Params != nil {
		params, err := attrValues(block.Params.Remain)
		if err != nil {
			return nil, fmt.Errorf("params: %w", err)
		}
		def.Params = params
	}

	if block.Grid != nil {
		values, err := attrValues(block.Grid.Remain)
		if err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}
		def.Grid = make(map[string][]float64, len(values))
		for name, v := range values {
			candidates, err := floatList(v)
			if err != nil {
				return nil, fmt.Errorf("grid %q: %w", name, err)
			}
			def.Grid[name] = candidates
		}
	}

	return def, nil
}

func (l *Loader) translateSet(block *setBlock) (*config.SetDef, error) {
	def := &config.SetDef{
		Mode:    block.Mode,
		Options: map[string]map[string]cty.Value{},
	}
	for _, opts := range block.Options {
		if _, dup := def.Options[opts.ID]; dup {
			return nil, fmt.Errorf("duplicate options block for id %q", opts.ID)
		}
		values, err := attrValues(opts.Remain)
		if err != nil {
			return nil, fmt.Errorf("options %q: %w", opts.ID, err)
		}
		def.Options[opts.ID] = values
	}
	return def, nil
}

func (l *Loader) translateRun(block *runBlock) (*config.RunDef, error) {
	def := &config.RunDef{
		Data:      block.Data,
		Operation: block.Operation,
		Metrics:   block.Metrics,
		Folds:     block.Folds,
		Seed:      block.Seed,
		Workers:   block.Workers,
		Force:     block.Force,
		Export:    block.Export,
		Options:   map[string]cty.Value{},
	}
	if block.Options != nil {
		values, err := attrValues(block.Options.Remain)
		if err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		def.Options = values
	}
	return def, nil
}

// attrValues evaluates every attribute of a body as a literal value.
// Benchmark files are declarative data, so no evaluation context is offered.
func attrValues(body hcl.Body) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %w", name, diags)
		}
		values[name] = v
	}
	return values, nil
}

// floatList converts a cty list/tuple of numbers into a float slice.
func floatList(v cty.Value) ([]float64, error) {
	if !v.CanIterateElements() {
		return nil, fmt.Errorf("expected a list of numbers, got %s", v.Type().FriendlyName())
	}
	var out []float64
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.Number {
			return nil, fmt.Errorf("expected numbers, got %s", elem.Type().FriendlyName())
		}
		f, _ := elem.AsBigFloat().Float64()
		out = append(out, f)
	}
	return out, nil
}
