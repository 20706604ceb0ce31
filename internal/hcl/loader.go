// Package hcl is the HCL implementation of the benchmark loader: it parses
// .hcl benchmark files and translates them into the format-agnostic config
// model.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/tunegridgo/internal/config"
	"github.com/specialistvlad/tunegridgo/internal/ctxlog"
	"github.com/specialistvlad/tunegridgo/internal/fsutil"
)

// Loader is the HCL-specific implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL benchmark loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes all possible top-level blocks from any benchmark file.
type fileRoot struct {
	Preprocessors []*preprocessorBlock `hcl:"preprocessor,block"`
	Models        []*modelBlock        `hcl:"model,block"`
	Sets          []*setBlock          `hcl:"workflow_set,block"`
	Runs          []*runBlock          `hcl:"run,block"`
}

type preprocessorBlock struct {
	Name       string   `hcl:"name,label"`
	Outcome    string   `hcl:"outcome"`
	Predictors []string `hcl:"predictors"`
	Log        []string `hcl:"log,optional"`
	Normalize  bool     `hcl:"normalize,optional"`
}

type modelBlock struct {
	Name   string       `hcl:"name,label"`
	Engine string       `hcl:"engine"`
	Mode   string       `hcl:"mode,optional"`
	Tune   []string     `hcl:"tune,optional"`
	Params *attrsBlock  `hcl:"params,block"`
	Grid   *attrsBlock  `hcl:"grid,block"`
}

type setBlock struct {
	Mode    string          `hcl:"mode,optional"`
	Options []*optionsBlock `hcl:"options,block"`
}

type optionsBlock struct {
	ID     string   `hcl:"id,label"`
	Remain hcl.Body `hcl:",remain"`
}

type runBlock struct {
	Data      string      `hcl:"data"`
	Operation string      `hcl:"operation,optional"`
	Metrics   []string    `hcl:"metrics,optional"`
	Folds     int         `hcl:"folds,optional"`
	Seed      int64       `hcl:"seed,optional"`
	Workers   int         `hcl:"workers,optional"`
	Force     bool        `hcl:"force,optional"`
	Export    string      `hcl:"export,optional"`
	Options   *attrsBlock `hcl:"options,block"`
}

// attrsBlock captures a block body whose attributes become generic values.
type attrsBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

// Load parses every .hcl file reachable from the given paths and merges the
// discovered blocks into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find benchmark files in %s: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl benchmark files found in %v", paths)
	}
	logger.Debug("Discovered benchmark files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse benchmark file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode benchmark file %s: %w", file, diags)
		}

		if err := l.merge(model, &root, file); err != nil {
			return nil, err
		}
	}

	logger.Debug("Benchmark model loaded.",
		"preprocessors", len(model.Preprocessors), "models", len(model.Models))
	return model, nil
}

func (l *Loader) merge(model *config.Model, root *fileRoot, file string) error {
	for _, block := range root.Preprocessors {
		model.Preprocessors = append(model.Preprocessors, &config.PreprocessorDef{
			Name:       block.Name,
			Outcome:    block.Outcome,
			Predictors: block.Predictors,
			Log:        block.Log,
			Normalize:  block.Normalize,
		})
	}

	for _, block := range root.Models {
		def, err := l.translateModel(block)
		if err != nil {
			return fmt.Errorf("model %q in %s: %w", block.Name, file, err)
		}
		model.Models = append(model.Models, def)
	}

	for _, block := range root.Sets {
		if model.Set != nil {
			return fmt.Errorf("duplicate workflow_set block in %s", file)
		}
		def, err := l.translateSet(block)
		if err != nil {
			return fmt.Errorf("workflow_set in %s: %w", file, err)
		}
		model.Set = def
	}

	for _, block := range root.Runs {
		if model.Run != nil {
			return fmt.Errorf("duplicate run block in %s", file)
		}
		def, err := l.translateRun(block)
		if err != nil {
			return fmt.Errorf("run in %s: %w", file, err)
		}
		model.Run = def
	}

	return nil
}
