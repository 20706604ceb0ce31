package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeBench(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFullBenchmark(t *testing.T) {
	dir := t.TempDir()
	writeBench(t, dir, "bench.hcl", `
preprocessor "raw" {
  outcome    = "mpg"
  predictors = ["disp", "wt"]
}

preprocessor "norm" {
  outcome    = "mpg"
  predictors = ["disp", "wt"]
  log        = ["disp"]
  normalize  = true
}

model "ridge" {
  engine = "linear"
  mode   = "regression"
  tune   = ["penalty"]

  grid {
    penalty = [0.01, 0.1, 1]
  }
}

model "tree" {
  engine = "cart"

  params {
    min_n = 10
  }
}

workflow_set {
  mode = "cross"

  options "raw_ridge" {
    iterations = 5
  }
}

run {
  data      = "cars.csv"
  operation = "grid_search"
  metrics   = ["rmse", "rsq"]
  folds     = 5
  seed      = 42
  workers   = 2

  options {
    seed = 7
  }
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, model.Preprocessors, 2)
	assert.Equal(t, "raw", model.Preprocessors[0].Name)
	assert.False(t, model.Preprocessors[0].Normalize)
	assert.True(t, model.Preprocessors[1].Normalize)
	assert.Equal(t, []string{"disp"}, model.Preprocessors[1].Log)
	assert.Equal(t, []string{"disp", "wt"}, model.Preprocessors[0].Predictors)

	require.Len(t, model.Models, 2)
	ridge := model.Models[0]
	assert.Equal(t, "linear", ridge.Engine)
	assert.Equal(t, []string{"penalty"}, ridge.Tune)
	assert.Equal(t, []float64{0.01, 0.1, 1}, ridge.Grid["penalty"])

	tree := model.Models[1]
	assert.True(t, tree.Params["min_n"].RawEquals(cty.NumberIntVal(10)))
	assert.Empty(t, tree.Tune)

	require.NotNil(t, model.Set)
	assert.Equal(t, "cross", model.Set.Mode)
	assert.True(t, model.Set.Options["raw_ridge"]["iterations"].RawEquals(cty.NumberIntVal(5)))

	require.NotNil(t, model.Run)
	assert.Equal(t, "cars.csv", model.Run.Data)
	assert.Equal(t, "grid_search", model.Run.Operation)
	assert.Equal(t, []string{"rmse", "rsq"}, model.Run.Metrics)
	assert.Equal(t, 5, model.Run.Folds)
	assert.Equal(t, int64(42), model.Run.Seed)
	assert.Equal(t, 2, model.Run.Workers)
	assert.True(t, model.Run.Options["seed"].RawEquals(cty.NumberIntVal(7)))
}

func TestLoadMergesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeBench(t, dir, "pre.hcl", `
preprocessor "raw" {
  outcome    = "y"
  predictors = ["x"]
}
`)
	writeBench(t, dir, "run.hcl", `
model "lm" {
  engine = "linear"
}

run {
  data = "data.csv"
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, model.Preprocessors, 1)
	assert.Len(t, model.Models, 1)
	require.NotNil(t, model.Run)
}

func TestLoadRejectsDuplicateRunBlocks(t *testing.T) {
	dir := t.TempDir()
	writeBench(t, dir, "a.hcl", `
run {
  data = "a.csv"
}
`)
	writeBench(t, dir, "b.hcl", `
run {
  data = "b.csv"
}
`)

	_, err := NewLoader().Load(context.Background(), dir)
	assert.ErrorContains(t, err, "duplicate run block")
}

func TestLoadRejectsBadGrid(t *testing.T) {
	dir := t.TempDir()
	writeBench(t, dir, "bench.hcl", `
model "lm" {
  engine = "linear"
  tune   = ["penalty"]

  grid {
    penalty = ["small", "big"]
  }
}
`)

	_, err := NewLoader().Load(context.Background(), dir)
	assert.ErrorContains(t, err, `model "lm"`)
	assert.ErrorContains(t, err, "expected numbers")
}

func TestLoadNoFiles(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no .hcl benchmark files")
}

func TestLoadParseError(t *testing.T) {
	dir := t.TempDir()
	writeBench(t, dir, "broken.hcl", `model "lm" {`)

	_, err := NewLoader().Load(context.Background(), dir)
	assert.ErrorContains(t, err, "failed to parse")
}
