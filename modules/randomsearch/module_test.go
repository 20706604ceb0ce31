package randomsearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/dataset"
	"github.com/specialistvlad/tunegridgo/internal/resample"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

func tunableSpec() *workflow.ModelSpec {
	return &workflow.ModelSpec{
		Engine: "knn",
		Params: map[string]cty.Value{},
		Tune:   []string{"neighbors"},
		Grid:   map[string][]float64{"neighbors": {1, 3, 5, 7}},
	}
}

func TestSampleConfigsDeterministicBySeed(t *testing.T) {
	a, err := sampleConfigs(tunableSpec(), 6, 42)
	require.NoError(t, err)
	b, err := sampleConfigs(tunableSpec(), 6, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSampleConfigsDedupes(t *testing.T) {
	// Far more iterations than distinct candidates forces duplicate draws.
	configs, err := sampleConfigs(tunableSpec(), 100, 1)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(configs), 4)
	seen := map[string]bool{}
	for _, cfg := range configs {
		v, _ := cfg.Values["neighbors"].AsBigFloat().Float64()
		key := cfg.Values["neighbors"].GoString()
		assert.False(t, seen[key], "neighbors=%g sampled twice", v)
		seen[key] = true
	}
}

func TestSampleConfigsNothingToTune(t *testing.T) {
	configs, err := sampleConfigs(&workflow.ModelSpec{Engine: "linear"}, 10, 1)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "config01", configs[0].Label)
}

func TestRunValidatesIterations(t *testing.T) {
	wf := &workflow.Workflow{
		Preprocessor: &workflow.Preprocessor{Outcome: "y", Predictors: []string{"x"}},
		Spec:         tunableSpec(),
	}
	options := map[string]cty.Value{"iterations": cty.NumberIntVal(0)}

	_, err := Run(context.Background(), wf, nil, options)
	assert.ErrorContains(t, err, "at least 1")
}

func TestRunSamplesAndScores(t *testing.T) {
	n := 24
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(i) + 1
	}
	tbl, err := dataset.New([]string{"y", "x"}, [][]float64{ys, xs})
	require.NoError(t, err)
	plan, err := resample.VFold(tbl, 3, 1)
	require.NoError(t, err)

	wf := &workflow.Workflow{
		Preprocessor: &workflow.Preprocessor{Outcome: "y", Predictors: []string{"x"}},
		Spec:         tunableSpec(),
	}
	options := map[string]cty.Value{
		"iterations": cty.NumberIntVal(3),
		"seed":       cty.NumberIntVal(7),
		"metrics":    cty.ListVal([]cty.Value{cty.StringVal("mae")}),
	}

	res, err := Run(context.Background(), wf, plan, options)
	require.NoError(t, err)

	summaries := res.Summaries()
	require.NotEmpty(t, summaries)
	assert.LessOrEqual(t, len(summaries), 3)
	for _, s := range summaries {
		assert.Equal(t, "mae", s.Metric)
		assert.Equal(t, 3, s.N)
	}
}
