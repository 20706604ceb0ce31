package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tunegridgo/internal/builder"
	"github.com/specialistvlad/tunegridgo/internal/config"
	"github.com/specialistvlad/tunegridgo/internal/registry"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
	"github.com/specialistvlad/tunegridgo/modules/gridsearch"
)

func benchModel() *config.Model {
	return &config.Model{
		Preprocessors: []*config.PreprocessorDef{
			{Name: "raw", Outcome: "y", Predictors: []string{"x"}},
		},
		Models: []*config.ModelDef{
			{Name: "lm", Engine: "linear"},
		},
		Run: &config.RunDef{Data: "data.csv"},
	}
}

func TestBuildRequestDefaultsModeToRegression(t *testing.T) {
	req, err := buildRequest(benchModel())
	require.NoError(t, err)

	require.Len(t, req.Preprocessors, 1)
	require.Len(t, req.Models, 1)
	assert.Equal(t, workflow.ModeRegression, req.Models[0].Spec.Mode)
	assert.Equal(t, builder.Cross, req.Mode)
}

func TestBuildRequestSetModes(t *testing.T) {
	model := benchModel()
	model.Set = &config.SetDef{Mode: "pairwise"}

	req, err := buildRequest(model)
	require.NoError(t, err)
	assert.Equal(t, builder.Pairwise, req.Mode)

	model.Set.Mode = "zigzag"
	_, err = buildRequest(model)
	assert.ErrorContains(t, err, `unknown workflow_set mode "zigzag"`)
}

func TestValidateModel(t *testing.T) {
	reg := registry.New()
	(&gridsearch.Module{}).Register(reg)

	require.NoError(t, validateModel(benchModel(), reg))

	model := benchModel()
	model.Run = nil
	assert.ErrorContains(t, validateModel(model, reg), "no run block")

	model = benchModel()
	model.Preprocessors = nil
	assert.ErrorContains(t, validateModel(model, reg), "no preprocessors")

	model = benchModel()
	model.Models = nil
	assert.ErrorContains(t, validateModel(model, reg), "no models")

	model = benchModel()
	model.Run.Operation = "bayes_opt"
	assert.ErrorContains(t, validateModel(model, reg), `unknown operation "bayes_opt"`)

	model = benchModel()
	model.Run.Metrics = []string{"lift"}
	assert.ErrorContains(t, validateModel(model, reg), `unknown metric "lift"`)

	model = benchModel()
	model.Models[0].Engine = "xgboost"
	assert.ErrorContains(t, validateModel(model, reg), `model "lm"`)
}
