package workset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

func testWorkflow() *workflow.Workflow {
	return &workflow.Workflow{
		Preprocessor: &workflow.Preprocessor{Outcome: "y", Predictors: []string{"x"}},
		Spec:         &workflow.ModelSpec{Engine: "linear", Mode: workflow.ModeRegression},
	}
}

func TestAdd(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(&Entry{ID: "a_m", Workflow: testWorkflow()}))
	assert.Equal(t, 1, s.Len())

	e, ok := s.Get("a_m")
	require.True(t, ok)
	assert.NotNil(t, e.Options, "options must never be nil")
	assert.False(t, e.Outcome.HasRun())

	err := s.Add(&Entry{ID: "a_m", Workflow: testWorkflow()})
	assert.ErrorContains(t, err, "duplicate workflow id")

	err = s.Add(&Entry{ID: "", Workflow: testWorkflow()})
	assert.ErrorContains(t, err, "must not be empty")
}

func TestRemove(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(&Entry{ID: "a", Workflow: testWorkflow()}))
	require.NoError(t, s.Add(&Entry{ID: "b", Workflow: testWorkflow()}))
	require.NoError(t, s.Add(&Entry{ID: "c", Workflow: testWorkflow()}))

	require.NoError(t, s.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, s.IDs())

	// Index must stay consistent after removal.
	e, ok := s.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", e.ID)

	assert.ErrorIs(t, s.Remove("b"), ErrUnknownID)
}

func TestOrdering(t *testing.T) {
	s := New()
	for _, id := range []string{"z_m", "a_m", "k_m"} {
		require.NoError(t, s.Add(&Entry{ID: id, Workflow: testWorkflow()}))
	}

	assert.Equal(t, []string{"z_m", "a_m", "k_m"}, s.IDs(), "physical order is insertion order")
	assert.Equal(t, []string{"a_m", "k_m", "z_m"}, s.SortedIDs(), "display order is id order")
}

func TestPullWorkflow(t *testing.T) {
	s := New()
	wf := testWorkflow()
	require.NoError(t, s.Add(&Entry{ID: "a_m", Workflow: wf}))

	got, err := s.PullWorkflow("a_m")
	require.NoError(t, err)
	assert.Same(t, wf, got)

	_, err = s.PullWorkflow("missing")
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestReplaceWorkflowClearsOutcome(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(&Entry{ID: "a_m", Workflow: testWorkflow()}))
	e, _ := s.Get("a_m")
	e.Outcome = result.Success(result.Of(nil))

	require.NoError(t, s.ReplaceWorkflow("a_m", testWorkflow()))
	assert.False(t, e.Outcome.HasRun(), "replacement must clear the stale result")
}

func TestReplaceWorkflowKeepOutcome(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(&Entry{ID: "a_m", Workflow: testWorkflow()}))
	e, _ := s.Get("a_m")
	e.Outcome = result.Success(result.Of(nil))

	require.NoError(t, s.ReplaceWorkflow("a_m", testWorkflow(), KeepOutcome()))
	assert.True(t, e.Outcome.HasRun())

	err := s.ReplaceWorkflow("a_m", nil)
	assert.ErrorContains(t, err, "must not be nil")
}

func TestUpdateOptionsMerges(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(&Entry{
		ID:       "a_m",
		Workflow: testWorkflow(),
		Options:  map[string]cty.Value{"iterations": cty.NumberIntVal(5), "seed": cty.NumberIntVal(1)},
	}))

	require.NoError(t, s.UpdateOptions("a_m", map[string]cty.Value{
		"seed":    cty.NumberIntVal(7),
		"verbose": cty.True,
	}))

	e, _ := s.Get("a_m")
	assert.Equal(t, cty.NumberIntVal(5), e.Options["iterations"], "untouched keys survive")
	assert.Equal(t, cty.NumberIntVal(7), e.Options["seed"], "new keys overwrite")
	assert.Equal(t, cty.True, e.Options["verbose"])

	assert.ErrorIs(t, s.UpdateOptions("missing", nil), ErrUnknownID)
}

func TestFinalize(t *testing.T) {
	s := New()
	wf := testWorkflow()
	wf.Spec.Tune = []string{"penalty"}
	wf.Spec.Params = map[string]cty.Value{}
	require.NoError(t, s.Add(&Entry{ID: "a_m", Workflow: wf}))

	finalized, err := s.Finalize("a_m", workflow.Config{
		Label:  "config01",
		Values: map[string]cty.Value{"penalty": cty.NumberFloatVal(0.1)},
	})
	require.NoError(t, err)
	assert.False(t, finalized.Spec.IsTunable())
	assert.Equal(t, cty.NumberFloatVal(0.1), finalized.Spec.Params["penalty"])

	// The stored entry is untouched until the caller replaces it.
	stored, _ := s.PullWorkflow("a_m")
	assert.True(t, stored.Spec.IsTunable())

	_, err = s.Finalize("a_m", workflow.Config{Label: "empty", Values: map[string]cty.Value{}})
	assert.ErrorIs(t, err, workflow.ErrUnresolvedTuning)
}
