package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
	"github.com/specialistvlad/tunegridgo/internal/workset"
)

func entry(t *testing.T, s *workset.Set, id, preName, modelName string, outcome result.Outcome) {
	t.Helper()
	require.NoError(t, s.Add(&workset.Entry{
		ID:               id,
		PreprocessorName: preName,
		ModelName:        modelName,
		Workflow: &workflow.Workflow{
			Preprocessor: &workflow.Preprocessor{Outcome: "y", Predictors: []string{"x"}},
			Spec:         &workflow.ModelSpec{Engine: "linear"},
		},
		Outcome: outcome,
	}))
}

func summary(label, metric string, mean, stderr float64) result.Summary {
	return result.Summary{
		Config: workflow.Config{Label: label, Values: map[string]cty.Value{}},
		Metric: metric,
		Mean:   mean,
		StdErr: stderr,
		N:      5,
	}
}

func TestRankHigherBetter(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_a", "p", "a", result.Success(result.Of([]result.Summary{summary("config01", "rsq", 0.9, 0.01)})))
	entry(t, s, "p_b", "p", "b", result.Success(result.Of([]result.Summary{summary("config01", "rsq", 0.7, 0.01)})))
	entry(t, s, "p_c", "p", "c", result.Success(result.Of([]result.Summary{summary("config01", "rsq", 0.8, 0.01)})))

	rows, err := Rank(s, "rsq", false)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "p_a", rows[0].ID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "p_c", rows[1].ID)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "p_b", rows[2].ID)
	assert.Equal(t, 3, rows[2].Rank)
}

func TestRankLowerBetter(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_a", "p", "a", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 2.5, 0.1)})))
	entry(t, s, "p_b", "p", "b", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 1.5, 0.1)})))

	rows, err := Rank(s, "rmse", false)
	require.NoError(t, err)
	assert.Equal(t, "p_b", rows[0].ID, "rmse is minimized, smaller mean wins")
	assert.Equal(t, 1, rows[0].Rank)
}

func TestRankSkipsUnusableEntries(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_ok", "p", "ok", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 1.0, 0.1)})))
	entry(t, s, "p_failed", "p", "failed", result.Failure("fit blew up"))
	entry(t, s, "p_notrun", "p", "notrun", result.NotRun())
	entry(t, s, "p_othermetric", "p", "other", result.Success(result.Of([]result.Summary{summary("config01", "mae", 1.0, 0.1)})))

	rows, err := Rank(s, "rmse", false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "p_ok", rows[0].ID)
}

func TestRankNoUsableResults(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_failed", "p", "failed", result.Failure("boom"))

	_, err := Rank(s, "rmse", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResults)
	var aggErr *AggregationError
	assert.ErrorAs(t, err, &aggErr)
}

func TestRankUnknownMetric(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_a", "p", "a", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 1.0, 0.1)})))

	_, err := Rank(s, "lift", false)
	assert.ErrorContains(t, err, `unknown metric "lift"`)
}

func TestRankSelectBest(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_a", "p", "a", result.Success(result.Of([]result.Summary{
		summary("config01", "rmse", 2.0, 0.1),
		summary("config02", "rmse", 1.2, 0.1),
		summary("config03", "rmse", 1.6, 0.1),
	})))
	entry(t, s, "p_b", "p", "b", result.Success(result.Of([]result.Summary{
		summary("config01", "rmse", 1.4, 0.1),
		summary("config02", "rmse", 1.8, 0.1),
	})))

	rows, err := Rank(s, "rmse", true)
	require.NoError(t, err)
	require.Len(t, rows, 2, "select best keeps exactly one row per entry")

	assert.Equal(t, "p_a", rows[0].ID)
	assert.Equal(t, "config02", rows[0].Config.Label)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "p_b", rows[1].ID)
	assert.Equal(t, "config01", rows[1].Config.Label)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestRankDenseTies(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_a", "p", "a", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 1.0, 0.1)})))
	entry(t, s, "p_b", "p", "b", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 1.0, 0.1)})))
	entry(t, s, "p_c", "p", "c", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 2.0, 0.1)})))

	rows, err := Rank(s, "rmse", false)
	require.NoError(t, err)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 1, rows[1].Rank, "equal (mean, std err) shares a rank")
	assert.Equal(t, 2, rows[2].Rank, "dense ranking leaves no gap after ties")
	assert.Equal(t, "p_a", rows[0].ID, "ties order by id lexically")
	assert.Equal(t, "p_b", rows[1].ID)
}

func TestRankStdErrTieBreak(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_a", "p", "a", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 1.0, 0.3)})))
	entry(t, s, "p_b", "p", "b", result.Success(result.Of([]result.Summary{summary("config01", "rmse", 1.0, 0.1)})))

	rows, err := Rank(s, "rmse", false)
	require.NoError(t, err)
	assert.Equal(t, "p_b", rows[0].ID, "lower std error wins the tie")
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestPullResult(t *testing.T) {
	s := workset.New()
	res := result.Of([]result.Summary{summary("config01", "rmse", 1.0, 0.1)})
	entry(t, s, "p_done", "p", "done", result.Success(res))
	entry(t, s, "p_pending", "p", "pending", result.NotRun())
	entry(t, s, "p_failed", "p", "failed", result.Failure("singular matrix"))

	got, err := PullResult(s, "p_done")
	require.NoError(t, err)
	assert.Equal(t, res, got)

	_, err = PullResult(s, "missing_id")
	assert.ErrorIs(t, err, workset.ErrUnknownID)
	assert.NotErrorIs(t, err, ErrNoResult)

	_, err = PullResult(s, "p_pending")
	assert.ErrorIs(t, err, ErrNoResult)
	assert.NotErrorIs(t, err, workset.ErrUnknownID)

	_, err = PullResult(s, "p_failed")
	assert.ErrorContains(t, err, "singular matrix")
}

func TestBestConfig(t *testing.T) {
	s := workset.New()
	entry(t, s, "p_a", "p", "a", result.Success(result.Of([]result.Summary{
		summary("config01", "rmse", 2.0, 0.1),
		summary("config02", "rmse", 1.2, 0.1),
	})))
	entry(t, s, "p_failed", "p", "failed", result.Failure("boom"))

	cfg, err := BestConfig(s, "p_a", "rmse")
	require.NoError(t, err)
	assert.Equal(t, "config02", cfg.Label)

	_, err = BestConfig(s, "p_failed", "rmse")
	assert.ErrorContains(t, err, "no usable result")

	_, err = BestConfig(s, "missing", "rmse")
	assert.ErrorIs(t, err, workset.ErrUnknownID)
}
