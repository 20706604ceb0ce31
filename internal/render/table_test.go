package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tunegridgo/internal/rank"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

func TestRankingTable(t *testing.T) {
	rows := []rank.Row{
		{ID: "norm_ridge", Preprocessor: "norm", Model: "ridge", Config: workflow.Config{Label: "config02"}, Metric: "rmse", Mean: 1.2345, StdErr: 0.05, N: 5, Rank: 1},
		{ID: "raw_tree", Preprocessor: "raw", Model: "tree", Config: workflow.Config{Label: "config01"}, Metric: "rmse", Mean: 2.5, StdErr: 0.2, N: 5, Rank: 2},
	}

	out := RankingTable(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, "header plus one line per row")

	assert.Contains(t, lines[0], "rank")
	assert.Contains(t, lines[0], "std_err")
	assert.Contains(t, lines[1], "norm_ridge")
	assert.Contains(t, lines[1], "config02")
	assert.Contains(t, lines[1], "1.2345")
	assert.Contains(t, lines[2], "raw_tree")
	assert.Contains(t, lines[2], "2.5000")
}

func TestRankingTableEmpty(t *testing.T) {
	out := RankingTable(nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 1, "an empty ranking still prints the header")
}
