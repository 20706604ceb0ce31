// Package rank flattens the heterogeneous per-entry tuning results of a
// workflow set into one ranking table and provides the selection semantics
// built on top of it.
package rank

import (
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/tunegridgo/internal/metric"
	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
	"github.com/specialistvlad/tunegridgo/internal/workset"
)

// ErrNoResults is returned when no entry holds a usable result for the
// requested metric. An explicit error beats an empty table silently read as
// "all models tied".
var ErrNoResults = errors.New("no results to rank")

// ErrNoResult distinguishes "present but never executed" from an unknown id.
var ErrNoResult = errors.New("no result computed")

// AggregationError marks failures of a single ranking/selection call. The
// workflow set is never mutated by one.
type AggregationError struct {
	Op  string
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// Row is one line of the ranking table: a (workflow, configuration, metric)
// triple with its resampled estimate and dense rank.
type Row struct {
	ID           string
	Preprocessor string
	Model        string
	Config       workflow.Config
	Metric       string
	Mean         float64
	StdErr       float64
	N            int
	Rank         int
}

// Rank extracts every usable (configuration, metric) estimate for metricName
// and assigns dense ranks, best first, honoring the metric's direction.
// Entries without a usable result are skipped, not errored. With selectBest,
// only each entry's best configuration is kept.
func Rank(set *workset.Set, metricName string, selectBest bool) ([]Row, error) {
	m, err := metric.Lookup(metricName)
	if err != nil {
		return nil, &AggregationError{Op: "rank", Err: err}
	}

	var rows []Row
	for _, entry := range set.Entries() {
		rows = append(rows, extractRows(entry, m.Name)...)
	}
	if len(rows) == 0 {
		return nil, &AggregationError{Op: "rank", Err: fmt.Errorf("%w for metric %q", ErrNoResults, metricName)}
	}

	if selectBest {
		rows = bestPerEntry(rows, m)
	}

	sortRows(rows, m)
	assignDenseRanks(rows)
	return rows, nil
}

// extractRows pulls the metric's summaries out of one entry, or nothing if
// the entry has no usable result.
func extractRows(entry *workset.Entry, metricName string) []Row {
	res, ok := entry.Outcome.Result()
	if !ok {
		return nil
	}
	var rows []Row
	for _, s := range res.Summaries() {
		if s.Metric != metricName {
			continue
		}
		rows = append(rows, Row{
			ID:           entry.ID,
			Preprocessor: entry.PreprocessorName,
			Model:        entry.ModelName,
			Config:       s.Config,
			Metric:       s.Metric,
			Mean:         s.Mean,
			StdErr:       s.StdErr,
			N:            s.N,
		})
	}
	return rows
}

// bestPerEntry keeps the single best-mean row per workflow id, preserving
// first-seen order of ids.
func bestPerEntry(rows []Row, m metric.Metric) []Row {
	bestIdx := make(map[string]int)
	var order []string
	for i, row := range rows {
		j, seen := bestIdx[row.ID]
		if !seen {
			bestIdx[row.ID] = i
			order = append(order, row.ID)
			continue
		}
		if better(row, rows[j], m) {
			bestIdx[row.ID] = i
		}
	}
	out := make([]Row, 0, len(order))
	for _, id := range order {
		out = append(out, rows[bestIdx[id]])
	}
	return out
}

// better reports whether a beats b under the metric's direction, with ties
// broken by standard error then config label.
func better(a, b Row, m metric.Metric) bool {
	if a.Mean != b.Mean {
		if m.Maximize {
			return a.Mean > b.Mean
		}
		return a.Mean < b.Mean
	}
	if a.StdErr != b.StdErr {
		return a.StdErr < b.StdErr
	}
	return a.Config.Label < b.Config.Label
}

// sortRows orders rows best-first: direction-aware mean, standard error
// ascending, then id and config label lexically to fix physical order.
func sortRows(rows []Row, m metric.Metric) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Mean != b.Mean {
			if m.Maximize {
				return a.Mean > b.Mean
			}
			return a.Mean < b.Mean
		}
		if a.StdErr != b.StdErr {
			return a.StdErr < b.StdErr
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Config.Label < b.Config.Label
	})
}

// assignDenseRanks gives rows equal on (mean, std error) the same rank, with
// no gaps after ties.
func assignDenseRanks(rows []Row) {
	rank := 0
	for i := range rows {
		if i == 0 || rows[i].Mean != rows[i-1].Mean || rows[i].StdErr != rows[i-1].StdErr {
			rank++
		}
		rows[i].Rank = rank
	}
}

// PullResult returns the stored tuning result for id. Unknown ids, never-run
// entries, and failed entries each produce distinct errors.
func PullResult(set *workset.Set, id string) (result.TuningResult, error) {
	entry, ok := set.Get(id)
	if !ok {
		return nil, &AggregationError{Op: "pull result", Err: fmt.Errorf("%w: %q", workset.ErrUnknownID, id)}
	}
	if !entry.Outcome.HasRun() {
		return nil, &AggregationError{Op: "pull result", Err: fmt.Errorf("%w for workflow %q", ErrNoResult, id)}
	}
	if entry.Outcome.Failed() {
		return nil, &AggregationError{Op: "pull result", Err: fmt.Errorf("workflow %q failed: %s", id, entry.Outcome.Message())}
	}
	res, _ := entry.Outcome.Result()
	return res, nil
}

// BestConfig returns the top-ranked hyperparameter configuration of a single
// entry under the given metric.
func BestConfig(set *workset.Set, id string, metricName string) (workflow.Config, error) {
	entry, ok := set.Get(id)
	if !ok {
		return workflow.Config{}, &AggregationError{Op: "best config", Err: fmt.Errorf("%w: %q", workset.ErrUnknownID, id)}
	}

	m, err := metric.Lookup(metricName)
	if err != nil {
		return workflow.Config{}, &AggregationError{Op: "best config", Err: err}
	}

	rows := extractRows(entry, m.Name)
	if len(rows) == 0 {
		return workflow.Config{}, &AggregationError{
			Op:  "best config",
			Err: fmt.Errorf("workflow %q has no usable result for metric %q", id, metricName),
		}
	}

	best := rows[0]
	for _, row := range rows[1:] {
		if better(row, best, m) {
			best = row
		}
	}
	return best.Config, nil
}
