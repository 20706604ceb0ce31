// Package result models per-workflow execution outcomes as a tagged variant:
// a workflow has either never run, run successfully, or failed. Storing the
// variant instead of a bare value keeps a heterogeneous batch inspectable
// without type sniffing.
package result

import (
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

// Summary is one (hyperparameter configuration, metric) estimate extracted
// from a tuning result: the mean across resamples, its standard error, and
// the number of resamples that produced it.
type Summary struct {
	Config workflow.Config
	Metric string
	Mean   float64
	StdErr float64
	N      int
}

// TuningResult is the contract a tuning/evaluation operation's output must
// satisfy: an enumerable list of per-configuration metric summaries. The
// concrete shape behind it is the operation's business.
type TuningResult interface {
	Summaries() []Summary
}

// Table is the plain TuningResult used by the built-in operations.
type Table struct {
	rows []Summary
}

// Of wraps summaries into a TuningResult.
func Of(rows []Summary) *Table {
	return &Table{rows: rows}
}

// Summaries implements TuningResult.
func (t *Table) Summaries() []Summary {
	return t.rows
}

type kind int

const (
	kindNotRun kind = iota
	kindSuccess
	kindFailure
)

// Outcome is the tagged variant stored per workflow entry.
type Outcome struct {
	kind    kind
	result  TuningResult
	message string
}

// NotRun is the zero outcome: the workflow has not been executed.
func NotRun() Outcome { return Outcome{} }

// Success wraps a real tuning result.
func Success(r TuningResult) Outcome {
	return Outcome{kind: kindSuccess, result: r}
}

// Failure records the error message of a failed execution.
func Failure(message string) Outcome {
	return Outcome{kind: kindFailure, message: message}
}

// HasRun reports whether the workflow was executed at all, successfully or not.
func (o Outcome) HasRun() bool { return o.kind != kindNotRun }

// Failed reports whether the outcome is a failure marker.
func (o Outcome) Failed() bool { return o.kind == kindFailure }

// Result returns the tuning result of a successful outcome.
func (o Outcome) Result() (TuningResult, bool) {
	if o.kind != kindSuccess {
		return nil, false
	}
	return o.result, true
}

// Message returns the failure message of a failed outcome, or "".
func (o Outcome) Message() string { return o.message }
