package workflow

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/specialistvlad/tunegridgo/internal/dataset"
)

// Preprocessor declares how raw columns become a design matrix and outcome
// vector. It is a specification only; statistics needed for transforms are
// estimated per analysis set via Fit to avoid leaking assessment data.
type Preprocessor struct {
	Outcome    string
	Predictors []string
	// Log lists predictor columns transformed with the natural logarithm
	// before any normalization.
	Log       []string
	Normalize bool
}

// FittedPreprocessor holds a preprocessor plus the statistics estimated from
// one analysis set.
type FittedPreprocessor struct {
	spec   *Preprocessor
	means  []float64
	stddvs []float64
}

// Fit estimates transform statistics from the given (analysis) table.
func (p *Preprocessor) Fit(train *dataset.Table) (*FittedPreprocessor, error) {
	if err := p.check(train); err != nil {
		return nil, err
	}

	fp := &FittedPreprocessor{spec: p}
	if !p.Normalize {
		return fp, nil
	}

	fp.means = make([]float64, len(p.Predictors))
	fp.stddvs = make([]float64, len(p.Predictors))
	for i, name := range p.Predictors {
		col, err := p.predictorValues(train, name)
		if err != nil {
			return nil, err
		}
		var sum float64
		for _, v := range col {
			sum += v
		}
		mean := sum / float64(len(col))
		var ss float64
		for _, v := range col {
			ss += (v - mean) * (v - mean)
		}
		sd := math.Sqrt(ss / float64(len(col)))
		if sd == 0 {
			sd = 1 // constant column, leave values centered only
		}
		fp.means[i] = mean
		fp.stddvs[i] = sd
	}
	return fp, nil
}

// Transform applies the fitted transforms to a table, returning the design
// matrix and outcome vector.
func (fp *FittedPreprocessor) Transform(t *dataset.Table) (*mat.Dense, []float64, error) {
	p := fp.spec
	if err := p.check(t); err != nil {
		return nil, nil, err
	}

	n := t.NumRows()
	x := mat.NewDense(n, len(p.Predictors), nil)
	for j, name := range p.Predictors {
		col, err := p.predictorValues(t, name)
		if err != nil {
			return nil, nil, err
		}
		for i, v := range col {
			if p.Normalize {
				v = (v - fp.means[j]) / fp.stddvs[j]
			}
			x.Set(i, j, v)
		}
	}

	y, err := t.Column(p.Outcome)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// predictorValues reads one predictor column, applying the log step when the
// column is marked for it. Log requires strictly positive values.
func (p *Preprocessor) predictorValues(t *dataset.Table, name string) ([]float64, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(p.Log, name) {
		return col, nil
	}
	out := make([]float64, len(col))
	for i, v := range col {
		if v <= 0 {
			return nil, fmt.Errorf("cannot log-transform column %q: value %g at row %d is not positive", name, v, i)
		}
		out[i] = math.Log(v)
	}
	return out, nil
}

func (p *Preprocessor) check(t *dataset.Table) error {
	if len(p.Predictors) == 0 {
		return fmt.Errorf("preprocessor declares no predictors")
	}
	if !t.HasColumn(p.Outcome) {
		return fmt.Errorf("outcome column %q not present in dataset", p.Outcome)
	}
	for _, name := range p.Predictors {
		if !t.HasColumn(name) {
			return fmt.Errorf("predictor column %q not present in dataset", name)
		}
	}
	for _, name := range p.Log {
		if !slices.Contains(p.Predictors, name) {
			return fmt.Errorf("log-transform column %q is not a declared predictor", name)
		}
	}
	return nil
}
