// Package resample produces resampling plans: ordered collections of
// analysis/assessment row splits over a dataset. A Plan is immutable once
// built and is shared read-only across every workflow in a batch.
package resample

import (
	"fmt"
	"math/rand"

	"github.com/specialistvlad/tunegridgo/internal/dataset"
)

// Split is one train/assessment pairing of row indexes.
type Split struct {
	Analysis   []int
	Assessment []int
}

// Plan holds the dataset and the ordered splits derived from it.
type Plan struct {
	data   *dataset.Table
	splits []Split
}

// Data returns the underlying dataset.
func (p *Plan) Data() *dataset.Table { return p.data }

// Splits returns the ordered splits.
func (p *Plan) Splits() []Split { return p.splits }

// Len returns the number of splits.
func (p *Plan) Len() int { return len(p.splits) }

// VFold builds a v-fold cross-validation plan over the table. Rows are
// shuffled with the given seed so plans are reproducible.
func VFold(data *dataset.Table, v int, seed int64) (*Plan, error) {
	n := data.NumRows()
	if v < 2 {
		return nil, fmt.Errorf("v-fold requires at least 2 folds, got %d", v)
	}
	if n < v {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, v)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	folds := make([][]int, v)
	for i, row := range perm {
		folds[i%v] = append(folds[i%v], row)
	}

	splits := make([]Split, v)
	for i := range folds {
		assessment := folds[i]
		analysis := make([]int, 0, n-len(assessment))
		for j, fold := range folds {
			if j != i {
				analysis = append(analysis, fold...)
			}
		}
		splits[i] = Split{Analysis: analysis, Assessment: assessment}
	}

	return &Plan{data: data, splits: splits}, nil
}
