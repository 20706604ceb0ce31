package engine

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// KNN is a brute-force k-nearest-neighbour regression engine. Distances are
// Euclidean in whatever space the preprocessor produced, so pairing it with a
// normalizing preprocessor usually matters.
type KNN struct{}

// Name implements Engine.
func (*KNN) Name() string { return "knn" }

// Params implements Engine.
func (*KNN) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "neighbors", Default: 5, Candidates: []float64{1, 3, 5, 7, 11}},
	}
}

// Fit implements Engine. KNN is a lazy learner, so fitting only captures the
// training data.
func (e *KNN) Fit(ctx context.Context, x *mat.Dense, y []float64, params map[string]float64) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := int(paramOr(params, "neighbors", 5))
	if k < 1 {
		return nil, fmt.Errorf("neighbors must be at least 1, got %d", k)
	}
	n, _ := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows for %d outcomes", n, len(y))
	}
	if k > n {
		return nil, fmt.Errorf("neighbors %d exceeds training rows %d", k, n)
	}

	train := mat.DenseCopyOf(x)
	return &knnModel{x: train, y: append([]float64(nil), y...), k: k}, nil
}

type knnModel struct {
	x *mat.Dense
	y []float64
	k int
}

func (m *knnModel) Predict(x *mat.Dense) []float64 {
	n, p := x.Dims()
	trainN, _ := m.x.Dims()
	preds := make([]float64, n)

	dists := make([]struct {
		d   float64
		row int
	}, trainN)

	for i := 0; i < n; i++ {
		for t := 0; t < trainN; t++ {
			var d float64
			for j := 0; j < p; j++ {
				diff := x.At(i, j) - m.x.At(t, j)
				d += diff * diff
			}
			dists[t].d = d
			dists[t].row = t
		}
		sort.Slice(dists, func(a, b int) bool { return dists[a].d < dists[b].d })

		var sum float64
		for t := 0; t < m.k; t++ {
			sum += m.y[dists[t].row]
		}
		preds[i] = sum / float64(m.k)
	}
	return preds
}
