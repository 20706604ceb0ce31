package engine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Cart is a recursive-partitioning regression tree engine. Splits minimize
// the summed squared error of the two children; "min_n" is the minimum rows
// per leaf and "max_depth" bounds recursion.
type Cart struct{}

// Name implements Engine.
func (*Cart) Name() string { return "cart" }

// Params implements Engine.
func (*Cart) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "min_n", Default: 5, Candidates: []float64{2, 5, 10, 20}},
		{Name: "max_depth", Default: 10, Candidates: []float64{2, 4, 8, 16}},
	}
}

// Fit implements Engine.
func (e *Cart) Fit(ctx context.Context, x *mat.Dense, y []float64, params map[string]float64) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	minN := int(paramOr(params, "min_n", 5))
	maxDepth := int(paramOr(params, "max_depth", 10))
	if minN < 1 {
		return nil, fmt.Errorf("min_n must be at least 1, got %d", minN)
	}
	if maxDepth < 1 {
		return nil, fmt.Errorf("max_depth must be at least 1, got %d", maxDepth)
	}

	n, _ := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows for %d outcomes", n, len(y))
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	root := grow(x, y, rows, minN, maxDepth)
	return &cartModel{root: root}, nil
}

type cartNode struct {
	feature     int
	threshold   float64
	value       float64 // leaf prediction
	left, right *cartNode
}

func (nd *cartNode) leaf() bool { return nd.left == nil }

func grow(x *mat.Dense, y []float64, rows []int, minN, depth int) *cartNode {
	node := &cartNode{value: meanAt(y, rows)}
	if depth == 0 || len(rows) < 2*minN {
		return node
	}

	feature, threshold, ok := bestSplit(x, y, rows, minN)
	if !ok {
		return node
	}

	var left, right []int
	for _, r := range rows {
		if x.At(r, feature) <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	node.feature = feature
	node.threshold = threshold
	node.left = grow(x, y, left, minN, depth-1)
	node.right = grow(x, y, right, minN, depth-1)
	return node
}

// bestSplit scans every feature for the threshold minimizing child SSE.
func bestSplit(x *mat.Dense, y []float64, rows []int, minN int) (int, float64, bool) {
	_, p := x.Dims()
	bestSSE := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	order := make([]int, len(rows))
	for feature := 0; feature < p; feature++ {
		copy(order, rows)
		sort.Slice(order, func(i, j int) bool {
			return x.At(order[i], feature) < x.At(order[j], feature)
		})

		// Running sums let each candidate threshold be scored in O(1).
		var sumL, sqL float64
		var sumR, sqR float64
		for _, r := range order {
			sumR += y[r]
			sqR += y[r] * y[r]
		}

		for i := 0; i < len(order)-1; i++ {
			r := order[i]
			sumL += y[r]
			sqL += y[r] * y[r]
			sumR -= y[r]
			sqR -= y[r] * y[r]

			nL, nR := i+1, len(order)-i-1
			if nL < minN || nR < minN {
				continue
			}
			cur, next := x.At(r, feature), x.At(order[i+1], feature)
			if cur == next {
				continue // cannot split between identical values
			}

			sse := (sqL - sumL*sumL/float64(nL)) + (sqR - sumR*sumR/float64(nR))
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func meanAt(y []float64, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += y[r]
	}
	return sum / float64(len(rows))
}

type cartModel struct {
	root *cartNode
}

func (m *cartModel) Predict(x *mat.Dense) []float64 {
	n, _ := x.Dims()
	preds := make([]float64, n)
	for i := 0; i < n; i++ {
		node := m.root
		for !node.leaf() {
			if x.At(i, node.feature) <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		preds[i] = node.value
	}
	return preds
}
