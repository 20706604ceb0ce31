package engine

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linear is a ridge-regularized linear regression engine. The "penalty"
// hyperparameter is the L2 regularization strength; the intercept is never
// penalized.
type Linear struct{}

// Name implements Engine.
func (*Linear) Name() string { return "linear" }

// Params implements Engine.
func (*Linear) Params() []ParamSpec {
	return []ParamSpec{
		{Name: "penalty", Default: 0, Candidates: []float64{0, 0.001, 0.01, 0.1, 1, 10}},
	}
}

// Fit implements Engine by solving the regularized normal equations.
func (e *Linear) Fit(ctx context.Context, x *mat.Dense, y []float64, params map[string]float64) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	penalty := paramOr(params, "penalty", 0)
	if penalty < 0 {
		return nil, fmt.Errorf("penalty must be non-negative, got %g", penalty)
	}

	n, p := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows for %d outcomes", n, len(y))
	}

	// Augment with an intercept column.
	aug := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		aug.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			aug.Set(i, j+1, x.At(i, j))
		}
	}

	var xtx mat.Dense
	xtx.Mul(aug.T(), aug)
	for j := 1; j <= p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+penalty)
	}

	yVec := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(aug.T(), yVec)

	var coef mat.VecDense
	if err := coef.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("normal equations are singular: %w", err)
	}

	out := &linearModel{coef: make([]float64, p+1)}
	for j := 0; j <= p; j++ {
		out.coef[j] = coef.AtVec(j)
	}
	return out, nil
}

type linearModel struct {
	coef []float64 // coef[0] is the intercept
}

func (m *linearModel) Predict(x *mat.Dense) []float64 {
	n, p := x.Dims()
	preds := make([]float64, n)
	for i := 0; i < n; i++ {
		v := m.coef[0]
		for j := 0; j < p && j+1 < len(m.coef); j++ {
			v += m.coef[j+1] * x.At(i, j)
		}
		preds[i] = v
	}
	return preds
}
