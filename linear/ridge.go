// Package linear provides a ridge regression point-predictor. It exists so
// the conformal regressor can be used and tested end to end without an
// external model; any model.Model works in its place.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/core/model"
	"github.com/MartinLindh/nonconformist/pkg/errors"
)

// Ridge is a linear regressor with L2 regularization, solved by the normal
// equations (X'X + αI)⁻¹ X'y with an intercept column.
type Ridge struct {
	state *model.StateManager

	alpha     float64
	weights   *mat.VecDense
	intercept float64
}

// RidgeOption configures a Ridge regressor.
type RidgeOption func(*Ridge)

// WithAlpha sets the regularization strength. Zero gives ordinary least
// squares; the default 1.0 keeps the normal equations well-conditioned.
func WithAlpha(alpha float64) RidgeOption {
	return func(r *Ridge) {
		r.alpha = alpha
	}
}

// NewRidge creates a ridge regressor.
func NewRidge(opts ...RidgeOption) *Ridge {
	r := &Ridge{
		state: model.NewStateManager(),
		alpha: 1.0,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit trains the model with the normal equations.
func (r *Ridge) Fit(X, y mat.Matrix) error {
	const op = "Ridge.Fit"
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewValueError(op, "empty training data")
	}
	ry, cy := y.Dims()
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if ry != rows {
		return errors.NewDimensionError(op, rows, ry, 0)
	}

	// Design matrix with an intercept column of ones.
	design := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < cols; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)

	// Regularize every coefficient except the intercept.
	for j := 1; j <= cols; j++ {
		gram.Set(j, j, gram.At(j, j)+r.alpha)
	}

	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return errors.Wrap(err, "inverting singular design matrix")
	}

	yVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var xty mat.VecDense
	xty.MulVec(design.T(), yVec)

	solution := mat.NewVecDense(cols+1, nil)
	solution.MulVec(&gramInv, &xty)

	r.intercept = solution.AtVec(0)
	r.weights = mat.NewVecDense(cols, nil)
	for j := 0; j < cols; j++ {
		r.weights.SetVec(j, solution.AtVec(j+1))
	}

	r.state.SetDimensions(cols, rows)
	r.state.SetFitted()
	return nil
}

// Predict returns an n×1 matrix of point predictions.
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	const op = "Ridge.Predict"
	if !r.state.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	rows, cols := X.Dims()
	if nFeatures, _ := r.state.GetDimensions(); cols != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := r.intercept
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * r.weights.AtVec(j)
		}
		out.Set(i, 0, pred)
	}
	return out, nil
}

// Weights returns the fitted coefficients, excluding the intercept.
func (r *Ridge) Weights() []float64 {
	if r.weights == nil {
		return nil
	}
	out := make([]float64, r.weights.Len())
	for i := range out {
		out[i] = r.weights.AtVec(i)
	}
	return out
}

// Intercept returns the fitted intercept.
func (r *Ridge) Intercept() float64 {
	return r.intercept
}
