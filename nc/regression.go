package nc

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/core/model"
	"github.com/MartinLindh/nonconformist/pkg/errors"
)

// ErrorFunc turns point-prediction residuals into nonconformity scores and,
// inversely, turns a calibration score array into an interval half-width at
// a given significance level.
type ErrorFunc interface {
	// Apply returns one score per example from predicted and actual values.
	Apply(predicted, actual []float64) []float64

	// Inverse returns the interval half-width for a significance level.
	// calScores is sorted in descending order.
	Inverse(calScores []float64, significance float64) float64
}

// AbsError scores an example by the absolute residual |y - ŷ|. Its inverse
// picks the calibration score at the rank floor(significance*(n+1))-1 of the
// descending score array, so that at most a significance fraction of
// calibration residuals exceed the returned half-width.
type AbsError struct{}

// Apply returns |predicted - actual| per example.
func (AbsError) Apply(predicted, actual []float64) []float64 {
	scores := make([]float64, len(predicted))
	for i := range predicted {
		scores[i] = math.Abs(predicted[i] - actual[i])
	}
	return scores
}

// Inverse returns the half-width for significance. An empty score array
// yields an infinite half-width (a degenerate, maximally wide interval).
func (AbsError) Inverse(calScores []float64, significance float64) float64 {
	n := len(calScores)
	if n == 0 {
		return math.Inf(1)
	}
	border := int(math.Floor(significance*float64(n+1))) - 1
	if border < 0 {
		border = 0
	}
	if border > n-1 {
		border = n - 1
	}
	return calScores[border]
}

// RegressorNC computes nonconformity scores for regression problems from
// the residuals of a wrapped point regressor, and constructs prediction
// intervals by inflating the point prediction with the error function's
// inverse.
type RegressorNC struct {
	model   model.Model
	errFunc ErrorFunc
}

// NewRegressorNC creates a regression nonconformity scorer around a point
// regressor and an error function.
func NewRegressorNC(m model.Model, errFunc ErrorFunc) *RegressorNC {
	return &RegressorNC{model: m, errFunc: errFunc}
}

// Fit trains the underlying point regressor.
func (r *RegressorNC) Fit(X, y mat.Matrix) error {
	return r.model.Fit(X, y)
}

// Scores returns the error-function score of each (x, y) pair under the
// fitted point regressor.
func (r *RegressorNC) Scores(X, y mat.Matrix) ([]float64, error) {
	pred, err := r.predictColumn(X)
	if err != nil {
		return nil, err
	}
	actual, err := columnVector("RegressorNC.Scores", y, len(pred))
	if err != nil {
		return nil, err
	}
	return r.errFunc.Apply(pred, actual), nil
}

// Intervals returns an n×2 matrix of [ŷ-w, ŷ+w] bounds, where w is the
// error function's inverse at the requested significance level.
func (r *RegressorNC) Intervals(X mat.Matrix, calScores []float64, significance float64) (*mat.Dense, error) {
	pred, err := r.predictColumn(X)
	if err != nil {
		return nil, err
	}
	w := r.errFunc.Inverse(calScores, significance)

	intervals := mat.NewDense(len(pred), 2, nil)
	for i, p := range pred {
		intervals.Set(i, 0, p-w)
		intervals.Set(i, 1, p+w)
	}
	return intervals, nil
}

// IntervalGrid returns lower and upper bound matrices with one column per
// requested significance level. The point prediction is computed once.
func (r *RegressorNC) IntervalGrid(X mat.Matrix, calScores []float64, significances []float64) (*mat.Dense, *mat.Dense, error) {
	if len(significances) == 0 {
		return nil, nil, errors.NewValueError("RegressorNC.IntervalGrid", "no significance levels given")
	}
	pred, err := r.predictColumn(X)
	if err != nil {
		return nil, nil, err
	}

	lower := mat.NewDense(len(pred), len(significances), nil)
	upper := mat.NewDense(len(pred), len(significances), nil)
	for j, sig := range significances {
		w := r.errFunc.Inverse(calScores, sig)
		for i, p := range pred {
			lower.Set(i, j, p-w)
			upper.Set(i, j, p+w)
		}
	}
	return lower, upper, nil
}

// Clone returns a new wrapper with the same configuration. The wrapped
// point regressor is shared.
func (r *RegressorNC) Clone() Scorer {
	return &RegressorNC{model: r.model, errFunc: r.errFunc}
}

func (r *RegressorNC) predictColumn(X mat.Matrix) ([]float64, error) {
	out, err := r.model.Predict(X)
	if err != nil {
		return nil, err
	}
	n, _ := out.Dims()
	return columnVector("RegressorNC.predict", out, n)
}
