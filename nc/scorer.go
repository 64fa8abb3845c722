package nc

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/pkg/errors"
)

// Scorer is the contract between a conformal predictor and its
// nonconformity function. Fit trains the underlying point-predictor;
// Scores produces one nonconformity score per row of X.
type Scorer interface {
	Fit(X, y mat.Matrix) error

	// Scores returns one score per example; higher = more atypical.
	Scores(X, y mat.Matrix) ([]float64, error)
}

// IntervalScorer extends Scorer with interval construction for conformal
// regression. The bound formula is owned by the scorer; the conformal
// regressor only supplies the calibration scores of the test example's
// category.
type IntervalScorer interface {
	Scorer

	// Intervals returns an n×2 matrix of [lower, upper] bounds for each
	// row of X at the given significance level. calScores is sorted in
	// descending order.
	Intervals(X mat.Matrix, calScores []float64, significance float64) (*mat.Dense, error)

	// IntervalGrid returns n×len(significances) lower and upper bound
	// matrices, one column per significance level.
	IntervalGrid(X mat.Matrix, calScores []float64, significances []float64) (lower, upper *mat.Dense, err error)
}

// Cloner is an optional capability for scorers that can duplicate their
// configuration. Used by GetParams(deep=true); the wrapped point-predictor
// is shared, not retrained.
type Cloner interface {
	Clone() Scorer
}

// columnVector extracts an n×1 matrix into a slice, validating the shape.
func columnVector(op string, y mat.Matrix, wantRows int) ([]float64, error) {
	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError(op, "y must be a column vector")
	}
	if r != wantRows {
		return nil, errors.NewDimensionError(op, wantRows, r, 0)
	}
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = y.At(i, 0)
	}
	return out, nil
}
