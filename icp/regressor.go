package icp

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/nc"
	"github.com/MartinLindh/nonconformist/pkg/errors"
	"github.com/MartinLindh/nonconformist/pkg/log"
)

// gridLevels is the fixed significance grid 0.01, 0.02, ..., 0.99 used by
// PredictIntervals.
const gridLevels = 99

// IntervalGrid holds prediction intervals for every level of the fixed
// significance grid. Lower and Upper are n×99 matrices; column j holds the
// bounds at Significances[j].
type IntervalGrid struct {
	Significances []float64
	Lower         *mat.Dense
	Upper         *mat.Dense
}

// Regressor is an inductive conformal regressor. Interval construction is
// owned by the nonconformity scorer; the regressor handles categorization
// of test examples, score-table lookup, and assembly of the results in the
// original test order.
//
// Test examples whose category was never seen during calibration are
// rejected with an UnknownCategoryError.
type Regressor struct {
	base
	intervals nc.IntervalScorer
}

// RegressorOption configures a Regressor.
type RegressorOption func(*Regressor)

// WithRegressorCondition sets the Mondrian condition function. During
// prediction the condition is invoked with a nil label.
func WithRegressorCondition(fn ConditionFunc) RegressorOption {
	return func(r *Regressor) {
		r.setCondition(fn)
	}
}

// NewRegressor creates an inductive conformal regressor around an
// interval-capable nonconformity scorer.
func NewRegressor(scorer nc.IntervalScorer, opts ...RegressorOption) *Regressor {
	r := &Regressor{
		base:      newBase("Regressor", scorer),
		intervals: scorer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Predict returns an n×2 matrix of [lower, upper] interval bounds for X at
// the given significance level.
func (r *Regressor) Predict(X mat.Matrix, significance float64) (*mat.Dense, error) {
	const op = "Regressor.Predict"
	if err := validateSignificance(significance); err != nil {
		return nil, err
	}
	xd, groups, err := r.groupByCategory(X, op)
	if err != nil {
		return nil, err
	}

	n, _ := xd.Dims()
	slog.Debug("predicting intervals",
		log.ModelNameKey, r.name,
		log.OperationKey, "predict",
		log.SignificanceKey, significance,
		log.SamplesKey, n,
	)
	prediction := mat.NewDense(n, 2, nil)
	for cat, idx := range groups {
		subX := r.selectRows(xd, idx)
		bounds, err := r.intervals.Intervals(subX, r.calScores[cat], significance)
		if err != nil {
			return nil, errors.Wrapf(err, "constructing intervals for category %d", cat)
		}
		for k, i := range idx {
			prediction.Set(i, 0, bounds.At(k, 0))
			prediction.Set(i, 1, bounds.At(k, 1))
		}
	}
	return prediction, nil
}

// PredictIntervals returns interval bounds for every level of the fixed
// significance grid 0.01...0.99, the significance-free analogue of Predict.
func (r *Regressor) PredictIntervals(X mat.Matrix) (*IntervalGrid, error) {
	const op = "Regressor.PredictIntervals"
	xd, groups, err := r.groupByCategory(X, op)
	if err != nil {
		return nil, err
	}

	sigs := significanceGrid()
	n, _ := xd.Dims()
	grid := &IntervalGrid{
		Significances: sigs,
		Lower:         mat.NewDense(n, gridLevels, nil),
		Upper:         mat.NewDense(n, gridLevels, nil),
	}
	for cat, idx := range groups {
		subX := r.selectRows(xd, idx)
		lower, upper, err := r.intervals.IntervalGrid(subX, r.calScores[cat], sigs)
		if err != nil {
			return nil, errors.Wrapf(err, "constructing interval grid for category %d", cat)
		}
		for k, i := range idx {
			for j := 0; j < gridLevels; j++ {
				grid.Lower.Set(i, j, lower.At(k, j))
				grid.Upper.Set(i, j, upper.At(k, j))
			}
		}
	}
	return grid, nil
}

// groupByCategory validates lifecycle and shape, then maps each test row to
// its category with the label unknown. Every category must have calibration
// scores.
func (r *Regressor) groupByCategory(X mat.Matrix, op string) (*mat.Dense, map[int][]int, error) {
	if !r.state.IsFitted() {
		return nil, nil, errors.NewNotFittedError(r.name, "Predict")
	}
	if !r.state.IsCalibrated() {
		return nil, nil, errors.NewNotCalibratedError(r.name, "Predict")
	}

	xd := mat.DenseCopyOf(X)
	n, cols := xd.Dims()
	if nFeatures, _ := r.state.GetDimensions(); cols != nFeatures {
		return nil, nil, errors.NewDimensionError(op, nFeatures, cols, 1)
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		cat := r.categoryOf(xd.RawRowView(i), nil)
		if _, ok := r.calScores[cat]; !ok {
			return nil, nil, errors.NewUnknownCategoryError(op, cat)
		}
		groups[cat] = append(groups[cat], i)
	}
	return xd, groups, nil
}

func (r *Regressor) selectRows(xd *mat.Dense, idx []int) *mat.Dense {
	_, cols := xd.Dims()
	sub := mat.NewDense(len(idx), cols, nil)
	for k, i := range idx {
		sub.SetRow(k, xd.RawRowView(i))
	}
	return sub
}

func significanceGrid() []float64 {
	sigs := make([]float64, gridLevels)
	for i := range sigs {
		sigs[i] = float64(i+1) / 100
	}
	return sigs
}
