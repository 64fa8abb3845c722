package icp

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/core/model"
	"github.com/MartinLindh/nonconformist/nc"
	"github.com/MartinLindh/nonconformist/pkg/errors"
	"github.com/MartinLindh/nonconformist/pkg/log"
)

// ConditionFunc maps an example to a Mondrian category. y is nil when the
// label is unknown, which is the case when categorizing test examples for
// regression. Condition functions must be pure: they may be invoked
// concurrently during prediction.
type ConditionFunc func(x []float64, y *float64) int

// Params holds the configuration returned by GetParams.
type Params struct {
	Scorer    nc.Scorer
	Condition ConditionFunc
}

// base owns the fit/calibrate lifecycle shared by Classifier and Regressor:
// the calibration set, the per-category score table, and the condition
// function.
type base struct {
	state       *model.StateManager
	scorer      nc.Scorer
	condition   ConditionFunc
	conditional bool
	name        string

	calX       *mat.Dense
	calY       []float64
	categories []int
	calScores  map[int][]float64

	// Set by the classifier so the class registry is updated before the
	// score table is rebuilt.
	calibrateHook func(y []float64, increment bool)
}

func newBase(name string, scorer nc.Scorer) base {
	return base{
		state:  model.NewStateManager(),
		scorer: scorer,
		name:   name,
	}
}

func (b *base) setCondition(fn ConditionFunc) {
	b.condition = fn
	b.conditional = fn != nil
}

// Fit trains the underlying nonconformity scorer. It must be called before
// Calibrate or Predict.
func (b *base) Fit(X, y mat.Matrix) error {
	op := b.name + ".Fit"
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError(op, "empty training data")
	}
	if _, err := columnVector(op, y, r); err != nil {
		return err
	}

	if err := b.scorer.Fit(X, y); err != nil {
		return errors.Wrap(err, "fitting nonconformity scorer")
	}

	b.state.SetDimensions(c, r)
	b.state.SetFitted()
	slog.Debug("fitted nonconformity scorer",
		log.ModelNameKey, b.name,
		log.OperationKey, "fit",
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return nil
}

// Calibrate stores calibration examples and rebuilds the per-category score
// table. When increment is true and a calibration set already exists, the
// new examples are appended to it; otherwise the set is replaced. The score
// table is always recomputed from the full calibration set.
func (b *base) Calibrate(X, y mat.Matrix, increment bool) error {
	op := b.name + ".Calibrate"
	if !b.state.IsFitted() {
		return errors.NewNotFittedError(b.name, "Calibrate")
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError(op, "empty calibration data")
	}
	nFeatures, _ := b.state.GetDimensions()
	if c != nFeatures {
		return errors.NewDimensionError(op, nFeatures, c, 1)
	}
	yVals, err := columnVector(op, y, r)
	if err != nil {
		return err
	}

	if b.calibrateHook != nil {
		b.calibrateHook(yVals, increment)
	}

	if err := b.updateCalibrationSet(X, yVals, increment); err != nil {
		return err
	}
	if err := b.rebuildScores(); err != nil {
		return err
	}

	b.state.SetCalibrated()
	slog.Debug("calibrated",
		log.ModelNameKey, b.name,
		log.OperationKey, "calibrate",
		log.SamplesKey, len(b.calY),
		log.CategoriesKey, len(b.categories),
	)
	return nil
}

// updateCalibrationSet merges (X, y) into the stored calibration set. The
// incoming matrix is copied so later caller mutations cannot corrupt the
// calibration state.
func (b *base) updateCalibrationSet(X mat.Matrix, y []float64, increment bool) error {
	if increment && b.calX != nil {
		oldR, cols := b.calX.Dims()
		newR, _ := X.Dims()

		stacked := mat.NewDense(oldR+newR, cols, nil)
		stacked.Copy(b.calX)
		for i := 0; i < newR; i++ {
			for j := 0; j < cols; j++ {
				stacked.Set(oldR+i, j, X.At(i, j))
			}
		}
		b.calX = stacked
		b.calY = append(b.calY, y...)
		return nil
	}

	b.calX = mat.DenseCopyOf(X)
	b.calY = append([]float64(nil), y...)
	return nil
}

// rebuildScores recomputes the category partition and the per-category
// descending score arrays over the full calibration set.
func (b *base) rebuildScores() error {
	n := len(b.calY)

	if !b.conditional {
		scores, err := b.scorer.Scores(b.calX, colMatrix(b.calY))
		if err != nil {
			return errors.Wrap(err, "scoring calibration set")
		}
		sortDescending(scores)
		b.categories = []int{0}
		b.calScores = map[int][]float64{0: scores}
		return nil
	}

	categoryMap := make([]int, n)
	for i := 0; i < n; i++ {
		categoryMap[i] = b.condition(b.calX.RawRowView(i), &b.calY[i])
	}

	byCategory := make(map[int][]int)
	for i, cat := range categoryMap {
		byCategory[cat] = append(byCategory[cat], i)
	}

	b.categories = make([]int, 0, len(byCategory))
	for cat := range byCategory {
		b.categories = append(b.categories, cat)
	}
	sort.Ints(b.categories)

	_, cols := b.calX.Dims()
	b.calScores = make(map[int][]float64, len(byCategory))
	for _, cat := range b.categories {
		idx := byCategory[cat]
		subX := mat.NewDense(len(idx), cols, nil)
		subY := make([]float64, len(idx))
		for k, i := range idx {
			subX.SetRow(k, b.calX.RawRowView(i))
			subY[k] = b.calY[i]
		}

		scores, err := b.scorer.Scores(subX, colMatrix(subY))
		if err != nil {
			return errors.Wrapf(err, "scoring calibration category %d", cat)
		}
		sortDescending(scores)
		b.calScores[cat] = scores
	}
	return nil
}

// categoryOf resolves the category of a test example. y is nil when the
// label is unknown.
func (b *base) categoryOf(x []float64, y *float64) int {
	if !b.conditional {
		return 0
	}
	return b.condition(x, y)
}

// GetParams returns the current nonconformity scorer and condition function.
// With deep=true the scorer is duplicated when it supports cloning.
func (b *base) GetParams(deep bool) Params {
	scorer := b.scorer
	if deep {
		if c, ok := scorer.(nc.Cloner); ok {
			scorer = c.Clone()
		}
	}
	return Params{Scorer: scorer, Condition: b.condition}
}

// CalibrationSize returns the number of stored calibration examples.
func (b *base) CalibrationSize() int {
	return len(b.calY)
}

// Categories returns the categories present in the calibration set, in
// ascending order.
func (b *base) Categories() []int {
	return append([]int(nil), b.categories...)
}

// rankScores locates v in a descending score array and returns the number
// of calibration scores strictly greater than v, and the number equal to v
// plus one for the test point itself.
func rankScores(desc []float64, v float64) (nGT, nEq int) {
	nGT = sort.Search(len(desc), func(i int) bool { return desc[i] <= v })
	firstLess := sort.Search(len(desc), func(i int) bool { return desc[i] < v })
	nEq = firstLess - nGT + 1
	return nGT, nEq
}

func sortDescending(s []float64) {
	sort.Sort(sort.Reverse(sort.Float64Slice(s)))
}

func colMatrix(v []float64) *mat.Dense {
	return mat.NewDense(len(v), 1, append([]float64(nil), v...))
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

// validateSignificance rejects significance levels outside the open
// interval (0, 1); the coverage guarantee is undefined there.
func validateSignificance(significance float64) error {
	if !(significance > 0 && significance < 1) {
		return errors.NewValidationError("significance", "must be in the open interval (0, 1)", significance)
	}
	return nil
}
