package icp

import (
	"log/slog"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/core/parallel"
	"github.com/MartinLindh/nonconformist/nc"
	"github.com/MartinLindh/nonconformist/pkg/errors"
	"github.com/MartinLindh/nonconformist/pkg/log"
)

// Below this many test rows the p-value loop runs sequentially.
const pValueParallelThreshold = 256

// Classifier is an inductive conformal classifier. For each test example it
// computes one p-value per candidate class by ranking the example's
// nonconformity score against the calibration scores of the example's
// category, and forms the prediction set of all classes whose p-value
// exceeds the significance level.
//
// Smoothing (on by default) randomizes the tie term so that p-values are
// exactly uniform under the null; without smoothing p-values are
// deterministic and conservative.
//
// Test examples whose category was never seen during calibration are
// rejected with an UnknownCategoryError rather than given a degenerate
// p-value.
type Classifier struct {
	base

	classes   []float64
	smoothing bool
	rng       *rand.Rand
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithClassifierCondition sets the Mondrian condition function. Calibration
// scores are then kept per category and p-values are computed only against
// the test example's own category.
func WithClassifierCondition(fn ConditionFunc) ClassifierOption {
	return func(c *Classifier) {
		c.setCondition(fn)
	}
}

// WithSmoothing enables or disables stochastic smoothing of p-values.
func WithSmoothing(smoothing bool) ClassifierOption {
	return func(c *Classifier) {
		c.smoothing = smoothing
	}
}

// WithRandomState seeds the random source used for the smoothing term,
// making smoothed p-values reproducible.
func WithRandomState(seed int64) ClassifierOption {
	return func(c *Classifier) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// NewClassifier creates an inductive conformal classifier around a
// nonconformity scorer.
func NewClassifier(scorer nc.Scorer, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		base:      newBase("Classifier", scorer),
		smoothing: true,
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.calibrateHook = c.updateClasses
	return c
}

// updateClasses maintains the registry of observed class labels. The
// registry only grows: labels from every incremental calibration are merged
// in, and a label is never removed once observed.
func (c *Classifier) updateClasses(y []float64, increment bool) {
	if c.classes == nil || !increment {
		c.classes = uniqueSorted(y)
		return
	}
	c.classes = uniqueSorted(append(append([]float64(nil), c.classes...), y...))
}

// Classes returns the distinct labels observed across all calibrations, in
// ascending order. The columns of PValues and Predict follow this order.
func (c *Classifier) Classes() []float64 {
	return append([]float64(nil), c.classes...)
}

// PValues returns the p-value matrix for X: one row per test example, one
// column per class in Classes() order.
//
// For a test example with nonconformity score s under candidate class y,
// the p-value is (nGT + tie) / (nCal + 1), where nGT counts calibration
// scores strictly greater than s and the tie term covers the nEq scores
// equal to s plus the test point itself: nEq*U with U ~ Uniform[0,1) when
// smoothing, nEq otherwise.
func (c *Classifier) PValues(X mat.Matrix) (*mat.Dense, error) {
	const op = "Classifier.PValues"
	if !c.state.IsFitted() {
		return nil, errors.NewNotFittedError(c.name, "PValues")
	}
	if !c.state.IsCalibrated() {
		return nil, errors.NewNotCalibratedError(c.name, "PValues")
	}

	xd := mat.DenseCopyOf(X)
	n, cols := xd.Dims()
	if nFeatures, _ := c.state.GetDimensions(); cols != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, cols, 1)
	}

	p := mat.NewDense(n, len(c.classes), nil)
	for col, class := range c.classes {
		class := class
		testClass := mat.NewDense(n, 1, nil)
		for j := 0; j < n; j++ {
			testClass.Set(j, 0, class)
		}

		scores, err := c.scorer.Scores(xd, testClass)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring test examples as class %v", class)
		}

		// Resolve every row's calibration score array up front so the
		// ranking loop below is pure arithmetic.
		arrs := make([][]float64, n)
		for j := 0; j < n; j++ {
			cat := c.categoryOf(xd.RawRowView(j), &class)
			arr, ok := c.calScores[cat]
			if !ok {
				return nil, errors.NewUnknownCategoryError(op, cat)
			}
			arrs[j] = arr
		}

		if c.smoothing {
			// The smoothing term draws from the single injected random
			// source, so this path stays sequential.
			for j := 0; j < n; j++ {
				nGT, nEq := rankScores(arrs[j], scores[j])
				nCal := len(arrs[j])
				p.Set(j, col, (float64(nGT)+float64(nEq)*c.rng.Float64())/float64(nCal+1))
			}
		} else {
			parallel.ParallelizeWithThreshold(n, pValueParallelThreshold, func(start, end int) {
				for j := start; j < end; j++ {
					nGT, nEq := rankScores(arrs[j], scores[j])
					nCal := len(arrs[j])
					p.Set(j, col, float64(nGT+nEq)/float64(nCal+1))
				}
			})
		}
	}
	return p, nil
}

// Predict returns the prediction set of each test example at the given
// significance level: out[i][k] is true when class Classes()[k] is not
// rejected, i.e. its p-value exceeds significance. Sets may be empty.
func (c *Classifier) Predict(X mat.Matrix, significance float64) ([][]bool, error) {
	if err := validateSignificance(significance); err != nil {
		return nil, err
	}

	p, err := c.PValues(X)
	if err != nil {
		return nil, err
	}

	n, k := p.Dims()
	slog.Debug("predicted",
		log.ModelNameKey, c.name,
		log.OperationKey, "predict",
		log.SignificanceKey, significance,
		log.SamplesKey, n,
		log.ClassesKey, k,
	)
	out := make([][]bool, n)
	for i := 0; i < n; i++ {
		row := make([]bool, k)
		for j := 0; j < k; j++ {
			row[j] = p.At(i, j) > significance
		}
		out[i] = row
	}
	return out, nil
}

func uniqueSorted(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	out := s[:1]
	for _, x := range s[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
