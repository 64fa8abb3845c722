package icp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/nc"
	"github.com/MartinLindh/nonconformist/pkg/errors"
)

// stubScorer scores an example by its first feature and ignores the label.
// It makes the rank statistics of the engine directly observable in tests.
type stubScorer struct {
	fitted bool
}

func (s *stubScorer) Fit(X, y mat.Matrix) error {
	s.fitted = true
	return nil
}

func (s *stubScorer) Scores(X, y mat.Matrix) ([]float64, error) {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i] = X.At(i, 0)
	}
	return out, nil
}

func (s *stubScorer) Clone() nc.Scorer {
	return &stubScorer{}
}

func column(v ...float64) *mat.Dense {
	return mat.NewDense(len(v), 1, v)
}

func TestCalibrateBeforeFit(t *testing.T) {
	c := NewClassifier(&stubScorer{})

	err := c.Calibrate(column(1, 2), column(0, 1), false)
	require.Error(t, err)

	var nfErr *errors.NotFittedError
	assert.True(t, errors.As(err, &nfErr), "expected NotFittedError, got %v", err)
}

func TestPredictBeforeCalibrate(t *testing.T) {
	c := NewClassifier(&stubScorer{})
	require.NoError(t, c.Fit(column(1, 2), column(0, 1)))

	_, err := c.PValues(column(1))
	require.Error(t, err)

	var ncErr *errors.NotCalibratedError
	assert.True(t, errors.As(err, &ncErr), "expected NotCalibratedError, got %v", err)
}

func TestCalibrateReplacesByDefault(t *testing.T) {
	c := NewClassifier(&stubScorer{}, WithSmoothing(false))
	require.NoError(t, c.Fit(column(1, 2), column(0, 1)))

	require.NoError(t, c.Calibrate(column(0.1, 0.2), column(0, 0), false))
	require.NoError(t, c.Calibrate(column(0.3, 0.4, 0.5), column(1, 1, 1), false))

	assert.Equal(t, 3, c.CalibrationSize())
	assert.Equal(t, []float64{0.5, 0.4, 0.3}, c.calScores[0])
}

func TestIncrementalAppends(t *testing.T) {
	c := NewClassifier(&stubScorer{}, WithSmoothing(false))
	require.NoError(t, c.Fit(column(1, 2), column(0, 1)))

	require.NoError(t, c.Calibrate(column(0.1, 0.2), column(0, 0), false))
	require.NoError(t, c.Calibrate(column(0.3, 0.4), column(1, 1), true))

	assert.Equal(t, 4, c.CalibrationSize())
	assert.Equal(t, []float64{0.4, 0.3, 0.2, 0.1}, c.calScores[0])
}

func TestIncrementalEquivalence(t *testing.T) {
	xA, yA := column(0.3, 0.9, 0.1), column(0, 1, 0)
	xB, yB := column(0.7, 0.5), column(1, 0)
	xAll := column(0.3, 0.9, 0.1, 0.7, 0.5)
	yAll := column(0, 1, 0, 1, 0)
	xTest := column(0.45, 0.85)

	condition := func(x []float64, y *float64) int {
		if y != nil && *y > 0.5 {
			return 1
		}
		return 0
	}

	makeClassifier := func() *Classifier {
		c := NewClassifier(&stubScorer{},
			WithSmoothing(false),
			WithClassifierCondition(condition),
		)
		require.NoError(t, c.Fit(column(1, 2), column(0, 1)))
		return c
	}

	batched := makeClassifier()
	require.NoError(t, batched.Calibrate(xAll, yAll, false))

	incremental := makeClassifier()
	require.NoError(t, incremental.Calibrate(xA, yA, false))
	require.NoError(t, incremental.Calibrate(xB, yB, true))

	assert.Equal(t, batched.CalibrationSize(), incremental.CalibrationSize())
	assert.Equal(t, batched.Categories(), incremental.Categories())
	for _, cat := range batched.Categories() {
		assert.Equal(t, batched.calScores[cat], incremental.calScores[cat],
			"score table mismatch for category %d", cat)
	}

	pBatched, err := batched.PValues(xTest)
	require.NoError(t, err)
	pIncremental, err := incremental.PValues(xTest)
	require.NoError(t, err)
	assert.True(t, mat.Equal(pBatched, pIncremental),
		"p-values differ:\n%v\nvs\n%v", mat.Formatted(pBatched), mat.Formatted(pIncremental))
}

func TestIncrementalDimensionMismatch(t *testing.T) {
	c := NewClassifier(&stubScorer{})
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, c.Fit(X, column(0, 1)))
	require.NoError(t, c.Calibrate(X, column(0, 1), false))

	wide := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	err := c.Calibrate(wide, column(0, 1), true)
	require.Error(t, err)

	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr), "expected DimensionError, got %v", err)

	// The failed call must not have corrupted the stored calibration set.
	assert.Equal(t, 2, c.CalibrationSize())
}

func TestCategoryPartitionInvariant(t *testing.T) {
	condition := func(x []float64, y *float64) int {
		if x[0] >= 0.5 {
			return 1
		}
		return 0
	}
	c := NewClassifier(&stubScorer{},
		WithSmoothing(false),
		WithClassifierCondition(condition),
	)
	require.NoError(t, c.Fit(column(1, 2), column(0, 1)))

	xCal := column(0.1, 0.6, 0.4, 0.9, 0.2, 0.7)
	yCal := column(0, 1, 0, 1, 0, 1)
	require.NoError(t, c.Calibrate(xCal, yCal, false))

	assert.Equal(t, []int{0, 1}, c.Categories())

	total := 0
	for _, cat := range c.Categories() {
		total += len(c.calScores[cat])
	}
	assert.Equal(t, c.CalibrationSize(), total,
		"per-category score sets must partition the calibration set")

	// Each category holds exactly its own examples, sorted descending.
	assert.Equal(t, []float64{0.4, 0.2, 0.1}, c.calScores[0])
	assert.Equal(t, []float64{0.9, 0.7, 0.6}, c.calScores[1])
}

func TestSingleCategoryWithoutCondition(t *testing.T) {
	c := NewClassifier(&stubScorer{}, WithSmoothing(false))
	require.NoError(t, c.Fit(column(1, 2), column(0, 1)))
	require.NoError(t, c.Calibrate(column(0.2, 0.8, 0.5), column(0, 1, 0), false))

	assert.Equal(t, []int{0}, c.Categories())
	assert.Equal(t, []float64{0.8, 0.5, 0.2}, c.calScores[0])
}

func TestGetParams(t *testing.T) {
	scorer := &stubScorer{}
	condition := func(x []float64, y *float64) int { return 0 }
	c := NewClassifier(scorer, WithClassifierCondition(condition))

	params := c.GetParams(false)
	assert.Same(t, scorer, params.Scorer.(*stubScorer))
	assert.NotNil(t, params.Condition)

	deep := c.GetParams(true)
	assert.NotSame(t, scorer, deep.Scorer.(*stubScorer), "deep params should clone the scorer")
}

func TestRankScores(t *testing.T) {
	desc := []float64{0.9, 0.4, 0.4, 0.1}

	tests := []struct {
		name   string
		v      float64
		wantGT int
		wantEq int
	}{
		{name: "tie with two calibration scores", v: 0.4, wantGT: 1, wantEq: 3},
		{name: "above all", v: 1.0, wantGT: 0, wantEq: 1},
		{name: "below all", v: 0.05, wantGT: 4, wantEq: 1},
		{name: "tie with maximum", v: 0.9, wantGT: 0, wantEq: 2},
		{name: "between scores", v: 0.5, wantGT: 1, wantEq: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nGT, nEq := rankScores(desc, tt.v)
			assert.Equal(t, tt.wantGT, nGT, "nGT")
			assert.Equal(t, tt.wantEq, nEq, "nEq")
		})
	}
}
