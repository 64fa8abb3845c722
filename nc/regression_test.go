package nc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/linear"
)

func TestAbsErrorApply(t *testing.T) {
	scores := AbsError{}.Apply([]float64{1, 2, 3}, []float64{1.5, 2, 1})
	assert.Equal(t, []float64{0.5, 0, 2}, scores)
}

func TestAbsErrorInverse(t *testing.T) {
	// Descending calibration scores, n=5: border index is
	// floor(significance*(n+1))-1 clamped to [0, n-1].
	calScores := []float64{5, 4, 3, 2, 1}

	tests := []struct {
		name         string
		significance float64
		want         float64
	}{
		{name: "small significance clamps to largest score", significance: 0.1, want: 5},
		{name: "median significance", significance: 0.5, want: 3},
		{name: "large significance reaches smallest score", significance: 0.99, want: 1},
		{name: "one third", significance: 1.0 / 3, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsError{}.Inverse(calScores, tt.significance))
		})
	}
}

func TestAbsErrorInverseEmpty(t *testing.T) {
	assert.True(t, math.IsInf(AbsError{}.Inverse(nil, 0.5), 1),
		"empty calibration scores must give an infinite half-width")
}

func TestRegressorNCScores(t *testing.T) {
	ridge := linear.NewRidge(linear.WithAlpha(1e-9))
	scorer := NewRegressorNC(ridge, AbsError{})

	// y = 2x fits exactly, so scores equal the label perturbations.
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
	require.NoError(t, scorer.Fit(X, y))

	yShifted := mat.NewDense(4, 1, []float64{2.5, 4, 5, 8})
	scores, err := scorer.Scores(X, yShifted)
	require.NoError(t, err)

	require.Len(t, scores, 4)
	assert.InDelta(t, 0.5, scores[0], 1e-6)
	assert.InDelta(t, 0, scores[1], 1e-6)
	assert.InDelta(t, 1, scores[2], 1e-6)
	assert.InDelta(t, 0, scores[3], 1e-6)
}

func TestRegressorNCIntervals(t *testing.T) {
	ridge := linear.NewRidge(linear.WithAlpha(1e-9))
	scorer := NewRegressorNC(ridge, AbsError{})

	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
	require.NoError(t, scorer.Fit(X, y))

	calScores := []float64{3, 2, 1}
	intervals, err := scorer.Intervals(mat.NewDense(1, 1, []float64{5}), calScores, 0.5)
	require.NoError(t, err)

	// Prediction is 10; the half-width at significance 0.5 (n=3) is the
	// score at border index floor(0.5*4)-1 = 1, i.e. 2.
	assert.InDelta(t, 8, intervals.At(0, 0), 1e-6)
	assert.InDelta(t, 12, intervals.At(0, 1), 1e-6)
}

func TestRegressorNCIntervalGrid(t *testing.T) {
	ridge := linear.NewRidge(linear.WithAlpha(1e-9))
	scorer := NewRegressorNC(ridge, AbsError{})

	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
	require.NoError(t, scorer.Fit(X, y))

	sigs := []float64{0.1, 0.5, 0.9}
	lower, upper, err := scorer.IntervalGrid(mat.NewDense(2, 1, []float64{5, 6}), []float64{3, 2, 1}, sigs)
	require.NoError(t, err)

	rows, cols := lower.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 3, cols)

	// Widths shrink as significance grows.
	for i := 0; i < rows; i++ {
		for j := 1; j < cols; j++ {
			prev := upper.At(i, j-1) - lower.At(i, j-1)
			cur := upper.At(i, j) - lower.At(i, j)
			assert.LessOrEqual(t, cur, prev+1e-12)
		}
	}

	_, _, err = scorer.IntervalGrid(X, []float64{1}, nil)
	assert.Error(t, err, "empty significance grid must be rejected")
}
