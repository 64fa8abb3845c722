package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/pkg/errors"
)

func TestRidgeFitPredict(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})
	y := mat.NewDense(5, 1, []float64{1, 3, 5, 7, 9}) // y = 2x + 1

	r := NewRidge(WithAlpha(1e-9))
	require.NoError(t, r.Fit(X, y))

	weights := r.Weights()
	require.Len(t, weights, 1)
	assert.InDelta(t, 2, weights[0], 1e-6)
	assert.InDelta(t, 1, r.Intercept(), 1e-6)

	pred, err := r.Predict(mat.NewDense(2, 1, []float64{5, 10}))
	require.NoError(t, err)
	assert.InDelta(t, 11, pred.At(0, 0), 1e-6)
	assert.InDelta(t, 21, pred.At(1, 0), 1e-6)
}

func TestRidgeRegularizationShrinksWeights(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	loose := NewRidge(WithAlpha(1e-9))
	require.NoError(t, loose.Fit(X, y))
	heavy := NewRidge(WithAlpha(100))
	require.NoError(t, heavy.Fit(X, y))

	assert.Less(t, heavy.Weights()[0], loose.Weights()[0])
}

func TestRidgePredictBeforeFit(t *testing.T) {
	r := NewRidge()
	_, err := r.Predict(mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)

	var nfErr *errors.NotFittedError
	assert.True(t, errors.As(err, &nfErr), "expected NotFittedError, got %v", err)
}

func TestRidgeDimensionChecks(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	r := NewRidge()
	require.NoError(t, r.Fit(X, y))

	_, err := r.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	require.Error(t, err)

	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr), "expected DimensionError, got %v", err)

	badY := mat.NewDense(2, 1, []float64{1, 2})
	err = NewRidge().Fit(X, badY)
	assert.Error(t, err)
}
