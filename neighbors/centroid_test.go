package neighbors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/pkg/errors"
)

func fittedCentroid(t *testing.T) *NearestCentroid {
	t.Helper()
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		10, 10,
		11, 10,
		10, 11,
	})
	y := mat.NewDense(6, 1, []float64{2, 2, 2, 5, 5, 5})

	n := NewNearestCentroid()
	require.NoError(t, n.Fit(X, y))
	return n
}

func TestNearestCentroidClasses(t *testing.T) {
	n := fittedCentroid(t)
	assert.Equal(t, []float64{2, 5}, n.Classes())
}

func TestNearestCentroidPredict(t *testing.T) {
	n := fittedCentroid(t)

	pred, err := n.Predict(mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		10.5, 10.5,
	}))
	require.NoError(t, err)

	assert.Equal(t, 2.0, pred.At(0, 0))
	assert.Equal(t, 5.0, pred.At(1, 0))
}

func TestNearestCentroidPredictProba(t *testing.T) {
	n := fittedCentroid(t)

	proba, err := n.PredictProba(mat.NewDense(1, 2, []float64{0.5, 0.5}))
	require.NoError(t, err)

	rows, cols := proba.Dims()
	require.Equal(t, 1, rows)
	require.Equal(t, 2, cols)

	assert.Greater(t, proba.At(0, 0), proba.At(0, 1),
		"a point near the first centroid should favor its class")
	assert.InDelta(t, 1, proba.At(0, 0)+proba.At(0, 1), 1e-9, "probabilities must sum to one")
}

func TestNearestCentroidLifecycle(t *testing.T) {
	n := NewNearestCentroid()

	_, err := n.PredictProba(mat.NewDense(1, 2, nil))
	var nfErr *errors.NotFittedError
	require.True(t, errors.As(err, &nfErr), "expected NotFittedError, got %v", err)

	require.NoError(t, n.Fit(mat.NewDense(2, 2, []float64{0, 0, 1, 1}), mat.NewDense(2, 1, []float64{0, 1})))

	_, err = n.PredictProba(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr), "expected DimensionError, got %v", err)
}
