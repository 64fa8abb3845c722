// Package metrics provides validity and efficiency measures for conformal
// predictions: error rates (the empirical complement of coverage) and set
// or interval sizes.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/pkg/errors"
)

// ErrorRate returns the fraction of test examples whose true label is
// outside the prediction set. classes gives the column order of pred, as
// returned by Classifier.Classes(). Validity means the error rate stays at
// or below the significance level in expectation.
func ErrorRate(pred [][]bool, y []float64, classes []float64) (float64, error) {
	const op = "ErrorRate"
	if len(pred) == 0 {
		return 0, errors.NewValueError(op, "empty prediction set")
	}
	if len(y) != len(pred) {
		return 0, errors.NewDimensionError(op, len(pred), len(y), 0)
	}

	var misses int
	for i, row := range pred {
		if len(row) != len(classes) {
			return 0, errors.NewDimensionError(op, len(classes), len(row), 1)
		}
		idx := -1
		for k, c := range classes {
			if c == y[i] {
				idx = k
				break
			}
		}
		if idx < 0 || !row[idx] {
			misses++
		}
	}
	return float64(misses) / float64(len(pred)), nil
}

// AvgC returns the mean prediction-set size, a standard efficiency measure
// for conformal classifiers.
func AvgC(pred [][]bool) (float64, error) {
	if len(pred) == 0 {
		return 0, errors.NewValueError("AvgC", "empty prediction set")
	}
	var total int
	for _, row := range pred {
		for _, in := range row {
			if in {
				total++
			}
		}
	}
	return float64(total) / float64(len(pred)), nil
}

// OneC returns the fraction of singleton prediction sets.
func OneC(pred [][]bool) (float64, error) {
	if len(pred) == 0 {
		return 0, errors.NewValueError("OneC", "empty prediction set")
	}
	var singletons int
	for _, row := range pred {
		var size int
		for _, in := range row {
			if in {
				size++
			}
		}
		if size == 1 {
			singletons++
		}
	}
	return float64(singletons) / float64(len(pred)), nil
}

// IntervalErrorRate returns the fraction of test examples whose true value
// falls outside the predicted interval. intervals is n×2 as returned by
// Regressor.Predict.
func IntervalErrorRate(intervals *mat.Dense, y []float64) (float64, error) {
	const op = "IntervalErrorRate"
	n, cols := intervals.Dims()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty intervals")
	}
	if cols != 2 {
		return 0, errors.NewDimensionError(op, 2, cols, 1)
	}
	if len(y) != n {
		return 0, errors.NewDimensionError(op, n, len(y), 0)
	}

	var misses int
	for i := 0; i < n; i++ {
		if y[i] < intervals.At(i, 0) || y[i] > intervals.At(i, 1) {
			misses++
		}
	}
	return float64(misses) / float64(n), nil
}

// MeanIntervalSize returns the mean width of the predicted intervals.
func MeanIntervalSize(intervals *mat.Dense) (float64, error) {
	const op = "MeanIntervalSize"
	n, cols := intervals.Dims()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty intervals")
	}
	if cols != 2 {
		return 0, errors.NewDimensionError(op, 2, cols, 1)
	}

	var total float64
	for i := 0; i < n; i++ {
		total += intervals.At(i, 1) - intervals.At(i, 0)
	}
	return total / float64(n), nil
}
