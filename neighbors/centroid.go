// Package neighbors provides a nearest-centroid classifier that estimates
// class probabilities, the built-in probability estimator behind the
// classification nonconformity scorers. Any model.ProbabilityEstimator
// works in its place.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/core/model"
	"github.com/MartinLindh/nonconformist/pkg/errors"
)

// NearestCentroid classifies by distance to per-class centroids and turns
// the negated distances into probabilities with a softmax.
type NearestCentroid struct {
	state *model.StateManager

	classes   []float64
	centroids *mat.Dense // one row per class, in classes order
}

// NewNearestCentroid creates an unfitted nearest-centroid classifier.
func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{state: model.NewStateManager()}
}

// Fit computes the centroid of each class.
func (n *NearestCentroid) Fit(X, y mat.Matrix) error {
	const op = "NearestCentroid.Fit"
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewValueError(op, "empty training data")
	}
	ry, cy := y.Dims()
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if ry != rows {
		return errors.NewDimensionError(op, rows, ry, 0)
	}

	sums := make(map[float64][]float64)
	counts := make(map[float64]int)
	for i := 0; i < rows; i++ {
		label := y.At(i, 0)
		sum, ok := sums[label]
		if !ok {
			sum = make([]float64, cols)
			sums[label] = sum
		}
		for j := 0; j < cols; j++ {
			sum[j] += X.At(i, j)
		}
		counts[label]++
	}

	n.classes = make([]float64, 0, len(sums))
	for label := range sums {
		n.classes = append(n.classes, label)
	}
	sort.Float64s(n.classes)

	n.centroids = mat.NewDense(len(n.classes), cols, nil)
	for k, label := range n.classes {
		sum := sums[label]
		count := float64(counts[label])
		for j := 0; j < cols; j++ {
			n.centroids.Set(k, j, sum[j]/count)
		}
	}

	n.state.SetDimensions(cols, rows)
	n.state.SetFitted()
	return nil
}

// Classes returns the distinct labels seen during fitting, ascending.
func (n *NearestCentroid) Classes() []float64 {
	return append([]float64(nil), n.classes...)
}

// PredictProba returns softmax(-distance to centroid) per class.
func (n *NearestCentroid) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	const op = "NearestCentroid.PredictProba"
	if !n.state.IsFitted() {
		return nil, errors.NewNotFittedError("NearestCentroid", "PredictProba")
	}
	rows, cols := X.Dims()
	if nFeatures, _ := n.state.GetDimensions(); cols != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, cols, 1)
	}

	k := len(n.classes)
	proba := mat.NewDense(rows, k, nil)
	for i := 0; i < rows; i++ {
		logits := make([]float64, k)
		maxLogit := math.Inf(-1)
		for c := 0; c < k; c++ {
			var dist float64
			for j := 0; j < cols; j++ {
				d := X.At(i, j) - n.centroids.At(c, j)
				dist += d * d
			}
			logits[c] = -math.Sqrt(dist)
			if logits[c] > maxLogit {
				maxLogit = logits[c]
			}
		}

		var norm float64
		for c := 0; c < k; c++ {
			logits[c] = math.Exp(logits[c] - maxLogit)
			norm += logits[c]
		}
		for c := 0; c < k; c++ {
			proba.Set(i, c, logits[c]/norm)
		}
	}
	return proba, nil
}

// Predict returns an n×1 matrix of most-probable labels.
func (n *NearestCentroid) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := n.PredictProba(X)
	if err != nil {
		return nil, err
	}

	rows, k := proba.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		best := 0
		for c := 1; c < k; c++ {
			if proba.At(i, c) > proba.At(i, best) {
				best = c
			}
		}
		out.Set(i, 0, n.classes[best])
	}
	return out, nil
}
