package nc

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MartinLindh/nonconformist/core/model"
	"github.com/MartinLindh/nonconformist/pkg/errors"
)

// DeficiencyFunc maps a row of class probabilities and the index of the
// candidate class to a nonconformity score. Higher = more atypical.
type DeficiencyFunc func(probs []float64, classIdx int) float64

// InverseProbability scores a candidate label by 1 - P(label | x).
func InverseProbability(probs []float64, classIdx int) float64 {
	return 1 - probs[classIdx]
}

// Margin scores a candidate label by how much the most likely competing
// label outweighs it: 0.5 - (P(label|x) - max P(other|x)) / 2, mapped into
// [0, 1].
func Margin(probs []float64, classIdx int) float64 {
	maxOther := 0.0
	for i, p := range probs {
		if i != classIdx && p > maxOther {
			maxOther = p
		}
	}
	return 0.5 - (probs[classIdx]-maxOther)/2
}

// ClassifierNC computes nonconformity scores for classification problems
// from the class-probability estimates of a wrapped classifier.
type ClassifierNC struct {
	est        model.ProbabilityEstimator
	deficiency DeficiencyFunc
}

// NewClassifierNC creates a classification nonconformity scorer around a
// probability estimator and a deficiency function.
func NewClassifierNC(est model.ProbabilityEstimator, deficiency DeficiencyFunc) *ClassifierNC {
	return &ClassifierNC{est: est, deficiency: deficiency}
}

// Fit trains the underlying probability estimator.
func (c *ClassifierNC) Fit(X, y mat.Matrix) error {
	return c.est.Fit(X, y)
}

// Scores returns the deficiency of each (x, y) pair under the fitted
// estimator. A label the estimator never saw during fitting is an error.
func (c *ClassifierNC) Scores(X, y mat.Matrix) ([]float64, error) {
	proba, err := c.est.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	labels, err := columnVector("ClassifierNC.Scores", y, n)
	if err != nil {
		return nil, err
	}

	classes := c.est.Classes()
	scores := make([]float64, n)
	for i, label := range labels {
		idx := classIndex(classes, label)
		if idx < 0 {
			return nil, errors.NewUnknownLabelError("ClassifierNC.Scores", label)
		}
		scores[i] = c.deficiency(proba.RawRowView(i), idx)
	}
	return scores, nil
}

// Clone returns a new wrapper with the same configuration. The wrapped
// estimator is shared.
func (c *ClassifierNC) Clone() Scorer {
	return &ClassifierNC{est: c.est, deficiency: c.deficiency}
}

// classIndex finds label in the ascending classes slice, or -1.
func classIndex(classes []float64, label float64) int {
	for i, c := range classes {
		if c == label {
			return i
		}
	}
	return -1
}
