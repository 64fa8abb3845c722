package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on input/label pairs. y is an n×1 column vector.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that produce point predictions.
type Predictor interface {
	// Predict returns an n×1 matrix of point predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Model is the basic interface for supervised point-predictors.
type Model interface {
	Fitter
	Predictor
}

// ProbabilityEstimator is the interface for classifiers that estimate class
// membership probabilities. Classifier nonconformity scorers are defined in
// terms of these probabilities.
type ProbabilityEstimator interface {
	Fitter

	// PredictProba returns an n×k matrix of class probabilities, with
	// columns ordered like Classes().
	PredictProba(X mat.Matrix) (*mat.Dense, error)

	// Classes returns the distinct labels seen during fitting, in
	// ascending order.
	Classes() []float64
}
