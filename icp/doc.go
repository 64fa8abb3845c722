// Package icp implements inductive conformal prediction: a calibration
// layer that turns the nonconformity scores of a wrapped point-predictor
// into prediction sets (classification) or intervals (regression) with
// finite-sample marginal coverage at a caller-chosen significance level.
//
// The lifecycle is Fit (train the nonconformity scorer), Calibrate (store
// calibration examples and build the per-category score table), Predict.
// Calibrate may be called again at any time, either replacing the
// calibration set or, with increment=true, appending to it.
//
// Mondrian (conditional) prediction is supported through a condition
// function that maps each example to a category; calibration scores are
// kept per category and every quantile computation is restricted to the
// test example's own category.
//
// Predictor instances are not safe for concurrent use; callers must
// serialize access if an instance is shared across goroutines.
package icp
