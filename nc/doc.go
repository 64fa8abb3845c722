// Package nc defines the nonconformity scorer contract that the conformal
// predictors in package icp are polymorphic over, together with reference
// scorers for regression (absolute error over a point regressor) and
// classification (probability-deficiency over a probability estimator).
//
// A nonconformity score measures how atypical an (input, label) pair is
// relative to a fitted model; higher means more unusual. The conformal
// machinery never looks inside a score, it only ranks test scores against
// calibration scores.
package nc
