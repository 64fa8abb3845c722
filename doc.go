// Package nonconformist provides inductive conformal prediction for Go:
// a model-agnostic calibration layer that turns the predictions of any
// point-predictor into prediction sets (classification) or intervals
// (regression) with a finite-sample marginal coverage guarantee at a
// user-chosen significance level.
//
// # Packages
//
//   - icp: the conformal predictors (Classifier, Regressor) and their
//     fit/calibrate/predict lifecycle, including Mondrian (conditional)
//     calibration and incremental recalibration.
//   - nc: the nonconformity scorer contract, plus reference scorers built
//     on absolute regression error and class-probability deficiency.
//   - linear, neighbors: small built-in point-predictors so the library is
//     usable end to end without external models.
//   - metrics: validity (error rate) and efficiency (set size, interval
//     width) measures for conformal output.
//
// # Quick start
//
//	scorer := nc.NewRegressorNC(linear.NewRidge(), nc.AbsError{})
//	reg := icp.NewRegressor(scorer)
//
//	if err := reg.Fit(xTrain, yTrain); err != nil {
//	    // ...
//	}
//	if err := reg.Calibrate(xCal, yCal, false); err != nil {
//	    // ...
//	}
//	intervals, err := reg.Predict(xTest, 0.1) // 90% coverage
//
// The engine only consumes nonconformity scores; plug in any model by
// implementing nc.Scorer (classification) or nc.IntervalScorer
// (regression).
package nonconformist
