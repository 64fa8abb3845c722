// Package errors provides the error types used throughout the nonconformist
// library. The types mirror the failure modes of the conformal prediction
// lifecycle (fit, calibrate, predict) and carry enough structure for callers
// to branch on them with errors.As. All constructors attach a stack trace via
// cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Lifecycle errors
//
// ===========================================================================

// NotFittedError is returned when Calibrate or Predict is called on a
// predictor whose underlying nonconformity scorer has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("nonconformist: %s: not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with an attached stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// NotCalibratedError is returned when Predict is called on a predictor that
// has been fitted but never calibrated. A conformal predictor has no
// calibration scores to rank against until Calibrate has been called.
type NotCalibratedError struct {
	ModelName string
	Method    string
}

func (e *NotCalibratedError) Error() string {
	return fmt.Sprintf("nonconformist: %s: not calibrated yet. Call Calibrate() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NotCalibratedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotCalibratedError")
}

// NewNotCalibratedError creates a NotCalibratedError with an attached stack trace.
func NewNotCalibratedError(modelName, method string) error {
	err := &NotCalibratedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Input validation errors
//
// ===========================================================================

// DimensionError is returned when the dimensions of an input matrix do not
// match what the model expects, e.g. incremental calibration data whose
// feature count differs from the stored calibration set.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("nonconformist: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with an attached stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a caller-supplied parameter fails
// validation, e.g. a significance level outside the open interval (0, 1).
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("nonconformist: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with an attached stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when the value of an argument is malformed in a way
// not covered by a more specific error type.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("nonconformist: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with an attached stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Conformal prediction errors
//
// ===========================================================================

// UnknownCategoryError is returned by Mondrian (conditional) predictors when
// a test example maps to a category that was never observed during
// calibration. Such an example has no calibration score set to rank against,
// so no valid p-value or interval can be produced for it.
type UnknownCategoryError struct {
	Op       string
	Category int
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("nonconformist: %s: category %d was never seen during calibration", e.Op, e.Category)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *UnknownCategoryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("category", e.Category).
		Str("type", "UnknownCategoryError")
}

// NewUnknownCategoryError creates an UnknownCategoryError with an attached
// stack trace.
func NewUnknownCategoryError(op string, category int) error {
	err := &UnknownCategoryError{Op: op, Category: category}
	return errors.WithStack(err)
}

// UnknownLabelError is returned by classifier nonconformity scorers when a
// label has no corresponding class in the fitted point-predictor.
type UnknownLabelError struct {
	Op    string
	Label float64
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("nonconformist: %s: label %v is not among the fitted classes", e.Op, e.Label)
}

// NewUnknownLabelError creates an UnknownLabelError with an attached stack trace.
func NewUnknownLabelError(op string, label float64) error {
	err := &UnknownLabelError{Op: op, Label: label}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}
