// Package model provides the shared estimator interfaces and lifecycle
// state management used by the conformal predictors and the point-predictors
// that back their nonconformity scorers.
package model

import "sync"

// StateManager tracks the lifecycle of a conformal predictor in a
// thread-safe manner. A predictor moves from unfitted, to fitted (the
// underlying scorer has been trained), to calibrated (a calibration score
// table exists). Prediction requires the calibrated state.
type StateManager struct {
	Fitted     bool // Public for gob encoding
	Calibrated bool
	mu         sync.RWMutex

	// Optional metadata - Public for gob encoding
	NFeatures int
	NSamples  int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the model as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
}

// IsCalibrated returns whether the model has been calibrated.
func (s *StateManager) IsCalibrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Calibrated
}

// SetCalibrated marks the model as calibrated.
func (s *StateManager) SetCalibrated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calibrated = true
}

// Reset returns the model to its unfitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.Calibrated = false
	s.NFeatures = 0
	s.NSamples = 0
}

// SetDimensions records the number of features and samples seen during
// fitting.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// GetDimensions returns the number of features and samples seen during
// fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}
