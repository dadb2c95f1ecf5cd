// Package config loads the staircase tuning file. All rule constants
// (initial estimate, step size, clamp bounds, multipliers, rounding
// precisions, median window) are named values here so the validation rule can
// be tuned or tested with alternative parameters without code changes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/staircase"
)

// Tuning is the JSON schema of the staircase tuning file. Every field is a
// pointer so partial configs are safe: omitted fields keep the production
// defaults from staircase.DefaultParams.
type Tuning struct {
	InitialEstimate  *float64 `json:"initial_estimate,omitempty"`
	Step             *float64 `json:"step,omitempty"`
	ClampLow         *float64 `json:"clamp_low,omitempty"`
	ClampHigh        *float64 `json:"clamp_high,omitempty"`
	LowMultiplier    *float64 `json:"low_multiplier,omitempty"`
	HighMultiplier   *float64 `json:"high_multiplier,omitempty"`
	EstimateDecimals *int     `json:"estimate_decimals,omitempty"`
	PairDecimals     *int     `json:"pair_decimals,omitempty"`
	Epsilon          *float64 `json:"epsilon,omitempty"`
	MedianWindow     *int     `json:"median_window,omitempty"`
}

// LoadTuning loads a tuning file. The path must have a .json extension and
// stay under the size cap; both checks guard against pointing the flag at the
// wrong file.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var t Tuning
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	return &t, nil
}

// Validate rejects tunings that would make the rule degenerate.
func (t *Tuning) Validate() error {
	if t.Step != nil && *t.Step <= 0 {
		return fmt.Errorf("step must be positive, got %g", *t.Step)
	}
	if t.InitialEstimate != nil && *t.InitialEstimate <= 0 {
		return fmt.Errorf("initial_estimate must be positive, got %g", *t.InitialEstimate)
	}
	if t.ClampLow != nil && t.ClampHigh != nil && *t.ClampLow >= *t.ClampHigh {
		return fmt.Errorf("clamp_low %g must be below clamp_high %g", *t.ClampLow, *t.ClampHigh)
	}
	if t.EstimateDecimals != nil && (*t.EstimateDecimals < 0 || *t.EstimateDecimals > 10) {
		return fmt.Errorf("estimate_decimals out of range: %d", *t.EstimateDecimals)
	}
	if t.PairDecimals != nil && (*t.PairDecimals < 0 || *t.PairDecimals > 10) {
		return fmt.Errorf("pair_decimals out of range: %d", *t.PairDecimals)
	}
	if t.Epsilon != nil && *t.Epsilon < 0 {
		return fmt.Errorf("epsilon must be non-negative, got %g", *t.Epsilon)
	}
	if t.MedianWindow != nil && *t.MedianWindow < 0 {
		return fmt.Errorf("median_window must be non-negative, got %d", *t.MedianWindow)
	}
	return nil
}

// Params merges the tuning over the production defaults.
func (t *Tuning) Params() staircase.Params {
	p := staircase.DefaultParams()
	if t == nil {
		return p
	}
	if t.InitialEstimate != nil {
		p.InitialEstimate = *t.InitialEstimate
	}
	if t.Step != nil {
		p.Step = *t.Step
	}
	if t.ClampLow != nil {
		p.ClampLow = *t.ClampLow
	}
	if t.ClampHigh != nil {
		p.ClampHigh = *t.ClampHigh
	}
	if t.LowMultiplier != nil {
		p.LowMultiplier = *t.LowMultiplier
	}
	if t.HighMultiplier != nil {
		p.HighMultiplier = *t.HighMultiplier
	}
	if t.EstimateDecimals != nil {
		p.EstimateDecimals = *t.EstimateDecimals
	}
	if t.PairDecimals != nil {
		p.PairDecimals = *t.PairDecimals
	}
	if t.Epsilon != nil {
		p.Epsilon = *t.Epsilon
	}
	if t.MedianWindow != nil {
		p.MedianWindow = *t.MedianWindow
	}
	return p
}
