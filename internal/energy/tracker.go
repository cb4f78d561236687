// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package energy accumulates per-inference energy figures for the session.
package energy

import (
	"sync"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// GpuBaselineMj is the assumed cost of one inference on a datacenter
	// GPU (NVIDIA A100 class). Savings are measured against it.
	GpuBaselineMj = 150.0

	// co2PerMjSaved converts saved millijoules to kilograms of CO2,
	// assuming a grid intensity of ~0.4 g per kJ.
	co2PerMjSaved = 0.0004 / 1000.0

	// usdPerKwh is a typical residential electricity price used for the
	// cost-saved figure.
	usdPerKwh = 0.15

	// mjPerKwh converts millijoules to kilowatt-hours.
	mjPerKwh = 3.6e9
)

// =============================================================================
// TRACKER
// =============================================================================

// Tracker accumulates energy figures for completed inferences. It backs
// the dashboard when the node's own report is unavailable, which is the
// case in demo mode, and is safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	start         time.Time
	inferences    int64
	tokens        int64
	totalEnergyMj float64
}

// NewTracker creates a tracker with the session start time.
func NewTracker(start time.Time) *Tracker {
	return &Tracker{start: start}
}

// RecordInference adds one completed generation to the running totals.
// Zero-energy records still count as inferences for the GPU comparison.
func (t *Tracker) RecordInference(tokens int, energyMj float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inferences++
	t.tokens += int64(tokens)
	if energyMj > 0 {
		t.totalEnergyMj += energyMj
	}
}

// Report derives the dashboard figures at the given instant.
func (t *Tracker) Report(now time.Time) Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := Report{
		TotalInferences:      t.inferences,
		TotalTokensGenerated: t.tokens,
		TotalEnergyMj:        t.totalEnergyMj,
		TotalEnergyKwh:       t.totalEnergyMj / mjPerKwh,
		SessionUptime:        now.Sub(t.start),
	}

	if t.tokens > 0 {
		r.AvgEnergyPerTokenMj = t.totalEnergyMj / float64(t.tokens)
	}

	baseline := float64(t.inferences) * GpuBaselineMj
	r.GpuBaselineMj = baseline
	if baseline > 0 {
		saved := baseline - t.totalEnergyMj
		if saved < 0 {
			saved = 0
		}
		r.EnergySavedMj = saved
		r.ReductionPercent = (1 - t.totalEnergyMj/baseline) * 100
		if r.ReductionPercent < 0 {
			r.ReductionPercent = 0
		}
		r.Co2SavedKg = saved * co2PerMjSaved
		r.CostSavedUsd = saved / mjPerKwh * usdPerKwh
	}

	return r
}

// Reset clears the totals and restarts the session clock.
func (t *Tracker) Reset(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = now
	t.inferences = 0
	t.tokens = 0
	t.totalEnergyMj = 0
}

// =============================================================================
// REPORT
// =============================================================================

// Report is a point-in-time snapshot of the session's energy accounting.
type Report struct {
	TotalInferences      int64
	TotalTokensGenerated int64
	TotalEnergyMj        float64
	TotalEnergyKwh       float64
	AvgEnergyPerTokenMj  float64
	SessionUptime        time.Duration

	// Comparison against centralized GPU inference
	GpuBaselineMj    float64
	EnergySavedMj    float64
	ReductionPercent float64
	Co2SavedKg       float64
	CostSavedUsd     float64
}
