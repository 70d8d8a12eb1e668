// Package domain holds the dashboard request and response shapes
package domain

import (
	"leadsdash/internal/core/bucket"
	"leadsdash/internal/core/metrics"
	"leadsdash/internal/core/target"
	"leadsdash/internal/core/trend"
	"leadsdash/internal/core/window"
)

// Query selects the leads one dashboard view aggregates
// Threshold and the targets fall back to the configured defaults when nil
type Query struct {
	window.Spec

	Agents    []string `json:"agents,omitempty"    validate:"omitempty,max=50,dive,series_key" example:"ana,bia"`
	Mode      string   `json:"mode,omitempty"      validate:"omitempty,oneof=total connected comparison"`
	Threshold *int64   `json:"threshold,omitempty" validate:"omitempty,min=0" example:"3"`

	TargetTotal     *float64 `json:"target_total,omitempty"     example:"100"`
	TargetConnected *float64 `json:"target_connected,omitempty" example:"50"`
	TargetRate      *float64 `json:"target_rate,omitempty"      validate:"omitempty,min=0,max=100" example:"30"`
}

// Trends compares each KPI against the previous window
type Trends struct {
	Total     trend.Result `json:"total"`
	Connected trend.Result `json:"connected"`
	Rate      trend.Result `json:"connectivity_rate"`
}

// Goals is progress toward the prorated targets
type Goals struct {
	Total     target.Goal `json:"total"`
	Connected target.Goal `json:"connected"`
	Rate      RateGoal    `json:"connectivity_rate"`
}

// RateGoal is the connectivity target; it is a percentage and is not prorated
type RateGoal struct {
	Target float64 `json:"target"`
	Met    bool    `json:"met"`
}

// Overview is everything the dashboard page renders
type Overview struct {
	Window         window.Window      `json:"window"`
	PreviousWindow *window.Window     `json:"previous_window,omitempty"`
	Mode           metrics.Mode       `json:"mode"`
	Threshold      int64              `json:"threshold"`
	Series         []bucket.DayBucket `json:"series"`
	Current        metrics.Snapshot   `json:"current"`
	Previous       metrics.Snapshot   `json:"previous"`
	Comparable     bool               `json:"comparable"`
	Trends         Trends             `json:"trends"`
	Goals          Goals              `json:"goals"`
	Skipped        int                `json:"skipped"`
}

// Series is the chart payload alone
type Series struct {
	Window  window.Window      `json:"window"`
	Mode    metrics.Mode       `json:"mode"`
	Keys    []string           `json:"keys"`
	Buckets []bucket.DayBucket `json:"buckets"`
	Skipped int                `json:"skipped"`
}

// KPIs is the scalar strip for both windows
type KPIs struct {
	Window     window.Window    `json:"window"`
	Current    metrics.Snapshot `json:"current"`
	Previous   metrics.Snapshot `json:"previous"`
	Comparable bool             `json:"comparable"`
}

// TrendInput is a raw current/previous pair
type TrendInput struct {
	Current  float64 `json:"current"  example:"12"`
	Previous float64 `json:"previous" example:"10"`
}

// TargetInput prorates a monthly target over a window
// Current, when set, also reports progress toward the prorated value
type TargetInput struct {
	window.Spec

	Monthly float64  `json:"monthly" example:"100"`
	Current *float64 `json:"current,omitempty" example:"40"`
}

// TargetOutput is the prorated target of one window
type TargetOutput struct {
	Window window.Window `json:"window"`
	Target int64         `json:"target"`
	Goal   *target.Goal  `json:"goal,omitempty"`
}
