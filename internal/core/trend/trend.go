// Package trend compares a value against the one from the preceding window
package trend

import "math"

// Direction of change
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// Result is an unsigned percent change plus its direction
type Result struct {
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
}

// Compute returns the change from previous to current
// A zero previous reports 100 toward the sign of current, or 0 flat when both are zero
func Compute(current, previous float64) Result {
	if previous == 0 {
		switch {
		case current > 0:
			return Result{Percent: 100, Direction: Up}
		case current < 0:
			return Result{Percent: 100, Direction: Down}
		}
		return Result{Direction: Flat}
	}
	r := Result{Percent: math.Abs((current - previous) / previous * 100), Direction: Flat}
	switch {
	case current > previous:
		r.Direction = Up
	case current < previous:
		r.Direction = Down
	}
	return r
}

// Counts is Compute for integer KPIs
func Counts(current, previous int64) Result {
	return Compute(float64(current), float64(previous))
}
