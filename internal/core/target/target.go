// Package target prorates monthly goals over arbitrary day ranges
package target

import (
	"math"
	"time"

	"leadsdash/internal/core/window"
)

// Proportional distributes monthly over the days of w, each day weighing
// 1/daysInMonth of its own month, and rounds the sum
// A non-positive target gives 0; a window without a start gives round(monthly)
func Proportional(monthly float64, w window.Window) int64 {
	if monthly <= 0 || math.IsNaN(monthly) || math.IsInf(monthly, 0) {
		return 0
	}
	if w.Unbounded || w.Start.IsZero() {
		return int64(math.Round(monthly))
	}
	var acc float64
	w.EachDay(func(d time.Time) {
		acc += monthly / float64(window.DaysInMonth(d))
	})
	return int64(math.Round(acc))
}

// Goal is progress toward a target
type Goal struct {
	Target  int64   `json:"target"`
	Percent float64 `json:"percent"`
	Met     bool    `json:"met"`
}

// Progress reports current against goal; a goal of 0 or less is never met
func Progress(current float64, goal int64) Goal {
	g := Goal{Target: goal}
	if goal <= 0 {
		return g
	}
	g.Percent = current / float64(goal) * 100
	g.Met = g.Percent >= 100
	return g
}
