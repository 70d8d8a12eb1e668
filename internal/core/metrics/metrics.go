// Package metrics folds lead records into the chart series and KPI snapshots
package metrics

import (
	"fmt"
	"time"

	"leadsdash/internal/core/bucket"
	"leadsdash/internal/core/classify"
	"leadsdash/internal/core/lead"
	"leadsdash/internal/core/window"
)

// Mode selects which series a chart reads; all are always populated
type Mode string

const (
	ModeTotal      Mode = "total"
	ModeConnected  Mode = "connected"
	ModeComparison Mode = "comparison"
)

// ParseMode accepts an empty value as ModeTotal
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTotal:
		return ModeTotal, nil
	case ModeConnected, ModeComparison:
		return Mode(s), nil
	}
	return "", fmt.Errorf("metrics: unknown mode %q", s)
}

// Keys returns the series keys a chart in mode m plots for key
func (m Mode) Keys(key string) []string {
	switch m {
	case ModeConnected:
		return []string{bucket.ConnectedKey(key)}
	case ModeComparison:
		return []string{key, bucket.ConnectedKey(key)}
	}
	return []string{key}
}

// Snapshot is the KPI triple for one window
type Snapshot struct {
	Total            int64   `json:"total"`
	Connected        int64   `json:"connected"`
	ConnectivityRate float64 `json:"connectivity_rate"`
}

func (s *Snapshot) add(connected bool) {
	s.Total++
	if connected {
		s.Connected++
	}
}

func (s *Snapshot) finish() {
	s.ConnectivityRate = Rate(s.Connected, s.Total)
}

// Rate is connected/total as a percentage; 0 when total is 0
func Rate(connected, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(connected) / float64(total) * 100
}

// Input gathers everything one aggregation needs
// Leads belong to Window, Previous to Window.Previous(). Threshold is passed
// explicitly; there is no hidden default here
type Input struct {
	Leads      []lead.Record
	Previous   []lead.Record
	Window     window.Window
	SeriesKeys []string
	Threshold  int64
	Mode       Mode
	Keyer      bucket.Keyer
}

// Result is the engine output for one request
type Result struct {
	Window   window.Window      `json:"window"`
	Mode     Mode               `json:"mode"`
	Series   []bucket.DayBucket `json:"series"`
	Current  Snapshot           `json:"current"`
	Previous Snapshot           `json:"previous"`
	// Comparable is false for all-time selections; Previous is then zero
	Comparable bool `json:"comparable"`
	// Skipped counts current-window records that had no usable timestamp
	Skipped int `json:"skipped"`
}

// Aggregate builds the dense series and both snapshots in one pass per window
// An unbounded window is resolved against the earliest placeable lead first
func Aggregate(in Input) Result {
	w := in.Window
	if w.Unbounded {
		w = w.Resolved(Earliest(in.Leads))
	}
	keys := SeriesKeys(in.SeriesKeys)
	mode := in.Mode
	if mode == "" {
		mode = ModeTotal
	}

	series := bucket.Skeleton(w, keys, in.Keyer)
	idx := bucket.Index(series)
	selected := make(map[string]bool, len(keys))
	for _, k := range keys {
		selected[k] = true
	}

	res := Result{Window: w, Mode: mode, Series: series}
	for _, l := range in.Leads {
		if !l.Placeable() {
			res.Skipped++
			continue
		}
		if !w.Contains(l.CreatedAt) {
			continue
		}
		i, ok := idx[in.Keyer.Day(l.CreatedAt)]
		if !ok {
			continue
		}
		connected := classify.IsConnected(l.InteractionCount, in.Threshold)
		res.Current.add(connected)

		c := series[i].Counts
		c[bucket.KeyTotal]++
		if connected {
			c[bucket.KeyConnected]++
		}
		if l.HasAgent() && selected[l.AgentID] {
			c[l.AgentID]++
			if connected {
				c[bucket.ConnectedKey(l.AgentID)]++
			}
		}
	}
	res.Current.finish()

	// an all-time selection has nothing before it to compare against
	if !in.Window.Unbounded && w.HasPrevious() {
		res.Comparable = true
		res.Previous = KPIs(in.Previous, w.Previous(), in.Threshold)
	}
	return res
}

// KPIs computes the snapshot of leads that fall inside w
func KPIs(leads []lead.Record, w window.Window, threshold int64) Snapshot {
	var s Snapshot
	for _, l := range leads {
		if !l.Placeable() || !w.Contains(l.CreatedAt) {
			continue
		}
		s.add(classify.IsConnected(l.InteractionCount, threshold))
	}
	s.finish()
	return s
}

// ChartSeries is Aggregate restricted to the series
func ChartSeries(leads []lead.Record, w window.Window, seriesKeys []string, threshold int64, k bucket.Keyer) []bucket.DayBucket {
	return Aggregate(Input{Leads: leads, Window: w, SeriesKeys: seriesKeys, Threshold: threshold, Keyer: k}).Series
}

// Earliest returns the oldest placeable timestamp, zero if none
func Earliest(leads []lead.Record) time.Time {
	var min time.Time
	for _, l := range leads {
		if !l.Placeable() {
			continue
		}
		if min.IsZero() || l.CreatedAt.Before(min) {
			min = l.CreatedAt
		}
	}
	return min
}

// SeriesKeys drops blanks, duplicates and reserved names, keeping order
func SeriesKeys(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k == "" || bucket.Reserved(k) || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
