// Package bucket builds the dense per-day skeleton the chart series is filled into
package bucket

import (
	"sort"
	"time"

	"leadsdash/internal/core/window"
)

// Series keys every bucket carries regardless of the agent selection
const (
	KeyTotal     = "total"
	KeyConnected = "connected"
)

// ConnectedSuffix turns an agent key into its connected-only series key
const ConnectedSuffix = "_connected"

// DefaultLabelLayout renders day labels as dd/mm
const DefaultLabelLayout = "02/01"

// ConnectedKey returns the connected-only series key for key
func ConnectedKey(key string) string { return key + ConnectedSuffix }

// Reserved reports whether key collides with a fixed series key
func Reserved(key string) bool { return key == KeyTotal || key == KeyConnected }

// DayBucket holds the counters of one calendar day
// Key is the display label and is not unique across years; Day is the ISO date
type DayBucket struct {
	Key    string           `json:"key"`
	Day    string           `json:"day"`
	Start  time.Time        `json:"start"`
	Counts map[string]int64 `json:"counts"`
}

// Keyer formats days; one Keyer must be used both to build the skeleton and to
// place records so they agree on calendar boundaries
type Keyer struct {
	Loc    *time.Location
	Layout string
}

// NewKeyer returns a Keyer with defaults for nil loc and empty layout
func NewKeyer(loc *time.Location, layout string) Keyer {
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = DefaultLabelLayout
	}
	return Keyer{Loc: loc, Layout: layout}
}

func (k Keyer) norm() Keyer { return NewKeyer(k.Loc, k.Layout) }

// Day returns the ISO date of t in the keyer's location
func (k Keyer) Day(t time.Time) string { return t.In(k.norm().Loc).Format(window.DayLayout) }

// Label returns the display label of t
func (k Keyer) Label(t time.Time) string {
	k = k.norm()
	return t.In(k.Loc).Format(k.Layout)
}

// Keys returns the full key set seeded into every bucket for seriesKeys
func Keys(seriesKeys []string) []string {
	out := make([]string, 0, 2*len(seriesKeys)+2)
	for _, s := range seriesKeys {
		out = append(out, s, ConnectedKey(s))
	}
	return append(out, KeyTotal, KeyConnected)
}

// Skeleton builds one zeroed bucket per calendar day in w, ordered by date
// An unbounded window must be resolved first; it yields no buckets
func Skeleton(w window.Window, seriesKeys []string, k Keyer) []DayBucket {
	if w.Unbounded || w.Start.IsZero() {
		return nil
	}
	k = k.norm()
	keys := Keys(seriesKeys)
	span := window.Window{Start: w.Start.In(k.Loc), End: w.End.In(k.Loc)}

	var out []DayBucket
	span.EachDay(func(d time.Time) {
		counts := make(map[string]int64, len(keys))
		for _, key := range keys {
			counts[key] = 0
		}
		out = append(out, DayBucket{
			Key:    k.Label(d),
			Day:    k.Day(d),
			Start:  d,
			Counts: counts,
		})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Index maps ISO day to bucket position
func Index(buckets []DayBucket) map[string]int {
	idx := make(map[string]int, len(buckets))
	for i, b := range buckets {
		idx[b.Day] = i
	}
	return idx
}
