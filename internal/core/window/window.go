// Package window resolves a user range selection into a concrete time window
// and derives the equal-length window that precedes it
package window

import (
	"strconv"
	"strings"
	"time"

	perr "leadsdash/internal/platform/errors"
)

// Tick is the resolution of window bounds; End is inclusive at this precision
const Tick = time.Millisecond

// FallbackDays is the length used for an all-time window with no records
const FallbackDays = 30

// DayLayout is the wire format of explicit range bounds
const DayLayout = "2006-01-02"

// Preset names a relative range
type Preset string

const (
	Last7   Preset = "7d"
	Last15  Preset = "15d"
	Last30  Preset = "30d"
	Last60  Preset = "60d"
	Last90  Preset = "90d"
	AllTime Preset = "all"
)

// Presets lists the accepted relative ranges
var Presets = []Preset{Last7, Last15, Last30, Last60, Last90, AllTime}

// Days returns the number of days a relative preset looks back; 0 for all-time
func (p Preset) Days() (int, bool) {
	switch p {
	case AllTime:
		return 0, true
	case Last7, Last15, Last30, Last60, Last90:
		n, err := strconv.Atoi(strings.TrimSuffix(string(p), "d"))
		return n, err == nil
	}
	return 0, false
}

// Spec is a range selection: either a Preset or an explicit From/To day pair
type Spec struct {
	Preset Preset `json:"preset,omitempty" validate:"omitempty,oneof=7d 15d 30d 60d 90d all"`
	From   string `json:"from,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	To     string `json:"to,omitempty"     validate:"omitempty,datetime=2006-01-02"`
}

// IsZero reports an empty selection
func (s Spec) IsZero() bool { return s.Preset == "" && s.From == "" && s.To == "" }

// Window is a resolved [Start, End] interval, End inclusive
// Unbounded marks an all-time window whose Start is not known until records are seen
type Window struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Unbounded bool      `json:"unbounded,omitempty"`
}

// Resolve turns spec into a Window relative to now, interpreting days in loc
// Presets cover whole days, from the start of the day N days back to the end of
// today. An empty spec resolves to the last 30 days
func Resolve(spec Spec, now time.Time, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	if spec.From != "" || spec.To != "" {
		if spec.Preset != "" {
			return Window{}, perr.InvalidArgf("range: preset and from/to are mutually exclusive")
		}
		return explicit(spec, loc)
	}

	p := spec.Preset
	if p == "" {
		p = Last30
	}
	days, ok := p.Days()
	if !ok {
		return Window{}, perr.WithField(perr.InvalidArgf("range: unknown preset %q", p), "preset")
	}
	if p == AllTime {
		return Window{End: now, Unbounded: true}, nil
	}
	return Window{Start: StartOfDay(now.AddDate(0, 0, -days)), End: EndOfDay(now)}, nil
}

func explicit(spec Spec, loc *time.Location) (Window, error) {
	if spec.From == "" {
		return Window{}, perr.WithField(perr.InvalidArgf("range: to without from"), "from")
	}
	from, err := time.ParseInLocation(DayLayout, spec.From, loc)
	if err != nil {
		return Window{}, perr.WithField(perr.InvalidArgf("range: bad from %q", spec.From), "from")
	}
	to := from
	if spec.To != "" {
		if to, err = time.ParseInLocation(DayLayout, spec.To, loc); err != nil {
			return Window{}, perr.WithField(perr.InvalidArgf("range: bad to %q", spec.To), "to")
		}
	}
	if to.Before(from) {
		return Window{}, perr.WithField(perr.InvalidArgf("range: from %s is after to %s", spec.From, spec.To), "to")
	}
	return Window{Start: StartOfDay(from), End: EndOfDay(to)}, nil
}

// Location returns the zone the window was resolved in
func (w Window) Location() *time.Location { return w.End.Location() }

// DurationDays is the number of calendar days the window touches
func (w Window) DurationDays() int {
	if w.Unbounded || w.Start.IsZero() {
		return 0
	}
	return DaysBetween(w.Start, w.End) + 1
}

// Previous is the window of the same calendar length ending one Tick before
// w.Start. An unbounded window has no predecessor and gives the zero Window
func (w Window) Previous() Window {
	d := w.DurationDays()
	if d == 0 {
		return Window{}
	}
	return Window{Start: StartOfDay(w.Start.AddDate(0, 0, -d)), End: w.Start.Add(-Tick)}
}

// HasPrevious reports whether a comparison window exists
func (w Window) HasPrevious() bool { return w.DurationDays() > 0 }

// Contains reports whether t falls inside [Start, End]; an unbounded window
// only checks the end
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() || t.After(w.End) {
		return false
	}
	return w.Unbounded || !t.Before(w.Start)
}

// Resolved fills in an unbounded start with the day of earliest, or with
// FallbackDays before End when no record was seen
func (w Window) Resolved(earliest time.Time) Window {
	if !w.Unbounded {
		return w
	}
	loc := w.Location()
	if earliest.IsZero() || earliest.After(w.End) {
		return Window{Start: StartOfDay(w.End.AddDate(0, 0, -FallbackDays)), End: w.End}
	}
	return Window{Start: StartOfDay(earliest.In(loc)), End: w.End}
}

// StartOfDay is 00:00:00.000 of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last Tick of t's day in t's location
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-Tick)
}

// DaysBetween counts calendar days from a's day to b's day in a's location
// DST shifts do not change the result
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// DaysInMonth returns the number of days in t's month
func DaysInMonth(t time.Time) int {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EachDay calls fn with the start of every calendar day in [w.Start, w.End]
func (w Window) EachDay(fn func(day time.Time)) {
	if w.Start.IsZero() || w.End.Before(w.Start) {
		return
	}
	loc := w.Start.Location()
	end := StartOfDay(w.End.In(loc))
	for d := StartOfDay(w.Start); !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
