package metrics

import (
	"math/rand"
	"testing"
	"time"

	"leadsdash/internal/core/bucket"
	"leadsdash/internal/core/lead"
	"leadsdash/internal/core/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now   = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	keyer = bucket.NewKeyer(time.UTC, "")
)

func day(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }

func mustWindow(t *testing.T, s window.Spec) window.Window {
	t.Helper()
	w, err := window.Resolve(s, now, time.UTC)
	require.NoError(t, err)
	return w
}

func TestAggregateWorkedExample(t *testing.T) {
	w := mustWindow(t, window.Spec{From: "2024-03-01", To: "2024-03-03"})
	leads := []lead.Record{
		{ID: "1", CreatedAt: day(1, 9), AgentID: "ana", InteractionCount: 5},
		{ID: "2", CreatedAt: day(1, 15), AgentID: "bia", InteractionCount: 3},
		{ID: "3", CreatedAt: day(3, 10), AgentID: "ana", InteractionCount: 0},
	}

	res := Aggregate(Input{Leads: leads, Window: w, SeriesKeys: []string{"ana"}, Threshold: 3, Keyer: keyer})

	require.Len(t, res.Series, 3)
	d1, d2, d3 := res.Series[0].Counts, res.Series[1].Counts, res.Series[2].Counts
	assert.Equal(t, int64(2), d1["total"])
	assert.Equal(t, int64(1), d1["connected"])
	assert.Equal(t, int64(1), d1["ana"])
	assert.Equal(t, int64(1), d1["ana_connected"])
	assert.Equal(t, map[string]int64{"ana": 0, "ana_connected": 0, "total": 0, "connected": 0}, d2)
	assert.Equal(t, int64(1), d3["total"])
	assert.Equal(t, int64(0), d3["connected"])

	assert.Equal(t, int64(3), res.Current.Total)
	assert.Equal(t, int64(1), res.Current.Connected)
	assert.InDelta(t, 33.333, res.Current.ConnectivityRate, 0.01)
	assert.Equal(t, ModeTotal, res.Mode)
	assert.Equal(t, Snapshot{}, res.Previous)
}

func TestAggregateEmptyInput(t *testing.T) {
	w := mustWindow(t, window.Spec{Preset: window.Last7})
	res := Aggregate(Input{Window: w, Threshold: 3, Keyer: keyer})

	assert.Len(t, res.Series, w.DurationDays())
	for _, b := range res.Series {
		assert.Equal(t, int64(0), b.Counts["total"])
		assert.Equal(t, int64(0), b.Counts["connected"])
	}
	assert.Equal(t, Snapshot{}, res.Current)
}

func TestAggregateSkipsMalformedAndOutOfWindow(t *testing.T) {
	w := mustWindow(t, window.Spec{From: "2024-03-01", To: "2024-03-02"})
	leads := []lead.Record{
		{ID: "bad", InteractionCount: 9},
		{ID: "early", CreatedAt: day(1, 0).Add(-time.Millisecond)},
		{ID: "late", CreatedAt: day(3, 0)},
		{ID: "ok", CreatedAt: day(2, 23), InteractionCount: 4},
	}
	res := Aggregate(Input{Leads: leads, Window: w, Threshold: 3, Keyer: keyer})
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, int64(1), res.Current.Total)
	assert.Equal(t, int64(1), res.Series[1].Counts["connected"])
}

func TestAggregatePreviousWindow(t *testing.T) {
	w := mustWindow(t, window.Spec{From: "2024-03-08", To: "2024-03-14"})
	prev := []lead.Record{
		{CreatedAt: day(1, 10), InteractionCount: 10},
		{CreatedAt: day(7, 23), InteractionCount: 0},
		{CreatedAt: day(8, 1), InteractionCount: 10}, // belongs to the current window
	}
	res := Aggregate(Input{Window: w, Previous: prev, Threshold: 3, Keyer: keyer})
	assert.True(t, res.Comparable)
	assert.Equal(t, Snapshot{Total: 2, Connected: 1, ConnectivityRate: 50}, res.Previous)
}

func TestAggregatePresetLeadBeforeStartCountsAsPrevious(t *testing.T) {
	w := mustWindow(t, window.Spec{Preset: window.Last7})
	edge := []lead.Record{
		{ID: "before", CreatedAt: w.Start.Add(-window.Tick), InteractionCount: 4},
		{ID: "first", CreatedAt: w.Start},
	}
	res := Aggregate(Input{Leads: edge, Previous: edge, Window: w, Threshold: 3, Keyer: keyer})
	assert.Equal(t, Snapshot{Total: 1, Connected: 0, ConnectivityRate: 0}, res.Current)
	assert.Equal(t, Snapshot{Total: 1, Connected: 1, ConnectivityRate: 100}, res.Previous)
	assert.Equal(t, int64(1), res.Series[0].Counts["total"])
}

func TestAggregateAllTime(t *testing.T) {
	w := mustWindow(t, window.Spec{Preset: window.AllTime})
	leads := []lead.Record{
		{CreatedAt: day(18, 10)},
		{CreatedAt: day(15, 10), InteractionCount: 8},
	}
	res := Aggregate(Input{Leads: leads, Window: w, Threshold: 3, Keyer: keyer})
	assert.False(t, res.Window.Unbounded)
	assert.Equal(t, day(15, 0), res.Window.Start)
	assert.Len(t, res.Series, 6)
	assert.Equal(t, int64(2), res.Current.Total)
	assert.False(t, res.Comparable)
	assert.Equal(t, Snapshot{}, res.Previous)

	empty := Aggregate(Input{Window: w, Threshold: 3, Keyer: keyer})
	assert.Len(t, empty.Series, window.FallbackDays+1)
}

func TestAgentSeriesOnlyForSelectedKeys(t *testing.T) {
	w := mustWindow(t, window.Spec{From: "2024-03-01"})
	leads := []lead.Record{
		{CreatedAt: day(1, 1), AgentID: "ana", InteractionCount: 4},
		{CreatedAt: day(1, 2), AgentID: "caio", InteractionCount: 4},
		{CreatedAt: day(1, 3)},
	}
	res := Aggregate(Input{Leads: leads, Window: w, SeriesKeys: []string{"ana", "ana", "total", ""}, Threshold: 3, Keyer: keyer})
	c := res.Series[0].Counts
	assert.Len(t, c, 4)
	assert.Equal(t, int64(1), c["ana"])
	assert.NotContains(t, c, "caio")
	assert.Equal(t, int64(3), c["total"])
	assert.Equal(t, int64(2), c["connected"])
}

func TestConservationAndNoGaps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	agents := []string{"ana", "bia", "caio"}

	for iter := 0; iter < 50; iter++ {
		from := day(1+rng.Intn(10), 0)
		to := from.AddDate(0, 0, rng.Intn(20))
		w := mustWindow(t, window.Spec{From: from.Format(window.DayLayout), To: to.Format(window.DayLayout)})

		var leads []lead.Record
		for i := 0; i < rng.Intn(200); i++ {
			leads = append(leads, lead.Record{
				CreatedAt:        from.AddDate(0, 0, -2).Add(time.Duration(rng.Int63n(int64(25 * 24 * time.Hour)))),
				AgentID:          agents[rng.Intn(len(agents))],
				InteractionCount: rng.Int63n(8),
			})
		}
		res := Aggregate(Input{Leads: leads, Window: w, SeriesKeys: agents, Threshold: 3, Keyer: keyer})

		require.Len(t, res.Series, w.DurationDays())
		var total, connected, perAgent int64
		for i, b := range res.Series {
			if i > 0 {
				require.Equal(t, res.Series[i-1].Start.AddDate(0, 0, 1), b.Start)
			}
			total += b.Counts["total"]
			connected += b.Counts["connected"]
			for _, a := range agents {
				perAgent += b.Counts[a]
			}
		}
		assert.Equal(t, res.Current.Total, total)
		assert.Equal(t, res.Current.Connected, connected)
		assert.Equal(t, total, perAgent)
		assert.GreaterOrEqual(t, res.Current.ConnectivityRate, 0.0)
		assert.LessOrEqual(t, res.Current.ConnectivityRate, 100.0)
	}
}

func TestKPIsAndRate(t *testing.T) {
	w := mustWindow(t, window.Spec{From: "2024-03-01", To: "2024-03-31"})
	assert.Equal(t, Snapshot{}, KPIs(nil, w, 3))
	assert.Equal(t, 0.0, Rate(5, 0))
	assert.Equal(t, 25.0, Rate(1, 4))

	s := KPIs([]lead.Record{{CreatedAt: day(2, 0), InteractionCount: 4}, {CreatedAt: day(2, 0), InteractionCount: 4}}, w, 3)
	assert.Equal(t, Snapshot{Total: 2, Connected: 2, ConnectivityRate: 100}, s)
}

func TestChartSeries(t *testing.T) {
	w := mustWindow(t, window.Spec{From: "2024-03-01", To: "2024-03-02"})
	got := ChartSeries([]lead.Record{{CreatedAt: day(2, 5), AgentID: "ana"}}, w, []string{"ana"}, 3, keyer)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[1].Counts["ana"])
	assert.Equal(t, int64(0), got[1].Counts["ana_connected"])
}

func TestModes(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeTotal, "connected": ModeConnected, "comparison": ModeComparison} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("stacked")
	assert.Error(t, err)

	assert.Equal(t, []string{"ana"}, ModeTotal.Keys("ana"))
	assert.Equal(t, []string{"ana_connected"}, ModeConnected.Keys("ana"))
	assert.Equal(t, []string{"ana", "ana_connected"}, ModeComparison.Keys("ana"))
}

func TestEarliest(t *testing.T) {
	assert.True(t, Earliest(nil).IsZero())
	got := Earliest([]lead.Record{{CreatedAt: day(5, 0)}, {}, {CreatedAt: day(2, 0)}})
	assert.Equal(t, day(2, 0), got)
}
