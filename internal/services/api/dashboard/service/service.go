// Package service runs dashboard aggregations over a lead source
package service

import (
	"context"
	"time"

	"leadsdash/internal/core/lead"
	"leadsdash/internal/core/metrics"
	"leadsdash/internal/core/target"
	"leadsdash/internal/core/trend"
	"leadsdash/internal/core/window"
	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/platform/logger"
	"leadsdash/internal/services/api/dashboard/domain"

	"golang.org/x/sync/errgroup"
)

// Service is the dashboard contract
type Service interface {
	domain.ServicePort
}

// Svc implements Service
type Svc struct {
	src  domain.LeadSource
	set  Settings
	name string

	now func() time.Time
}

// Option tunes a Svc
type Option func(*Svc)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithSourceName labels fetch errors, e.g. pg or ch
func WithSourceName(name string) Option { return func(s *Svc) { s.name = name } }

// New constructs a dashboard service
func New(src domain.LeadSource, set Settings, opts ...Option) *Svc {
	if src == nil {
		panic("dashboard.Service requires a non nil LeadSource")
	}
	if set.Loc == nil {
		set.Loc = time.UTC
	}
	s := &Svc{src: src, set: set, name: "leads", now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Overview aggregates the query's window, compares it with the window before
// and reports progress toward the prorated targets
func (s *Svc) Overview(ctx context.Context, q domain.Query) (domain.Overview, error) {
	res, threshold, err := s.aggregate(ctx, q)
	if err != nil {
		return domain.Overview{}, err
	}

	out := domain.Overview{
		Window:     res.Window,
		Mode:       res.Mode,
		Threshold:  threshold,
		Series:     res.Series,
		Current:    res.Current,
		Previous:   res.Previous,
		Comparable: res.Comparable,
		Skipped:    res.Skipped,
	}
	if res.Comparable {
		prev := res.Window.Previous()
		out.PreviousWindow = &prev
		out.Trends = domain.Trends{
			Total:     trend.Counts(res.Current.Total, res.Previous.Total),
			Connected: trend.Counts(res.Current.Connected, res.Previous.Connected),
			Rate:      trend.Compute(res.Current.ConnectivityRate, res.Previous.ConnectivityRate),
		}
	} else {
		flat := trend.Result{Direction: trend.Flat}
		out.Trends = domain.Trends{Total: flat, Connected: flat, Rate: flat}
	}

	totalGoal := target.Proportional(orDefault(q.TargetTotal, s.set.TargetTotal), res.Window)
	connGoal := target.Proportional(orDefault(q.TargetConnected, s.set.TargetConnected), res.Window)
	rate := orDefault(q.TargetRate, s.set.TargetRate)
	out.Goals = domain.Goals{
		Total:     target.Progress(float64(res.Current.Total), totalGoal),
		Connected: target.Progress(float64(res.Current.Connected), connGoal),
		Rate:      domain.RateGoal{Target: rate, Met: rate > 0 && res.Current.ConnectivityRate >= rate},
	}
	return out, nil
}

// Series returns the dense chart series
func (s *Svc) Series(ctx context.Context, q domain.Query) (domain.Series, error) {
	res, _, err := s.aggregate(ctx, q)
	if err != nil {
		return domain.Series{}, err
	}
	keys := []string{}
	for _, k := range metrics.SeriesKeys(q.Agents) {
		keys = append(keys, res.Mode.Keys(k)...)
	}
	return domain.Series{Window: res.Window, Mode: res.Mode, Keys: keys, Buckets: res.Series, Skipped: res.Skipped}, nil
}

// KPIs returns the current and previous snapshots
func (s *Svc) KPIs(ctx context.Context, q domain.Query) (domain.KPIs, error) {
	res, _, err := s.aggregate(ctx, q)
	if err != nil {
		return domain.KPIs{}, err
	}
	return domain.KPIs{Window: res.Window, Current: res.Current, Previous: res.Previous, Comparable: res.Comparable}, nil
}

// Trend compares a raw pair
func (s *Svc) Trend(in domain.TrendInput) trend.Result {
	return trend.Compute(in.Current, in.Previous)
}

// Target prorates in.Monthly over the resolved window
// An all-time selection has no known start here, so the monthly value is returned
func (s *Svc) Target(in domain.TargetInput) (domain.TargetOutput, error) {
	w, err := window.Resolve(in.Spec, s.now(), s.set.Loc)
	if err != nil {
		return domain.TargetOutput{}, err
	}
	out := domain.TargetOutput{Window: w, Target: target.Proportional(in.Monthly, w)}
	if in.Current != nil {
		g := target.Progress(*in.Current, out.Target)
		out.Goal = &g
	}
	return out, nil
}

// aggregate resolves the window, fetches both windows concurrently and runs the engine
func (s *Svc) aggregate(ctx context.Context, q domain.Query) (metrics.Result, int64, error) {
	mode, err := metrics.ParseMode(q.Mode)
	if err != nil {
		return metrics.Result{}, 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, err.Error())
	}
	w, err := window.Resolve(q.Spec, s.now(), s.set.Loc)
	if err != nil {
		return metrics.Result{}, 0, err
	}
	threshold := s.set.Threshold
	if q.Threshold != nil {
		threshold = *q.Threshold
	}

	cur, prev, err := s.fetch(ctx, w, q.Agents)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("source", s.name).Time("start", w.Start).Time("end", w.End).Msg("lead fetch failed")
		return metrics.Result{}, 0, err
	}

	res := metrics.Aggregate(metrics.Input{
		Leads:      cur,
		Previous:   prev,
		Window:     w,
		SeriesKeys: q.Agents,
		Threshold:  threshold,
		Mode:       mode,
		Keyer:      s.set.keyer(),
	})
	if res.Skipped > 0 {
		logger.C(ctx).Warn().Int("skipped", res.Skipped).Str("source", s.name).Msg("leads without a usable timestamp")
	}
	return res, threshold, nil
}

// fetch issues the current and previous fetches together and waits for both
// An all-time window has no previous fetch
func (s *Svc) fetch(ctx context.Context, w window.Window, agents []string) (cur, prev []lead.Record, err error) {
	if s.set.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.set.FetchTimeout)
		defer cancel()
	}
	agents = metrics.SeriesKeys(agents)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = s.src.FetchLeads(gctx, domain.Filter{Start: w.Start, End: w.End, AgentIDs: agents})
		return perr.FetchFailed(err, s.name)
	})
	if !w.Unbounded && w.HasPrevious() {
		pw := w.Previous()
		g.Go(func() error {
			var err error
			prev, err = s.src.FetchLeads(gctx, domain.Filter{Start: pw.Start, End: pw.End, AgentIDs: agents})
			return perr.FetchFailed(err, s.name)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return cur, prev, nil
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
