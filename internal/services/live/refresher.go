// Package live recomputes the dashboard when the lead table changes and keeps
// the latest result for clients to poll
package live

import (
	"context"
	"sync"
	"time"

	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/platform/logger"

	"github.com/google/uuid"
)

// ComputeFunc produces one snapshot payload; it must honor ctx cancellation
type ComputeFunc func(ctx context.Context) (any, error)

// Snapshot is one published refresh
// A failed refresh is published too, with Error set and no Data, so clients
// never keep showing numbers the source could not confirm
type Snapshot struct {
	ID         uuid.UUID  `json:"id"`
	Generation uint64     `json:"generation"`
	Reason     string     `json:"reason,omitempty"`
	ComputedAt time.Time  `json:"computed_at"`
	Data       any        `json:"data,omitempty"`
	Error      *perr.Wire `json:"error,omitempty"`
}

// Refresher runs ComputeFunc on every Trigger; a newer trigger cancels the run
// in flight and only the latest generation is ever published
type Refresher struct {
	compute ComputeFunc
	timeout time.Duration
	now     func() time.Time
	log     *logger.Logger
	hooks   []func(Snapshot)

	base   context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	latest *Snapshot
	closed bool
}

// Option configures a Refresher
type Option func(*Refresher)

// WithTimeout bounds a single run; 0 disables the bound
func WithTimeout(d time.Duration) Option { return func(r *Refresher) { r.timeout = d } }

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(r *Refresher) { r.now = now } }

// WithPublish adds a hook called with every published snapshot
func WithPublish(fn func(Snapshot)) Option {
	return func(r *Refresher) { r.hooks = append(r.hooks, fn) }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(r *Refresher) { r.log = l } }

// NewRefresher builds a Refresher; nothing runs until Trigger
func NewRefresher(compute ComputeFunc, opts ...Option) *Refresher {
	if compute == nil {
		panic("live.Refresher requires a ComputeFunc")
	}
	r := &Refresher{compute: compute, now: time.Now, log: logger.Named("live")}
	for _, o := range opts {
		o(r)
	}
	r.base, r.stop = context.WithCancel(context.Background())
	return r
}

// Trigger starts a new run and cancels the previous one
func (r *Refresher) Trigger(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(r.base, r.timeout)
	} else {
		ctx, cancel = context.WithCancel(r.base)
	}
	r.cancel = cancel

	gen := r.gen
	r.wg.Add(1)
	go r.run(ctx, cancel, gen, reason)
}

func (r *Refresher) run(ctx context.Context, cancel context.CancelFunc, gen uint64, reason string) {
	defer r.wg.Done()
	defer cancel()

	started := r.now()
	data, err := r.compute(ctx)

	r.mu.Lock()
	if gen != r.gen || r.closed {
		r.mu.Unlock()
		r.log.Debug().Uint64("generation", gen).Msg("superseded refresh dropped")
		return
	}
	snap := Snapshot{ID: uuid.New(), Generation: gen, Reason: reason, ComputedAt: r.now()}
	if err != nil {
		w := perr.WireFrom(err)
		snap.Error = &w
	} else {
		snap.Data = data
	}
	r.latest = &snap
	hooks := append([]func(Snapshot){}, r.hooks...)
	r.mu.Unlock()

	ev := r.log.Info()
	if err != nil {
		ev = r.log.Warn().Err(err)
	}
	ev.Uint64("generation", gen).Str("reason", reason).Dur("took", r.now().Sub(started)).Msg("live snapshot published")

	for _, h := range hooks {
		h(snap)
	}
}

// Latest returns the newest published snapshot
func (r *Refresher) Latest() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return Snapshot{}, false
	}
	return *r.latest, true
}

// Generation is the number of triggers accepted so far
func (r *Refresher) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Close cancels any run in flight and waits for it; later triggers are ignored
func (r *Refresher) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.stop()
	r.wg.Wait()
}
