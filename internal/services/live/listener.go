package live

import (
	"context"
	"math/rand"
	"time"

	"leadsdash/internal/platform/logger"
	"leadsdash/internal/platform/store"
)

// Triggerer is what a Listener drives
type Triggerer interface {
	Trigger(reason string)
}

// Listener turns NOTIFY payloads on Channel into refresh triggers and keeps the
// LISTEN connection alive with capped exponential backoff
type Listener struct {
	Source  store.Listener
	Channel string
	Target  Triggerer

	RetryBase time.Duration // <=0 -> 500ms
	RetryMax  time.Duration // <=0 -> 30s
	Log       *logger.Logger
}

// Run triggers once, then listens until ctx is done
// Every reconnect triggers again since notifications sent while disconnected are lost
func (l *Listener) Run(ctx context.Context) error {
	log := l.Log
	if log == nil {
		log = logger.Named("live")
	}
	base, maxWait := l.RetryBase, l.RetryMax
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	if maxWait <= 0 {
		maxWait = 30 * time.Second
	}

	l.Target.Trigger("startup")
	for attempt := 0; ; attempt++ {
		started := time.Now()
		err := l.Source.Listen(ctx, l.Channel, func(payload string) {
			l.Target.Trigger(reasonOf(payload))
		})
		if ctx.Err() != nil {
			return nil
		}
		// a connection that lived a while starts the backoff over
		if time.Since(started) > maxWait {
			attempt = 0
		}
		d := min(base<<min(attempt, 16), maxWait)
		d = d/2 + time.Duration(rand.Int63n(int64(d/2)+1))
		log.Warn().Err(err).Str("channel", l.Channel).Dur("retry_in", d).Msg("listen connection lost")
		if sleepCtx(ctx, d) != nil {
			return nil
		}
		l.Target.Trigger("reconnect")
	}
}

func reasonOf(payload string) string {
	if payload == "" {
		return "notify"
	}
	return "notify:" + payload
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
