// Package pg opens the pgx pool and holds the LISTEN loop
package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures pgxpool for pg
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
	AppName  string
}

// PG is a postgres client with pool and optional tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// Notification is one NOTIFY delivery
type Notification struct {
	Channel string
	Payload string
	PID     uint32
}

var newPool = pgxpool.NewWithConfig // seam

// Open creates the pool; poolCfgMut may adjust the parsed config before connect
func Open(ctx context.Context, cfg Config, tracer QueryTracer, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Listen takes one connection out of the pool, issues LISTEN channel and calls
// fn for each notification until ctx is done. The connection is closed, not
// returned, so no pooled session keeps listening
// A cancelled ctx ends the loop with a nil error
func (p *PG) Listen(ctx context.Context, channel string, fn func(Notification)) error {
	if p == nil || p.Pool == nil {
		return errors.New("pg: listen on closed client")
	}
	pc, err := p.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	conn := pc.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		return err
	}
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fn(Notification{Channel: n.Channel, Payload: n.Payload, PID: n.PID})
	}
}
