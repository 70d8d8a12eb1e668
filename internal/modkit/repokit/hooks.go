package repokit

import (
	"context"
	"fmt"
	"time"
)

// BeginHook runs first inside every transaction, on the tx bound querier
type BeginHook func(ctx context.Context, q RowQuerier) error

// WithBeginHooks wraps inner so hooks run before fn inside the same tx
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hookedTx{inner: inner, hooks: hooks}
}

type hookedTx struct {
	inner TxRunner
	hooks []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return h.inner.Tx(ctx, func(q RowQuerier) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

func (h hookedTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return h.inner.Exec(ctx, sql, args...)
}

func (h hookedTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return h.inner.Query(ctx, sql, args...)
}

func (h hookedTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return h.inner.QueryRow(ctx, sql, args...)
}

// StatementTimeout caps every statement of the tx; d <= 0 is a no-op
func StatementTimeout(d time.Duration) BeginHook {
	return func(ctx context.Context, q RowQuerier) error {
		if d <= 0 {
			return nil
		}
		_, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds()))
		return err
	}
}

// ReadOnly marks the tx read only
func ReadOnly() BeginHook {
	return func(ctx context.Context, q RowQuerier) error {
		_, err := q.Exec(ctx, "SET TRANSACTION READ ONLY")
		return err
	}
}
