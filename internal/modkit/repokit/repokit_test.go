package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"leadsdash/internal/platform/store"
	kit "leadsdash/internal/platform/testkit"
)

type fakeTx struct {
	execs []string
	fail  string
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.fail != "" && strings.Contains(sql, f.fail) {
		return nil, errors.New("exec failed")
	}
	return nil, nil
}
func (f *fakeTx) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...any) store.Row        { return nil }
func (f *fakeTx) Tx(ctx context.Context, fn func(store.RowQuerier) error) error {
	f.execs = append(f.execs, "BEGIN")
	return fn(f)
}

func TestBinder(t *testing.T) {
	t.Parallel()

	b := BindFunc[string](func(Queryer) string { return "ok" })
	if got := MustBind[string](b, &fakeTx{}); got != "ok" {
		t.Fatalf("MustBind = %q", got)
	}
	kit.MustPanic(t, func() { _ = MustBind[string](b, nil) })
}

func TestWithBeginHooks_RunsHooksInOrder(t *testing.T) {
	t.Parallel()

	inner := &fakeTx{}
	tx := WithBeginHooks(inner, ReadOnly(), StatementTimeout(1500*time.Millisecond), StatementTimeout(0))

	ran := false
	err := WithTx(context.Background(), tx, func(q RowQuerier) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("tx: err=%v ran=%v", err, ran)
	}
	want := []string{"BEGIN", "SET TRANSACTION READ ONLY", "SET LOCAL statement_timeout = 1500"}
	if strings.Join(inner.execs, "|") != strings.Join(want, "|") {
		t.Fatalf("execs = %q", inner.execs)
	}
}

func TestWithBeginHooks_HookErrorStopsFn(t *testing.T) {
	t.Parallel()

	inner := &fakeTx{fail: "statement_timeout"}
	tx := WithBeginHooks(inner, StatementTimeout(time.Second))
	err := tx.Tx(context.Background(), func(RowQuerier) error {
		t.Fatal("fn must not run after a failed hook")
		return nil
	})
	if err == nil {
		t.Fatal("expected hook error")
	}

	// non tx calls pass straight through
	if _, err := tx.Exec(context.Background(), "select 1"); err != nil {
		t.Fatalf("exec: %v", err)
	}
}

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	return p.err
}

type guardFn func(context.Context) error

func (g guardFn) Guard(ctx context.Context) error { return g(ctx) }

func TestPing(t *testing.T) {
	t.Parallel()

	if err := Ping(context.Background(), "pg", nil, time.Second); err == nil || !strings.Contains(err.Error(), "pg: nil dependency") {
		t.Fatalf("nil: %v", err)
	}
	if err := Ping(context.Background(), "pg", pinger{}, time.Second); err != nil {
		t.Fatalf("ok: %v", err)
	}
	err := Ping(context.Background(), "ch", pinger{err: errors.New("refused")}, time.Second)
	if err == nil || !strings.Contains(err.Error(), "ch ping failed: refused") {
		t.Fatalf("fail: %v", err)
	}
}

func TestMustGuard(t *testing.T) {
	t.Parallel()

	kit.MustNotPanic(t, func() { MustGuard(context.Background(), guardFn(func(context.Context) error { return nil })) })
	kit.MustPanic(t, func() {
		MustGuard(context.Background(), guardFn(func(context.Context) error { return errors.New("pg: down") }))
	})
}
