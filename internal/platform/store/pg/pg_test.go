package pg

import (
	"context"
	"errors"
	"testing"

	kit "leadsdash/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db"}, nil, nil); err == nil {
		t.Fatalf("expected newPool error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	kit.Serial(t)
	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil // zero pool, never closed
	})

	cfg := Config{URL: "postgres://u:p@h:5432/db?sslmode=disable", MaxConns: 7, SlowMs: 250, AppName: "leadsdash-api"}
	mutated := false
	p, err := Open(context.Background(), cfg, nil, func(*pgxpool.Config) { mutated = true })
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !mutated {
		t.Fatalf("pool mutator not called")
	}
	if seen.MaxConns != 7 {
		t.Fatalf("MaxConns = %d", seen.MaxConns)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "leadsdash-api" {
		t.Fatalf("application_name = %q", got)
	}
	if p.SlowMs != 250 {
		t.Fatalf("SlowMs = %d", p.SlowMs)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}

func TestListen_ClosedClient(t *testing.T) {
	var p *PG
	if err := p.Listen(context.Background(), "leads_changed", func(Notification) {}); err == nil {
		t.Fatalf("expected error on nil client")
	}
}
