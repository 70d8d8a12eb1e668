package store

import (
	"context"
	"testing"
	"time"

	"leadsdash/internal/platform/logger"
	kit "leadsdash/internal/platform/testkit"
)

func nopLogger() logger.Logger { return logger.New(logger.Options{Level: "disabled", Format: "json"}) }

func TestOpenPG_GivesUpAfterRetries(t *testing.T) {
	kit.Serial(t)
	var slept []time.Duration
	kit.Swap(t, &sleep, func(d time.Duration) { slept = append(slept, d) })

	// nothing listens on port 1; each ping fails fast
	cfg := Config{PG: PGConfig{
		Enabled:        true,
		URL:            "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1",
		ConnectRetries: 4,
		PingTimeout:    time.Second,
	}}
	_, err := openPG(context.Background(), cfg, &Store{Log: nopLogger()})
	if err == nil {
		t.Fatalf("expected ping failure")
	}
	kit.MustContain(t, err.Error(), "after 4 attempts")
	want := []time.Duration{150 * time.Millisecond, 300 * time.Millisecond, 600 * time.Millisecond, 1200 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept %v", slept)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("backoff %d = %v want %v", i, slept[i], want[i])
		}
	}
}
