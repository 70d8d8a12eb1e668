package modkit

import (
	"context"
	"testing"

	"leadsdash/internal/platform/config"
	"leadsdash/internal/platform/store"
)

type fakeCH struct{}

func (fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (fakeCH) Ping(context.Context) error                                { return nil }
func (fakeCH) Close() error                                              { return nil }

func TestFromStore(t *testing.T) {
	t.Parallel()

	if d := FromStore(nil, config.New()); d.PG != nil || d.CH != nil {
		t.Fatalf("nil store should give empty backends")
	}

	d := FromStore(&store.Store{CH: fakeCH{}}, config.New().Prefix("CORE_API_"))
	if d.CH == nil || d.PG != nil {
		t.Fatalf("backends not copied: %+v", d)
	}
	p := d.Pingers()
	if _, ok := p["ch"]; !ok {
		t.Fatalf("ch pinger missing")
	}
	if _, ok := p["pg"]; ok {
		t.Fatalf("pg pinger should be absent")
	}
}
