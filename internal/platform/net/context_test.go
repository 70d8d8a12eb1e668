package net

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Fatalf("RequestID = %q", got)
	}
}

func TestRequestIDEmpty(t *testing.T) {
	base := context.Background()
	if WithRequestID(base, "") != base {
		t.Fatalf("empty id should return the same context")
	}
	if got := RequestID(base); got != "" {
		t.Fatalf("RequestID = %q, want empty", got)
	}
	//nolint:staticcheck // nil context is tolerated
	if got := RequestID(nil); got != "" {
		t.Fatalf("nil ctx gave %q", got)
	}
}
