package service

import (
	"testing"
	"time"

	"leadsdash/internal/platform/config"
)

func TestSettingsFromConfig(t *testing.T) {
	t.Setenv("LEADS_DEFAULT_THRESHOLD", "5")
	t.Setenv("LEADS_TARGET_TOTAL", "250.5")
	t.Setenv("LEADS_TZ", "UTC")
	t.Setenv("LEADS_FETCH_TIMEOUT", "3s")

	s := SettingsFromConfig(config.New())
	if s.Threshold != 5 || s.TargetTotal != 250.5 || s.FetchTimeout != 3*time.Second {
		t.Fatalf("settings = %+v", s)
	}
	if s.Loc != time.UTC {
		t.Fatalf("loc = %v", s.Loc)
	}
	if s.TargetConnected != 50 || s.TargetRate != 30 || s.DayLayout != "02/01" {
		t.Fatalf("defaults not kept: %+v", s)
	}
}

func TestSettingsDefaultZone(t *testing.T) {
	s := SettingsFromConfig(config.New().Prefix("NOPE_"))
	if _, err := time.LoadLocation("America/Sao_Paulo"); err == nil && s.Loc.String() != "America/Sao_Paulo" {
		t.Fatalf("loc = %v", s.Loc)
	}
}
