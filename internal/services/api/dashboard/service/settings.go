package service

import (
	"time"

	"leadsdash/internal/core/bucket"
	"leadsdash/internal/core/classify"
	"leadsdash/internal/platform/config"
)

// Settings are the defaults applied when a query leaves a value unset
type Settings struct {
	Threshold       int64
	TargetTotal     float64
	TargetConnected float64
	TargetRate      float64

	Loc       *time.Location
	DayLayout string

	// FetchTimeout bounds one join of the current and previous fetch; 0 disables it
	FetchTimeout time.Duration
}

// DefaultSettings is used for anything the environment does not set
func DefaultSettings() Settings {
	return Settings{
		Threshold:       classify.DefaultThreshold,
		TargetTotal:     100,
		TargetConnected: 50,
		TargetRate:      30,
		Loc:             time.UTC,
		DayLayout:       bucket.DefaultLabelLayout,
		FetchTimeout:    15 * time.Second,
	}
}

// SettingsFromConfig reads LEADS_* from cfg
func SettingsFromConfig(cfg config.Conf) Settings {
	d := DefaultSettings()
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		saoPaulo = d.Loc
	}
	return Settings{
		Threshold:       cfg.MayInt64("LEADS_DEFAULT_THRESHOLD", d.Threshold),
		TargetTotal:     cfg.MayFloat64("LEADS_TARGET_TOTAL", d.TargetTotal),
		TargetConnected: cfg.MayFloat64("LEADS_TARGET_CONNECTED", d.TargetConnected),
		TargetRate:      cfg.MayFloat64("LEADS_TARGET_RATE", d.TargetRate),
		Loc:             cfg.MayLocation("LEADS_TZ", saoPaulo),
		DayLayout:       cfg.MayString("LEADS_DAY_LAYOUT", d.DayLayout),
		FetchTimeout:    cfg.MayDuration("LEADS_FETCH_TIMEOUT", d.FetchTimeout),
	}
}

func (s Settings) keyer() bucket.Keyer { return bucket.NewKeyer(s.Loc, s.DayLayout) }
