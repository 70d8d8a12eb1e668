package modkit

import (
	"leadsdash/internal/platform/config"
	"leadsdash/internal/platform/logger"
	"leadsdash/internal/platform/store"
)

// Deps holds the shared dependencies every module is built from
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
	CH  store.Clickhouse
}

// FromStore copies the backends of st into Deps
func FromStore(st *store.Store, cfg config.Conf) Deps {
	d := Deps{Cfg: cfg}
	if st == nil {
		return d
	}
	d.Log = st.Log
	d.PG = st.PG
	d.CH = st.CH
	return d
}

// Pingers returns the enabled backends keyed pg and ch
func (d Deps) Pingers() map[string]store.Pinger {
	out := map[string]store.Pinger{}
	if p, ok := d.PG.(store.Pinger); ok {
		out["pg"] = p
	}
	if p, ok := d.CH.(store.Pinger); ok {
		out["ch"] = p
	}
	return out
}
