// Package service pages and classifies the lead table
package service

import (
	"context"
	"sort"
	"time"

	"leadsdash/internal/core/classify"
	"leadsdash/internal/core/lead"
	"leadsdash/internal/core/window"
	"leadsdash/internal/platform/config"
	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/platform/logger"
	"leadsdash/internal/services/api/leads/domain"
)

// DefaultPageSize is used when a query leaves page_size unset
const DefaultPageSize = 10

// Settings are the table defaults
type Settings struct {
	Threshold    int64
	Loc          *time.Location
	Mapping      lead.Mapping
	AgentNames   map[string]string
	FetchTimeout time.Duration
}

// SettingsFromConfig reads LEADS_* from cfg
func SettingsFromConfig(cfg config.Conf, mapping lead.Mapping) Settings {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return Settings{
		Threshold:    cfg.MayInt64("LEADS_DEFAULT_THRESHOLD", classify.DefaultThreshold),
		Loc:          cfg.MayLocation("LEADS_TZ", loc),
		Mapping:      mapping,
		AgentNames:   cfg.MayMap("LEADS_AGENT_NAMES", nil),
		FetchTimeout: cfg.MayDuration("LEADS_FETCH_TIMEOUT", 15*time.Second),
	}
}

// Svc implements domain.ServicePort
type Svc struct {
	table domain.LeadTable
	set   Settings
	now   func() time.Time
}

// New constructs the service; clock may be nil
func New(table domain.LeadTable, set Settings, clock func() time.Time) *Svc {
	if table == nil {
		panic("leads.Service requires a non nil LeadTable")
	}
	if set.Loc == nil {
		set.Loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &Svc{table: table, set: set, now: clock}
}

// List returns one page of the filtered table, newest first
func (s *Svc) List(ctx context.Context, q domain.ListQuery) (domain.Page, error) {
	status, err := classify.ParseStatus(q.Status)
	if err != nil {
		return domain.Page{}, perr.InvalidArgf("%s", err.Error())
	}
	w, err := window.Resolve(q.Spec, s.now(), s.set.Loc)
	if err != nil {
		return domain.Page{}, err
	}
	threshold := s.set.Threshold
	if q.Threshold != nil {
		threshold = *q.Threshold
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	raws, err := s.table.Rows(ctx, domain.Filter{Start: w.Start, End: w.End, AgentIDs: q.Agents})
	if err != nil {
		err = perr.FetchFailed(err, "leads table")
		logger.C(ctx).Error().Err(err).Msg("lead table fetch failed")
		return domain.Page{}, err
	}

	rows := make([]domain.Row, 0, len(raws))
	for _, raw := range raws {
		rec := s.set.Mapping.Decode(raw)
		if !status.Match(rec.InteractionCount, threshold) {
			continue
		}
		p := lead.DecodeProfile(raw)
		rows = append(rows, domain.Row{
			ID:               rec.ID,
			CreatedAt:        rec.CreatedAt,
			AgentID:          rec.AgentID,
			AgentName:        s.agentName(rec.AgentID),
			InteractionCount: rec.InteractionCount,
			Connected:        classify.IsConnected(rec.InteractionCount, threshold),
			Name:             p.DisplayName(),
			Profile:          p,
		})
	}
	// the source orders already; rows with unusable timestamps sink to the end
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	out := domain.Page{Window: w, Total: len(rows), Page: page, PageSize: size, Items: []domain.Row{}}
	if from := (page - 1) * size; from < len(rows) {
		out.Items = rows[from:min(from+size, len(rows))]
	}
	return out, nil
}

// Agents lists every agent seen in the table plus the configured names
func (s *Svc) Agents(ctx context.Context) ([]domain.Agent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ids, err := s.table.AgentIDs(ctx)
	if err != nil {
		return nil, perr.FetchFailed(err, "leads table")
	}
	seen := make(map[string]bool, len(ids))
	out := make([]domain.Agent, 0, len(ids)+len(s.set.AgentNames))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, domain.Agent{ID: id, Name: s.agentName(id)})
	}
	for id, name := range s.set.AgentNames {
		if !seen[id] {
			out = append(out, domain.Agent{ID: id, Name: name})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Svc) agentName(id string) string {
	if n, ok := s.set.AgentNames[id]; ok && n != "" {
		return n
	}
	return id
}

func (s *Svc) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.set.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.set.FetchTimeout)
}
