// Package service summarizes campaign logs
package service

import (
	"context"
	"sort"

	"leadsdash/internal/core/campaign"
	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/platform/logger"
	"leadsdash/internal/services/api/campaigns/domain"
)

// Svc implements domain.ServicePort
type Svc struct{ src domain.LogSource }

// New constructs the service
func New(src domain.LogSource) *Svc {
	if src == nil {
		panic("campaigns.Service requires a non nil LogSource")
	}
	return &Svc{src: src}
}

// Summary counts the recent log rows per campaign display name, most used first
func (s *Svc) Summary(ctx context.Context, q domain.Query) (domain.Summary, error) {
	limit := q.Limit
	if limit <= 0 || limit > domain.MaxRows {
		limit = domain.MaxRows
	}
	rows, err := s.src.Recent(ctx, limit)
	if err != nil {
		err = perr.FetchFailed(err, "campaign logs")
		logger.C(ctx).Error().Err(err).Msg("campaign log fetch failed")
		return domain.Summary{}, err
	}

	counts := map[string]int{}
	out := domain.Summary{Rows: len(rows), Campaigns: []domain.Count{}}
	for _, r := range rows {
		name := campaign.ExtractName(campaign.FromRow(r))
		if !campaign.Matches(name, q.Search) {
			continue
		}
		out.Matched++
		counts[name]++
	}
	for name, n := range counts {
		out.Campaigns = append(out.Campaigns, domain.Count{Name: name, Count: n})
	}
	sort.Slice(out.Campaigns, func(i, j int) bool {
		a, b := out.Campaigns[i], out.Campaigns[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	return out, nil
}
