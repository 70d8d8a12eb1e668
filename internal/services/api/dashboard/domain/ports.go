package domain

import (
	"context"
	"time"

	"leadsdash/internal/core/lead"
	"leadsdash/internal/core/trend"
)

// Filter is what a lead source is asked for; Start is zero for an all-time fetch
// An empty AgentIDs means every agent
type Filter struct {
	Start    time.Time
	End      time.Time
	AgentIDs []string
}

// LeadSource fetches lead records; errors are reported as is, never replaced
// with empty or cached data
type LeadSource interface {
	FetchLeads(ctx context.Context, f Filter) ([]lead.Record, error)
}

// ServicePort is consumed by the handlers and by the live refresher
type ServicePort interface {
	Overview(ctx context.Context, q Query) (Overview, error)
	Series(ctx context.Context, q Query) (Series, error)
	KPIs(ctx context.Context, q Query) (KPIs, error)
	Trend(in TrendInput) trend.Result
	Target(in TargetInput) (TargetOutput, error)
}
