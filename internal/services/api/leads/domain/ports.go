package domain

import (
	"context"
	"time"
)

// Filter narrows the rows a LeadTable returns
type Filter struct {
	Start, End time.Time
	AgentIDs   []string
}

// LeadTable is the storage port for the lead table
// Rows come back newest first as loosely shaped column maps
type LeadTable interface {
	Rows(ctx context.Context, f Filter) ([]map[string]any, error)
	AgentIDs(ctx context.Context) ([]string, error)
}

// ServicePort is the contract other modules can depend on
type ServicePort interface {
	List(ctx context.Context, q ListQuery) (Page, error)
	Agents(ctx context.Context) ([]Agent, error)
}
