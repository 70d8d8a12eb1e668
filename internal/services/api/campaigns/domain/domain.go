// Package domain holds the campaign summary shapes and ports
package domain

import "context"

// MaxRows caps how many recent log rows a summary reads
const MaxRows = 500

// Query narrows the summary to campaigns whose name contains Search,
// ignoring case and accents
type Query struct {
	Search string `json:"search,omitempty" validate:"omitempty,max=200" example:"black friday"`
	Limit  int    `json:"limit,omitempty"  validate:"omitempty,min=1,max=500" example:"500"`
}

// Count is one campaign and how many log rows carried it
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the campaign breakdown of the recent log rows
type Summary struct {
	Rows      int     `json:"rows"`
	Matched   int     `json:"matched"`
	Campaigns []Count `json:"campaigns"`
}

// LogSource reads the newest campaign log rows
type LogSource interface {
	Recent(ctx context.Context, limit int) ([]map[string]any, error)
}

// ServicePort is the campaigns contract
type ServicePort interface {
	Summary(ctx context.Context, q Query) (Summary, error)
}
