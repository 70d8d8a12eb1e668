// Package domain holds the lead table shapes
package domain

import (
	"time"

	"leadsdash/internal/core/lead"
	"leadsdash/internal/core/window"
)

// ListQuery selects one page of the lead table
type ListQuery struct {
	window.Spec

	Agents    []string `json:"agents,omitempty"    validate:"omitempty,max=50,dive,required,max=128"`
	Status    string   `json:"status,omitempty"    validate:"omitempty,oneof=all connected cold"`
	Threshold *int64   `json:"threshold,omitempty" validate:"omitempty,min=0" example:"3"`
	Page      int      `json:"page,omitempty"      validate:"omitempty,min=1" example:"1"`
	PageSize  int      `json:"page_size,omitempty" validate:"omitempty,min=1,max=100" example:"10"`
}

// Row is one lead as the table shows it
type Row struct {
	ID               string       `json:"id"`
	CreatedAt        time.Time    `json:"created_at"`
	AgentID          string       `json:"agent_id,omitempty"`
	AgentName        string       `json:"agent_name,omitempty"`
	InteractionCount int64        `json:"interaction_count"`
	Connected        bool         `json:"connected"`
	Name             string       `json:"name"`
	Profile          lead.Profile `json:"profile"`
}

// Agent is a selectable agent
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one page of rows plus the filtered total
type Page struct {
	Window   window.Window `json:"window"`
	Items    []Row         `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
