// Package repo reads lead records from postgres or clickhouse
package repo

import (
	"fmt"
	"strings"

	"leadsdash/internal/core/lead"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/config"
	"leadsdash/internal/services/api/dashboard/domain"

	"github.com/jackc/pgx/v5"
)

// Source names a lead backend
type Source string

const (
	SourcePG Source = "pg"
	SourceCH Source = "ch"
)

// Columns configures where lead fields live in the source table
type Columns struct {
	Table      string
	CreatedAt  string
	AgentID    string
	Count      string
	ID         string
	SoftDelete string // empty when rows are never soft deleted
	Mapping    lead.Mapping
}

// ColumnsFromConfig reads LEADS_TABLE and LEADS_COL_* from cfg
// Configured column names are tried before the built-in aliases
func ColumnsFromConfig(cfg config.Conf, tableKey, defTable string) Columns {
	c := Columns{
		Table:      cfg.MayString(tableKey, defTable),
		ID:         cfg.MayString("LEADS_COL_ID", "id"),
		CreatedAt:  cfg.MayString("LEADS_COL_CREATED_AT", "created_at"),
		AgentID:    cfg.MayString("LEADS_COL_AGENT", lead.DefaultMapping.AgentID[0]),
		Count:      cfg.MayString("LEADS_COL_COUNT", lead.DefaultMapping.InteractionCount[0]),
		SoftDelete: cfg.MayString("LEADS_SOFT_DELETE_COL", ""),
	}
	c.Mapping = lead.Mapping{
		ID:               []string{c.ID},
		CreatedAt:        []string{c.CreatedAt},
		AgentID:          prepend(c.AgentID, lead.DefaultMapping.AgentID),
		InteractionCount: prepend(c.Count, lead.DefaultMapping.InteractionCount),
	}
	return c
}

func prepend(first string, rest []string) []string {
	out := []string{first}
	for _, r := range rest {
		if r != first {
			out = append(out, r)
		}
	}
	return out
}

// Ident quotes a possibly schema qualified identifier for postgres
func Ident(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// chIdent quotes an identifier for clickhouse
func chIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// New returns the binder for src
func New(src Source, cols Columns) (repokit.Binder[domain.LeadSource], error) {
	switch src {
	case SourcePG:
		return PG{cols: cols}, nil
	case SourceCH:
		return CH{cols: cols}, nil
	}
	return nil, fmt.Errorf("dashboard repo: unknown lead source %q", src)
}
