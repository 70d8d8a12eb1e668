// Package repo reads campaign logs from postgres
package repo

import (
	"context"
	"strings"

	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/store"
	"leadsdash/internal/services/api/campaigns/domain"

	"github.com/jackc/pgx/v5"
)

// PG binds the log source to a postgres Queryer
type PG struct {
	Table     string
	CreatedAt string
}

// Bind wires q to the repo
func (p PG) Bind(q repokit.Queryer) domain.LogSource {
	return &pgLogs{q: q, sql: p.query()}
}

func (p PG) query() string {
	table := pgx.Identifier(strings.Split(p.Table, ".")).Sanitize()
	created := pgx.Identifier{p.CreatedAt}.Sanitize()
	return "select t.* from " + table + " t order by t." + created + " desc nulls last limit $1"
}

type pgLogs struct {
	q   repokit.Queryer
	sql string
}

func (r *pgLogs) Recent(ctx context.Context, limit int) ([]map[string]any, error) {
	return store.Maps(ctx, r.q, r.sql, limit)
}
