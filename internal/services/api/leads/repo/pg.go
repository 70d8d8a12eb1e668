// Package repo reads the lead table from postgres
package repo

import (
	"context"

	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/store"
	pstrings "leadsdash/internal/platform/strings"
	dashdomain "leadsdash/internal/services/api/dashboard/domain"
	dashrepo "leadsdash/internal/services/api/dashboard/repo"
	"leadsdash/internal/services/api/leads/domain"
)

// PG binds the lead table to a postgres Queryer
type PG struct{ cols dashrepo.Columns }

// NewPG returns the binder for cols
func NewPG(cols dashrepo.Columns) PG { return PG{cols: cols} }

// Bind wires q to the repo
func (p PG) Bind(q repokit.Queryer) domain.LeadTable {
	return &pgTable{q: q, cols: p.cols}
}

type pgTable struct {
	q    repokit.Queryer
	cols dashrepo.Columns
}

func (r *pgTable) Rows(ctx context.Context, f domain.Filter) ([]map[string]any, error) {
	sql, args := r.cols.RowsQuery(dashdomain.Filter(f))
	return store.Many(ctx, r.q, scanJSON, sql, args...)
}

func (r *pgTable) AgentIDs(ctx context.Context) ([]string, error) {
	agent := "t." + dashrepo.Ident(r.cols.AgentID)
	sql := "select distinct " + agent + "::text from " + dashrepo.Ident(r.cols.Table) + " t where " + agent + " is not null"
	if r.cols.SoftDelete != "" {
		sql += " and t." + dashrepo.Ident(r.cols.SoftDelete) + " is null"
	}
	sql += " order by 1"
	ids, err := store.Many(ctx, r.q, scanText, sql)
	if err != nil {
		return nil, err
	}
	return pstrings.Compact(ids), nil
}

func scanJSON(row store.Row) (map[string]any, error) {
	var m map[string]any
	err := row.Scan(&m)
	return m, err
}

func scanText(row store.Row) (string, error) {
	var s string
	err := row.Scan(&s)
	return s, err
}
