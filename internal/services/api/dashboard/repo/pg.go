package repo

import (
	"context"
	"strconv"
	"strings"

	"leadsdash/internal/core/lead"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/store"
	"leadsdash/internal/services/api/dashboard/domain"
)

// PG binds the lead source to a postgres Queryer
type PG struct{ cols Columns }

// Bind wires q to the repo; a TxRunner q runs each fetch in its own tx so
// begin hooks apply
func (p PG) Bind(q repokit.Queryer) domain.LeadSource {
	return &pgLeads{q: q, cols: p.cols}
}

type pgLeads struct {
	q    repokit.Queryer
	cols Columns
}

// FetchLeads reads whole rows as jsonb so the mapping decides which columns matter
func (r *pgLeads) FetchLeads(ctx context.Context, f domain.Filter) ([]lead.Record, error) {
	sql, args := r.cols.RowsQuery(f)
	var raws []map[string]any
	fetch := func(q repokit.Queryer) error {
		var err error
		raws, err = store.Many(ctx, q, scanJSON, sql, args...)
		return err
	}
	if tx, ok := r.q.(repokit.TxRunner); ok {
		if err := tx.Tx(ctx, func(q repokit.RowQuerier) error { return fetch(q) }); err != nil {
			return nil, err
		}
	} else if err := fetch(r.q); err != nil {
		return nil, err
	}
	return r.cols.Mapping.DecodeAll(raws), nil
}

// RowsQuery selects whole lead rows as jsonb, newest first, restricted by f
func (c Columns) RowsQuery(f domain.Filter) (string, []any) {
	created := "t." + Ident(c.CreatedAt)
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if !f.Start.IsZero() {
		where = append(where, created+" >= "+arg(f.Start))
	}
	if !f.End.IsZero() {
		where = append(where, created+" <= "+arg(f.End))
	}
	if len(f.AgentIDs) > 0 {
		where = append(where, "t."+Ident(c.AgentID)+"::text = any("+arg(f.AgentIDs)+")")
	}
	if c.SoftDelete != "" {
		where = append(where, "t."+Ident(c.SoftDelete)+" is null")
	}

	var b strings.Builder
	b.WriteString("select to_jsonb(t) from " + Ident(c.Table) + " t")
	if len(where) > 0 {
		b.WriteString(" where " + strings.Join(where, " and "))
	}
	b.WriteString(" order by " + created + " desc")
	return b.String(), args
}

func scanJSON(row store.Row) (map[string]any, error) {
	var m map[string]any
	err := row.Scan(&m)
	return m, err
}
