package repo

import (
	"context"
	"strings"
	"time"

	"leadsdash/internal/core/lead"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/store"
	"leadsdash/internal/services/api/dashboard/domain"
)

// CH binds the lead source to a clickhouse Queryer
type CH struct{ cols Columns }

// Bind wires q to the repo
func (c CH) Bind(q repokit.Queryer) domain.LeadSource {
	return &chLeads{q: q, cols: c.cols}
}

type chLeads struct {
	q    repokit.Queryer
	cols Columns
}

// FetchLeads selects typed columns; the server casts so scanning never depends
// on how the table declares them
func (r *chLeads) FetchLeads(ctx context.Context, f domain.Filter) ([]lead.Record, error) {
	sql, args := r.query(f)
	return store.Many(ctx, r.q, scanCH, sql, args...)
}

func (r *chLeads) query(f domain.Filter) (string, []any) {
	created := chIdent(r.cols.CreatedAt)
	agent := chIdent(r.cols.AgentID)
	var (
		where []string
		args  []any
	)
	if !f.Start.IsZero() {
		where = append(where, created+" >= ?")
		args = append(args, f.Start)
	}
	if !f.End.IsZero() {
		where = append(where, created+" <= ?")
		args = append(args, f.End)
	}
	if len(f.AgentIDs) > 0 {
		where = append(where, "toString("+agent+") IN ?")
		args = append(args, f.AgentIDs)
	}
	if r.cols.SoftDelete != "" {
		where = append(where, "isNull("+chIdent(r.cols.SoftDelete)+")")
	}

	var b strings.Builder
	b.WriteString("SELECT toString(" + chIdent(r.cols.ID) + "), ")
	b.WriteString("toDateTime64(" + created + ", 3), ")
	b.WriteString("ifNull(toString(" + agent + "), ''), ")
	b.WriteString("toInt64(ifNull(" + chIdent(r.cols.Count) + ", 0))")
	b.WriteString(" FROM " + chIdent(r.cols.Table))
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + created + " DESC")
	return b.String(), args
}

func scanCH(row store.Row) (lead.Record, error) {
	var (
		rec     lead.Record
		created time.Time
	)
	if err := row.Scan(&rec.ID, &created, &rec.AgentID, &rec.InteractionCount); err != nil {
		return lead.Record{}, err
	}
	rec.CreatedAt = created
	rec.AgentID = strings.TrimSpace(rec.AgentID)
	return rec, nil
}
