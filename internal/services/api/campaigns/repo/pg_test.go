package repo

import (
	"context"
	"testing"

	"leadsdash/internal/modkit/repokit"
)

type oneRow struct {
	cols []string
	vals []any
	done bool
}

func (r *oneRow) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return true
}

func (r *oneRow) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*any)) = r.vals[i]
	}
	return nil
}

func (r *oneRow) Err() error        { return nil }
func (r *oneRow) Close()            {}
func (r *oneRow) Columns() []string { return r.cols }

type recorder struct {
	sql  string
	args []any
}

func (q *recorder) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	q.sql, q.args = sql, args
	return &oneRow{cols: []string{"utm_campaign", "id"}, vals: []any{"[a]+b", int64(4)}}, nil
}

func TestRecent(t *testing.T) {
	q := &recorder{}
	rows, err := PG{Table: "mkt.campaign_logs", CreatedAt: "created_at"}.Bind(q).Recent(context.Background(), 500)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	want := `select t.* from "mkt"."campaign_logs" t order by t."created_at" desc nulls last limit $1`
	if q.sql != want {
		t.Fatalf("sql = %s", q.sql)
	}
	if q.args[0] != 500 {
		t.Fatalf("args = %v", q.args)
	}
	if len(rows) != 1 || rows[0]["utm_campaign"] != "[a]+b" || rows[0]["id"] != int64(4) {
		t.Fatalf("rows = %v", rows)
	}
}
