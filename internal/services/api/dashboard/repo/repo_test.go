package repo

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/config"
	"leadsdash/internal/services/api/dashboard/domain"
)

type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return errors.New("scan: column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

// recorder captures the last statement and answers with rows
type recorder struct {
	sql  string
	args []any
	rows [][]any
	err  error
}

func (q *recorder) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	q.sql, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return &fakeRows{data: q.rows}, nil
}

// txRecorder also counts transactions so begin hooks can be observed
type txRecorder struct {
	recorder
	txs int
}

func (q *txRecorder) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	return nil, nil
}

func (q *txRecorder) QueryRow(context.Context, string, ...any) repokit.Row { return nil }

func (q *txRecorder) Tx(_ context.Context, fn func(repokit.RowQuerier) error) error {
	q.txs++
	return fn(q)
}

var (
	start = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 3, 7, 23, 59, 59, 0, time.UTC)
)

func TestColumnsFromConfig(t *testing.T) {
	t.Setenv("LEADS_COL_AGENT", "owner")
	t.Setenv("LEADS_SOFT_DELETE_COL", "deleted_at")

	c := ColumnsFromConfig(config.New(), "LEADS_TABLE", "leads")
	if c.Table != "leads" || c.CreatedAt != "created_at" || c.SoftDelete != "deleted_at" {
		t.Fatalf("cols = %+v", c)
	}
	want := []string{"owner", "agent_id", "id_agent"}
	if !reflect.DeepEqual(c.Mapping.AgentID, want) {
		t.Fatalf("agent aliases = %v", c.Mapping.AgentID)
	}
	if c.Mapping.InteractionCount[0] != "contador_interacoes" || len(c.Mapping.InteractionCount) != 2 {
		t.Fatalf("count aliases = %v", c.Mapping.InteractionCount)
	}
}

func TestNewRejectsUnknownSource(t *testing.T) {
	if _, err := New("mongo", Columns{}); err == nil {
		t.Fatal("expected an error")
	}
	if b, err := New(SourceCH, Columns{}); err != nil || b == nil {
		t.Fatalf("ch: %v", err)
	}
}

func TestPGQuery(t *testing.T) {
	cols := ColumnsFromConfig(config.New().Prefix("T_"), "TABLE", "crm.leads")
	cols.SoftDelete = "deleted_at"
	sql, args := cols.RowsQuery(domain.Filter{Start: start, End: end, AgentIDs: []string{"ana"}})
	want := `select to_jsonb(t) from "crm"."leads" t where t."created_at" >= $1 and t."created_at" <= $2` +
		` and t."agent_id"::text = any($3) and t."deleted_at" is null order by t."created_at" desc`
	if sql != want {
		t.Fatalf("sql:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 3 || !reflect.DeepEqual(args[2], []string{"ana"}) {
		t.Fatalf("args = %v", args)
	}

	// an all-time fetch only bounds the end
	sql, args = Columns{Table: "leads", CreatedAt: "created_at"}.RowsQuery(domain.Filter{End: end})
	if strings.Contains(sql, ">=") || len(args) != 1 {
		t.Fatalf("unbounded sql = %s %v", sql, args)
	}
}

func TestPGFetchDecodesRowsInsideTx(t *testing.T) {
	q := &txRecorder{recorder: recorder{rows: [][]any{
		{map[string]any{"id": float64(1), "created_at": "2024-03-02T10:00:00Z", "id_agent": "ana", "contador_interacoes": "4"}},
		{map[string]any{"id": "x", "created_at": "garbage"}},
	}}}
	src := PG{cols: ColumnsFromConfig(config.New().Prefix("T_"), "TABLE", "leads")}.Bind(q)

	got, err := src.FetchLeads(context.Background(), domain.Filter{Start: start, End: end})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if q.txs != 1 {
		t.Fatalf("fetch should run in a tx, got %d", q.txs)
	}
	if len(got) != 2 {
		t.Fatalf("records = %+v", got)
	}
	if got[0].ID != "1" || got[0].AgentID != "ana" || got[0].InteractionCount != 4 || got[0].CreatedAt.Day() != 2 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Placeable() {
		t.Fatalf("bad timestamp should not be placeable: %+v", got[1])
	}
}

func TestPGFetchError(t *testing.T) {
	q := &recorder{err: errors.New("boom")}
	if _, err := (PG{cols: Columns{Table: "leads", CreatedAt: "created_at"}}).Bind(q).FetchLeads(context.Background(), domain.Filter{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCHQueryAndScan(t *testing.T) {
	cols := Columns{Table: "crm.leads", ID: "id", CreatedAt: "created_at", AgentID: "id_agent", Count: "contador_interacoes"}
	q := &recorder{rows: [][]any{{"7", start.Add(time.Hour), " bia ", int64(9)}}}

	got, err := CH{cols: cols}.Bind(q).FetchLeads(context.Background(), domain.Filter{Start: start, End: end, AgentIDs: []string{"bia"}})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := "SELECT toString(`id`), toDateTime64(`created_at`, 3), ifNull(toString(`id_agent`), ''), " +
		"toInt64(ifNull(`contador_interacoes`, 0)) FROM `crm`.`leads` WHERE `created_at` >= ? AND `created_at` <= ? " +
		"AND toString(`id_agent`) IN ? ORDER BY `created_at` DESC"
	if q.sql != want {
		t.Fatalf("sql:\n got %s\nwant %s", q.sql, want)
	}
	if len(got) != 1 || got[0].AgentID != "bia" || got[0].InteractionCount != 9 || got[0].ID != "7" {
		t.Fatalf("records = %+v", got)
	}
}
