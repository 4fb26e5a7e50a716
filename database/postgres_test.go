package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap/zaptest"
)

type fakeRows struct {
	values []string
	pos    int
	err    error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 1 {
		return fmt.Errorf("expected one column, got %d", len(dest))
	}
	p, ok := dest[0].(*string)
	if !ok {
		return fmt.Errorf("unexpected scan target %T", dest[0])
	}
	*p = r.values[r.pos-1]
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	return []any{r.values[r.pos-1]}, nil
}

type fakeQuerier struct {
	tables  map[string][]string
	queries []string
	err     error
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	if q.err != nil {
		return nil, q.err
	}
	return &fakeRows{values: q.tables[sql]}, nil
}

func TestRowsAsJSONQuery(t *testing.T) {
	cases := map[string]string{
		"users":          `SELECT row_to_json(t)::text FROM "users" AS t`,
		"referral.users": `SELECT row_to_json(t)::text FROM "referral"."users" AS t`,
		`bad"name`:       `SELECT row_to_json(t)::text FROM "bad""name" AS t`,
	}
	for table, want := range cases {
		if got := rowsAsJSONQuery(table); got != want {
			t.Fatalf("rowsAsJSONQuery(%q) = %s, want %s", table, got, want)
		}
	}
}

func TestPostgresSourceFetch(t *testing.T) {
	q := &fakeQuerier{tables: map[string][]string{
		rowsAsJSONQuery("users"): {
			`{"uid":"u1","points_total":12,"created_at":"2024-01-01T00:00:00"}`,
			`{"uid":"u2","invited_by_code":"U1"}`,
		},
		rowsAsJSONQuery("notifications"): {
			`{"inviter_uid":"u1","type":"conversion","points_awarded":12}`,
		},
	}}
	src := NewPostgresSource(q, "users", "notifications", zaptest.NewLogger(t))

	exp, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(exp.Users) != 2 || exp.Users[0].PointsTotal != 12 || !exp.Users[1].Referred() {
		t.Fatalf("users = %+v", exp.Users)
	}
	if len(exp.Notifications) != 1 || exp.Notifications[0].InviterUID != "u1" {
		t.Fatalf("notifications = %+v", exp.Notifications)
	}
	if len(q.queries) != 2 {
		t.Fatalf("expected 2 queries, got %v", q.queries)
	}
}

func TestPostgresSourceQueryError(t *testing.T) {
	boom := errors.New("relation does not exist")
	src := NewPostgresSource(&fakeQuerier{err: boom}, "users", "notifications", nil)
	if _, err := src.Fetch(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}
