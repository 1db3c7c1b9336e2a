package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type widget struct {
	Model
	Name  string  `db:"name"`
	Notes *string `db:"notes"`
}

func (widget) TableName() string { return "widgets" }

func (w *widget) Fields() []Field {
	return []Field{{"name", w.Name}, {"notes", w.Notes}}
}

func TestRepositoryStatements(t *testing.T) {
	r := NewRepository[widget](nil)

	if r.Table() != "widgets" {
		t.Errorf("Table() = %q", r.Table())
	}
	if want := "SELECT id, created_date, modified_date, created_by, modified_by, name, notes FROM widgets"; r.selectSQL != want {
		t.Errorf("selectSQL = %q, want %q", r.selectSQL, want)
	}
	if want := "INSERT INTO widgets (created_date, created_by, name, notes) VALUES ($1, $2, $3, $4) RETURNING id"; r.insertSQL != want {
		t.Errorf("insertSQL = %q, want %q", r.insertSQL, want)
	}
	if want := "UPDATE widgets SET name = $1, notes = $2, modified_date = $3, modified_by = $4 WHERE id = $5"; r.updateSQL != want {
		t.Errorf("updateSQL = %q, want %q", r.updateSQL, want)
	}
}

type execQuerier struct {
	Querier
	tag  pgconn.CommandTag
	err  error
	sql  string
	args []any
}

func (q *execQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	return q.tag, q.err
}

func TestRepositoryUpdate_StampsAudit(t *testing.T) {
	q := &execQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
	r := NewRepository[widget](q)

	ctx := WithActor(context.Background(), 42)
	w := &widget{Name: "x"}
	w.ID = 9
	if _, err := r.Update(ctx, w); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if w.ModifiedDate == nil {
		t.Fatal("expected ModifiedDate to be set")
	}
	if w.ModifiedBy == nil || *w.ModifiedBy != 42 {
		t.Errorf("expected ModifiedBy 42, got %v", w.ModifiedBy)
	}
	if got := q.args[len(q.args)-1]; got != int64(9) {
		t.Errorf("expected id as last arg, got %v", got)
	}
}

func TestRepositoryUpdate_MissingRow(t *testing.T) {
	q := &execQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}
	r := NewRepository[widget](q)

	_, err := r.Update(context.Background(), &widget{Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryDeleteByID(t *testing.T) {
	q := &execQuerier{tag: pgconn.NewCommandTag("DELETE 0")}
	r := NewRepository[widget](q)

	if err := r.DeleteByID(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if q.sql != "DELETE FROM widgets WHERE id = $1" {
		t.Errorf("unexpected SQL %q", q.sql)
	}

	q.tag = pgconn.NewCommandTag("DELETE 1")
	if err := r.Delete(context.Background(), &widget{Model: Model{ID: 5}}); err != nil {
		t.Errorf("Delete() error: %v", err)
	}

	q.err = &pgconn.PgError{Code: "23503"}
	err := r.DeleteByID(context.Background(), 5)
	if !IsForeignKeyViolation(err) {
		t.Errorf("expected FK violation to survive wrapping, got %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsNotFound(fmt.Errorf("get: %w", ErrNotFound)) {
		t.Error("wrapped ErrNotFound should be not found")
	}
	if !IsNotFound(pgx.ErrNoRows) {
		t.Error("pgx.ErrNoRows should be not found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("plain error should not be not found")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Error("expected unique violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is not an FK violation")
	}
}

func TestActorFromContext(t *testing.T) {
	if ActorFromContext(context.Background()) != nil {
		t.Error("expected nil actor on empty context")
	}
	id := ActorFromContext(WithActor(context.Background(), 3))
	if id == nil || *id != 3 {
		t.Errorf("expected actor 3, got %v", id)
	}
}

func TestNowIsUTCMicroseconds(t *testing.T) {
	ts := now()
	if ts.Location().String() != "UTC" {
		t.Errorf("expected UTC, got %s", ts.Location())
	}
	if ts.Nanosecond()%1000 != 0 {
		t.Errorf("expected microsecond precision, got %d ns", ts.Nanosecond())
	}
}
