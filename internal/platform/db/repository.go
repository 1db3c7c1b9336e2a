package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Conn returns the unit-of-work transaction carried by ctx, or fallback.
func Conn(ctx context.Context, fallback Querier) Querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return fallback
}

// Repository is the CRUD contract shared by every entity. Mutations run on the
// unit of work in ctx when there is one and are only durable after it commits;
// otherwise they autocommit on the pool. There is no version check, so
// concurrent updates to one row are last-writer-wins.
type Repository[T any, PT EntityPtr[T]] struct {
	q         Querier
	table     string
	columns   []string
	selectSQL string
	insertSQL string
	updateSQL string
}

// NewRepository builds the statements for T once, from its Fields.
func NewRepository[T any, PT EntityPtr[T]](q Querier) *Repository[T, PT] {
	var zero T
	e := PT(&zero)
	fields := e.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
	}
	return &Repository[T, PT]{
		q:         q,
		table:     e.TableName(),
		columns:   cols,
		selectSQL: selectSQL(e.TableName(), cols),
		insertSQL: insertSQL(e.TableName(), cols),
		updateSQL: updateSQL(e.TableName(), cols),
	}
}

// Table returns the table name.
func (r *Repository[T, PT]) Table() string { return r.table }

// Querier returns the fallback querier (the pool) the repository was built with.
func (r *Repository[T, PT]) Querier() Querier { return r.q }

func (r *Repository[T, PT]) conn(ctx context.Context) Querier {
	return Conn(ctx, r.q)
}

// GetByID returns ErrNotFound when no row has the id.
func (r *Repository[T, PT]) GetByID(ctx context.Context, id int64) (*T, error) {
	e, err := r.FindOne(ctx, NewQuery().Eq("id", id))
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", r.table, id, err)
	}
	return e, nil
}

// GetAll returns every row ordered by id.
func (r *Repository[T, PT]) GetAll(ctx context.Context) ([]*T, error) {
	return r.Find(ctx, NewQuery().OrderBy("id"))
}

// Add stamps created_date/created_by, inserts the row and assigns the generated id.
func (r *Repository[T, PT]) Add(ctx context.Context, e *T) (*T, error) {
	p := PT(e)
	m := p.Meta()
	m.CreatedDate = now()
	m.CreatedBy = ActorFromContext(ctx)
	m.ModifiedDate = nil
	m.ModifiedBy = nil

	args := []any{m.CreatedDate, m.CreatedBy}
	for _, f := range p.Fields() {
		args = append(args, f.Value)
	}
	if err := r.conn(ctx).QueryRow(ctx, r.insertSQL, args...).Scan(&m.ID); err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.table, err)
	}
	return e, nil
}

// Update writes every writable column and stamps modified_date/modified_by.
func (r *Repository[T, PT]) Update(ctx context.Context, e *T) (*T, error) {
	p := PT(e)
	m := p.Meta()
	ts := now()
	m.ModifiedDate = &ts
	m.ModifiedBy = ActorFromContext(ctx)

	var args []any
	for _, f := range p.Fields() {
		args = append(args, f.Value)
	}
	args = append(args, m.ModifiedDate, m.ModifiedBy, m.ID)
	tag, err := r.conn(ctx).Exec(ctx, r.updateSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", r.table, m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update %s %d: %w", r.table, m.ID, ErrNotFound)
	}
	return e, nil
}

// Delete removes the row for e. FK policies decide whether dependents are
// cascaded or the delete is rejected.
func (r *Repository[T, PT]) Delete(ctx context.Context, e *T) error {
	return r.DeleteByID(ctx, PT(e).Meta().ID)
}

// DeleteByID removes a row by id.
func (r *Repository[T, PT]) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, "DELETE FROM "+r.table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", r.table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s %d: %w", r.table, id, ErrNotFound)
	}
	return nil
}

// Find returns all rows matching q.
func (r *Repository[T, PT]) Find(ctx context.Context, q *Query) ([]*T, error) {
	rows, err := r.conn(ctx).Query(ctx, q.SelectSQL(r.selectSQL), q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.table, err)
	}
	return items, nil
}

// FindOne returns the first row matching q, or ErrNotFound.
func (r *Repository[T, PT]) FindOne(ctx context.Context, q *Query) (*T, error) {
	rows, err := r.conn(ctx).Query(ctx, q.Limit(1).SelectSQL(r.selectSQL), q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	e, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.table, err)
	}
	return e, nil
}

// Count returns the number of rows matching q's filter; paging is ignored.
func (r *Repository[T, PT]) Count(ctx context.Context, q *Query) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(r.table), q.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

func selectSQL(table string, cols []string) string {
	all := append(append([]string{}, auditColumns...), cols...)
	return "SELECT " + strings.Join(all, ", ") + " FROM " + table
}

func insertSQL(table string, cols []string) string {
	all := append([]string{"created_date", "created_by"}, cols...)
	params := make([]string, len(all))
	for i := range all {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(all, ", "), strings.Join(params, ", "))
}

func updateSQL(table string, cols []string) string {
	all := append(append([]string{}, cols...), "modified_date", "modified_by")
	sets := make([]string, len(all))
	for i, c := range all {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(all)+1)
}
