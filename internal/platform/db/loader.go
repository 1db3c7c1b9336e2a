package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Loader queues several selects and sends them in a single round trip. It is
// how detail fetches eager-load one level of related rows.
type Loader struct {
	batch pgx.Batch
	reads []func(pgx.BatchResults) error
}

// NewLoader returns an empty Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// QueueOne queues a single-row select into dst; a missing row fails Load with ErrNotFound.
func QueueOne[T any, PT EntityPtr[T]](l *Loader, r *Repository[T, PT], q *Query, dst **T) {
	l.batch.Queue(q.Limit(1).SelectSQL(r.selectSQL), q.Args()...)
	l.reads = append(l.reads, func(br pgx.BatchResults) error {
		rows, err := br.Query()
		if err != nil {
			return fmt.Errorf("query %s: %w", r.table, err)
		}
		e, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", r.table, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("scan %s: %w", r.table, err)
		}
		*dst = e
		return nil
	})
}

// QueueMany queues a multi-row select into dst.
func QueueMany[T any, PT EntityPtr[T]](l *Loader, r *Repository[T, PT], q *Query, dst *[]*T) {
	l.batch.Queue(q.SelectSQL(r.selectSQL), q.Args()...)
	l.reads = append(l.reads, func(br pgx.BatchResults) error {
		rows, err := br.Query()
		if err != nil {
			return fmt.Errorf("query %s: %w", r.table, err)
		}
		items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
		if err != nil {
			return fmt.Errorf("scan %s: %w", r.table, err)
		}
		*dst = items
		return nil
	})
}

// Load sends the batch on the unit of work in ctx (or fallback) and reads
// results in queue order.
func (l *Loader) Load(ctx context.Context, fallback Querier) (err error) {
	br := Conn(ctx, fallback).SendBatch(ctx, &l.batch)
	defer func() {
		if cerr := br.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	for _, read := range l.reads {
		if err := read(br); err != nil {
			return err
		}
	}
	return nil
}

// FetchWith loads a parent row and its children (by foreign key column fk) in
// one round trip.
func FetchWith[T any, PT EntityPtr[T], C any, PC EntityPtr[C]](ctx context.Context, parent *Repository[T, PT], child *Repository[C, PC], id int64, fk, orderBy string) (*T, []*C, error) {
	var p *T
	var children []*C
	l := NewLoader()
	QueueOne(l, parent, NewQuery().Eq("id", id), &p)
	QueueMany(l, child, NewQuery().Eq(fk, id).OrderBy(orderBy), &children)
	if err := l.Load(ctx, parent.q); err != nil {
		return nil, nil, err
	}
	return p, children, nil
}
