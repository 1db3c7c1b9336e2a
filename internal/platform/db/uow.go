package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions; *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UnitOfWork is the staged-changes buffer for one request: repository
// mutations made with its context are only persisted by Commit.
type UnitOfWork struct {
	tx          pgx.Tx
	afterCommit []func(context.Context)
}

type uowKey struct{}

// Begin opens a unit of work and returns a context that carries it.
func Begin(ctx context.Context, b Beginner) (*UnitOfWork, context.Context, error) {
	tx, err := b.Begin(ctx)
	if err != nil {
		return nil, ctx, fmt.Errorf("begin unit of work: %w", err)
	}
	u := &UnitOfWork{tx: tx}
	return u, context.WithValue(ctx, uowKey{}, u), nil
}

// Commit flushes staged changes, then runs AfterCommit callbacks in order.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	hooks := u.afterCommit
	u.afterCommit = nil
	for _, fn := range hooks {
		fn(ctx)
	}
	return nil
}

// Rollback discards staged changes. Rolling back a finished unit of work is a no-op.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.afterCommit = nil
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback unit of work: %w", err)
	}
	return nil
}

// FromContext returns the unit of work carried by ctx, if any.
func FromContext(ctx context.Context) *UnitOfWork {
	u, _ := ctx.Value(uowKey{}).(*UnitOfWork)
	return u
}

// TxFromContext returns the transaction of the unit of work in ctx, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	if u := FromContext(ctx); u != nil {
		return u.tx
	}
	return nil
}

// AfterCommit defers fn until the unit of work in ctx commits. Without a unit
// of work the change is already durable, so fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	if u := FromContext(ctx); u != nil {
		u.afterCommit = append(u.afterCommit, fn)
		return
	}
	fn(ctx)
}

// Transactor runs fn inside a unit of work and commits when fn succeeds.
type Transactor interface {
	WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgTransactor struct {
	b Beginner
}

// NewTransactor returns a Transactor backed by b.
func NewTransactor(b Beginner) Transactor {
	return &pgTransactor{b: b}
}

func (t *pgTransactor) WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context) error) error {
	if FromContext(ctx) != nil {
		return fn(ctx)
	}
	u, uctx, err := Begin(ctx, t.b)
	if err != nil {
		return err
	}
	if err := fn(uctx); err != nil {
		_ = u.Rollback(ctx)
		return err
	}
	return u.Commit(ctx)
}

// NopTransactor runs fn directly; repositories autocommit. Used by tests and
// in-memory wiring.
type NopTransactor struct{}

func (NopTransactor) WithinUnitOfWork(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
