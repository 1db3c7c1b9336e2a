package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeBeginner struct{ tx *fakeTx }

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) { return b.tx, nil }

func TestAfterCommit_WithoutUnitOfWorkRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func(context.Context) { ran = true })
	if !ran {
		t.Error("expected hook to run immediately")
	}
}

func TestTransactor_CommitRunsHooks(t *testing.T) {
	tx := &fakeTx{}
	tr := NewTransactor(&fakeBeginner{tx: tx})

	var order []string
	err := tr.WithinUnitOfWork(context.Background(), func(ctx context.Context) error {
		if TxFromContext(ctx) == nil {
			t.Error("expected transaction in context")
		}
		AfterCommit(ctx, func(context.Context) { order = append(order, "first") })
		AfterCommit(ctx, func(context.Context) { order = append(order, "second") })
		if len(order) != 0 {
			t.Error("hooks must not run before commit")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinUnitOfWork() error: %v", err)
	}
	if !tx.committed {
		t.Error("expected commit")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected hook order: %v", order)
	}
}

func TestTransactor_ErrorRollsBack(t *testing.T) {
	tx := &fakeTx{}
	tr := NewTransactor(&fakeBeginner{tx: tx})

	ran := false
	boom := errors.New("boom")
	err := tr.WithinUnitOfWork(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func(context.Context) { ran = true })
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if !tx.rolledBack || tx.committed {
		t.Error("expected rollback without commit")
	}
	if ran {
		t.Error("hooks must not run after rollback")
	}
}

func TestTransactor_CommitFailureSkipsHooks(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("serialization failure")}
	tr := NewTransactor(&fakeBeginner{tx: tx})

	ran := false
	err := tr.WithinUnitOfWork(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func(context.Context) { ran = true })
		return nil
	})
	if err == nil {
		t.Fatal("expected commit error")
	}
	if ran {
		t.Error("hooks must not run when commit fails")
	}
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	outer := &fakeTx{}
	tr := NewTransactor(&fakeBeginner{tx: outer})

	err := tr.WithinUnitOfWork(context.Background(), func(ctx context.Context) error {
		return tr.WithinUnitOfWork(ctx, func(inner context.Context) error {
			if TxFromContext(inner) != TxFromContext(ctx) {
				t.Error("expected nested call to reuse the outer unit of work")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("WithinUnitOfWork() error: %v", err)
	}
}

func TestConnPrefersTransaction(t *testing.T) {
	fallback := &execQuerier{}
	if Conn(context.Background(), fallback) != fallback {
		t.Error("expected fallback without unit of work")
	}

	_, ctx, err := Begin(context.Background(), &fakeBeginner{tx: &fakeTx{}})
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if Conn(ctx, fallback) == Querier(fallback) {
		t.Error("expected transaction from context")
	}
}

func TestNopTransactor(t *testing.T) {
	called := false
	err := NopTransactor{}.WithinUnitOfWork(context.Background(), func(ctx context.Context) error {
		called = true
		AfterCommit(ctx, func(context.Context) {})
		return nil
	})
	if err != nil || !called {
		t.Errorf("expected fn to run, err=%v", err)
	}
}
