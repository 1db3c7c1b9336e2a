package db

import (
	"context"
	"time"
)

// Model holds the identity and audit columns shared by every table.
type Model struct {
	ID           int64      `db:"id"`
	CreatedDate  time.Time  `db:"created_date"`
	ModifiedDate *time.Time `db:"modified_date"`
	CreatedBy    *int64     `db:"created_by"`
	ModifiedBy   *int64     `db:"modified_by"`
}

// Meta exposes the embedded Model so the generic repository can stamp it.
func (m *Model) Meta() *Model { return m }

// Field is a writable column and the value to store in it.
type Field struct {
	Column string
	Value  any
}

// Entity is implemented by every persisted struct. Fields must list the
// writable columns in a stable order and must not dereference nil pointers,
// because the repository calls it on a zero value to learn the column set.
type Entity interface {
	TableName() string
	Fields() []Field
	Meta() *Model
}

// EntityPtr constrains a type parameter to a pointer to T that is an Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

var auditColumns = []string{"id", "created_date", "modified_date", "created_by", "modified_by"}

type actorKey struct{}

// WithActor records the acting user id for audit columns.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the acting user id, or nil for anonymous/system work.
func ActorFromContext(ctx context.Context) *int64 {
	id, ok := ctx.Value(actorKey{}).(int64)
	if !ok {
		return nil
	}
	return &id
}

// now is truncated to microseconds so values survive a Postgres round trip unchanged.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
