package admin

import (
	"context"

	"github.com/emr/emr/internal/platform/crud"
)

type LocationRepository interface {
	crud.Store[Location]
	GetActive(ctx context.Context) ([]*Location, error)
	GetByType(ctx context.Context, locationType string) ([]*Location, error)
}

type DepartmentRepository interface {
	crud.Store[Department]
	GetActive(ctx context.Context) ([]*Department, error)
	GetByLocation(ctx context.Context, locationID int64) ([]*Department, error)
}
