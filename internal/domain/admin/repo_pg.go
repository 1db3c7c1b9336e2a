package admin

import (
	"context"

	"github.com/emr/emr/internal/platform/db"
)

type locationRepoPG struct {
	*db.Repository[Location, *Location]
}

func NewLocationRepoPG(q db.Querier) LocationRepository {
	return &locationRepoPG{db.NewRepository[Location](q)}
}

func (r *locationRepoPG) GetActive(ctx context.Context) ([]*Location, error) {
	return r.Find(ctx, db.NewQuery().Eq("is_active", true).OrderBy("name ASC"))
}

func (r *locationRepoPG) GetByType(ctx context.Context, locationType string) ([]*Location, error) {
	return r.Find(ctx, db.NewQuery().Eq("location_type", locationType).OrderBy("name ASC"))
}

type departmentRepoPG struct {
	*db.Repository[Department, *Department]
}

func NewDepartmentRepoPG(q db.Querier) DepartmentRepository {
	return &departmentRepoPG{db.NewRepository[Department](q)}
}

func (r *departmentRepoPG) GetActive(ctx context.Context) ([]*Department, error) {
	return r.Find(ctx, db.NewQuery().Eq("is_active", true).OrderBy("name ASC"))
}

func (r *departmentRepoPG) GetByLocation(ctx context.Context, locationID int64) ([]*Department, error) {
	return r.Find(ctx, db.NewQuery().Eq("location_id", locationID).OrderBy("name ASC"))
}
