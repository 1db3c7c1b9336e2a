package admin

import (
	"context"
	"testing"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/crud/crudtest"
	"github.com/emr/emr/internal/platform/db"
)

type mockLocationRepo struct {
	*crudtest.MemStore[Location, *Location]
}

func (m *mockLocationRepo) GetActive(context.Context) ([]*Location, error) {
	return m.Where(func(l *Location) bool { return l.IsActive }), nil
}

func (m *mockLocationRepo) GetByType(_ context.Context, t string) ([]*Location, error) {
	return m.Where(func(l *Location) bool { return db.Deref(l.LocationType) == t }), nil
}

type mockDepartmentRepo struct {
	*crudtest.MemStore[Department, *Department]
}

func (m *mockDepartmentRepo) GetActive(context.Context) ([]*Department, error) {
	return m.Where(func(d *Department) bool { return d.IsActive }), nil
}

func (m *mockDepartmentRepo) GetByLocation(_ context.Context, id int64) ([]*Department, error) {
	return m.Where(func(d *Department) bool { return d.LocationID != nil && *d.LocationID == id }), nil
}

func newTestService() (*Service, *mockLocationRepo, *mockDepartmentRepo) {
	locs := &mockLocationRepo{crudtest.NewMemStore[Location]()}
	depts := &mockDepartmentRepo{crudtest.NewMemStore[Department]()}
	return NewService(locs, depts), locs, depts
}

func TestPrepareLocation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.PrepareLocation(ctx, &Location{Name: "Main", LocationType: db.NullIfEmpty("Clinic")}); err != nil {
		t.Errorf("valid location: %v", err)
	}
	if err := svc.PrepareLocation(ctx, &Location{}); !crud.IsValidation(err) {
		t.Errorf("missing name: %v", err)
	}
	if err := svc.PrepareLocation(ctx, &Location{Name: "X", LocationType: db.NullIfEmpty("Spaceport")}); !crud.IsValidation(err) {
		t.Errorf("bad type: %v", err)
	}
}

func TestPrepareDepartment_RequiresExistingLocation(t *testing.T) {
	svc, locs, _ := newTestService()
	ctx := context.Background()
	loc, _ := locs.Add(ctx, &Location{Name: "Main", IsActive: true})

	if err := svc.PrepareDepartment(ctx, &Department{Name: "Cardiology", LocationID: &loc.ID}); err != nil {
		t.Errorf("valid department: %v", err)
	}
	missing := int64(404)
	if err := svc.PrepareDepartment(ctx, &Department{Name: "Cardiology", LocationID: &missing}); !db.IsNotFound(err) {
		t.Errorf("unknown location: %v", err)
	}
	if err := svc.PrepareDepartment(ctx, &Department{}); !crud.IsValidation(err) {
		t.Errorf("missing name: %v", err)
	}
}

func TestDepartmentQueries(t *testing.T) {
	svc, locs, depts := newTestService()
	ctx := context.Background()
	loc, _ := locs.Add(ctx, &Location{Name: "Main", IsActive: true})
	depts.Add(ctx, &Department{Name: "Cardiology", LocationID: &loc.ID, IsActive: true})
	depts.Add(ctx, &Department{Name: "Archive"})

	if got, _ := svc.ActiveDepartments(ctx); len(got) != 1 || got[0].Name != "Cardiology" {
		t.Errorf("active = %+v", got)
	}
	if got, _ := svc.DepartmentsByLocation(ctx, loc.ID); len(got) != 1 {
		t.Errorf("by location = %+v", got)
	}
}
