package admin

import (
	"context"
	"strings"

	"github.com/emr/emr/internal/platform/crud"
)

var validLocationTypes = crud.NewStatusSet("Clinic", "Hospital", "Ward", "Laboratory", "Pharmacy", "Office")

type Service struct {
	locations   LocationRepository
	departments DepartmentRepository
}

func NewService(locations LocationRepository, departments DepartmentRepository) *Service {
	return &Service{locations: locations, departments: departments}
}

// -- Location --

func (s *Service) PrepareLocation(_ context.Context, l *Location) error {
	if strings.TrimSpace(l.Name) == "" {
		return crud.Invalidf("location name is required")
	}
	if l.LocationType != nil && !validLocationTypes[*l.LocationType] {
		return crud.Invalidf("invalid locationType: %s", *l.LocationType)
	}
	return nil
}

func (s *Service) ActiveLocations(ctx context.Context) ([]*Location, error) {
	return s.locations.GetActive(ctx)
}

func (s *Service) LocationsByType(ctx context.Context, locationType string) ([]*Location, error) {
	return s.locations.GetByType(ctx, locationType)
}

// -- Department --

// PrepareDepartment requires a name and, when set, an existing location.
func (s *Service) PrepareDepartment(ctx context.Context, d *Department) error {
	if strings.TrimSpace(d.Name) == "" {
		return crud.Invalidf("department name is required")
	}
	if d.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, *d.LocationID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ActiveDepartments(ctx context.Context) ([]*Department, error) {
	return s.departments.GetActive(ctx)
}

func (s *Service) DepartmentsByLocation(ctx context.Context, locationID int64) ([]*Department, error) {
	return s.departments.GetByLocation(ctx, locationID)
}
