package admin

import "github.com/emr/emr/internal/platform/db"

type LocationDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	LocationType string `json:"locationType,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressID    *int64 `json:"addressId,omitempty"`
	IsActive     bool   `json:"isActive"`
}

func toLocationDTO(l *Location) LocationDTO {
	return LocationDTO{
		ID:           l.ID,
		Name:         l.Name,
		LocationType: db.Deref(l.LocationType),
		Phone:        db.Deref(l.Phone),
		AddressID:    l.AddressID,
		IsActive:     l.IsActive,
	}
}

func applyLocationDTO(d *LocationDTO, l *Location) {
	l.Name = d.Name
	l.LocationType = db.NullIfEmpty(d.LocationType)
	l.Phone = db.NullIfEmpty(d.Phone)
	l.AddressID = d.AddressID
	l.IsActive = d.IsActive
}

type DepartmentDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LocationID  *int64 `json:"locationId,omitempty"`
	IsActive    bool   `json:"isActive"`
}

func toDepartmentDTO(d *Department) DepartmentDTO {
	return DepartmentDTO{
		ID:          d.ID,
		Name:        d.Name,
		Description: db.Deref(d.Description),
		Phone:       db.Deref(d.Phone),
		LocationID:  d.LocationID,
		IsActive:    d.IsActive,
	}
}

func applyDepartmentDTO(d *DepartmentDTO, dep *Department) {
	dep.Name = d.Name
	dep.Description = db.NullIfEmpty(d.Description)
	dep.Phone = db.NullIfEmpty(d.Phone)
	dep.LocationID = d.LocationID
	dep.IsActive = d.IsActive
}
