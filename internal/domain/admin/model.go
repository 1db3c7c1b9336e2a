package admin

import "github.com/emr/emr/internal/platform/db"

type Location struct {
	db.Model
	Name         string  `db:"name"`
	LocationType *string `db:"location_type"`
	Phone        *string `db:"phone"`
	AddressID    *int64  `db:"address_id"`
	IsActive     bool    `db:"is_active"`
}

func (Location) TableName() string { return "locations" }

func (l *Location) Fields() []db.Field {
	return []db.Field{
		{Column: "name", Value: l.Name},
		{Column: "location_type", Value: l.LocationType},
		{Column: "phone", Value: l.Phone},
		{Column: "address_id", Value: l.AddressID},
		{Column: "is_active", Value: l.IsActive},
	}
}

type Department struct {
	db.Model
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Phone       *string `db:"phone"`
	LocationID  *int64  `db:"location_id"`
	IsActive    bool    `db:"is_active"`
}

func (Department) TableName() string { return "departments" }

func (d *Department) Fields() []db.Field {
	return []db.Field{
		{Column: "name", Value: d.Name},
		{Column: "description", Value: d.Description},
		{Column: "phone", Value: d.Phone},
		{Column: "location_id", Value: d.LocationID},
		{Column: "is_active", Value: d.IsActive},
	}
}
