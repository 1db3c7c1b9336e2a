package immunization

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type Immunization struct {
	db.Model
	PatientID          int64      `db:"patient_id"`
	ProviderID         *int64     `db:"provider_id"`
	VaccineName        string     `db:"vaccine_name"`
	CVXCode            *string    `db:"cvx_code"`
	DoseNumber         *int32     `db:"dose_number"`
	AdministrationDate time.Time  `db:"administration_date"`
	LotNumber          *string    `db:"lot_number"`
	Site               *string    `db:"site"`
	Route              *string    `db:"route"`
	NextDoseDate       *time.Time `db:"next_dose_date"`
	Notes              *string    `db:"notes"`
}

func (Immunization) TableName() string { return "immunizations" }

func (i *Immunization) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: i.PatientID},
		{Column: "provider_id", Value: i.ProviderID},
		{Column: "vaccine_name", Value: i.VaccineName},
		{Column: "cvx_code", Value: i.CVXCode},
		{Column: "dose_number", Value: i.DoseNumber},
		{Column: "administration_date", Value: i.AdministrationDate},
		{Column: "lot_number", Value: i.LotNumber},
		{Column: "site", Value: i.Site},
		{Column: "route", Value: i.Route},
		{Column: "next_dose_date", Value: i.NextDoseDate},
		{Column: "notes", Value: i.Notes},
	}
}
