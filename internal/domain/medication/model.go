package medication

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/pkg/money"
)

const (
	PrescriptionActive       = "Active"
	PrescriptionOnHold       = "OnHold"
	PrescriptionCompleted    = "Completed"
	PrescriptionDiscontinued = "Discontinued"
	PrescriptionCancelled    = "Cancelled"
)

// Medication is a formulary catalog entry.
type Medication struct {
	db.Model
	Name         string        `db:"name"`
	GenericName  *string       `db:"generic_name"`
	BrandName    *string       `db:"brand_name"`
	NDCCode      *string       `db:"ndc_code"`
	DosageForm   *string       `db:"dosage_form"`
	Strength     *string       `db:"strength"`
	Manufacturer *string       `db:"manufacturer"`
	UnitPrice    *money.Amount `db:"unit_price"`
	IsActive     bool          `db:"is_active"`
}

func (Medication) TableName() string { return "medications" }

func (m *Medication) Fields() []db.Field {
	return []db.Field{
		{Column: "name", Value: m.Name},
		{Column: "generic_name", Value: m.GenericName},
		{Column: "brand_name", Value: m.BrandName},
		{Column: "ndc_code", Value: m.NDCCode},
		{Column: "dosage_form", Value: m.DosageForm},
		{Column: "strength", Value: m.Strength},
		{Column: "manufacturer", Value: m.Manufacturer},
		{Column: "unit_price", Value: m.UnitPrice},
		{Column: "is_active", Value: m.IsActive},
	}
}

type Prescription struct {
	db.Model
	PatientID    int64      `db:"patient_id"`
	ProviderID   int64      `db:"provider_id"`
	MedicationID int64      `db:"medication_id"`
	Dosage       string     `db:"dosage"`
	Frequency    string     `db:"frequency"`
	Route        *string    `db:"route"`
	Quantity     *int32     `db:"quantity"`
	Refills      int32      `db:"refills"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	Status       string     `db:"status"`
	Instructions *string    `db:"instructions"`
}

func (Prescription) TableName() string { return "prescriptions" }

func (p *Prescription) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: p.PatientID},
		{Column: "provider_id", Value: p.ProviderID},
		{Column: "medication_id", Value: p.MedicationID},
		{Column: "dosage", Value: p.Dosage},
		{Column: "frequency", Value: p.Frequency},
		{Column: "route", Value: p.Route},
		{Column: "quantity", Value: p.Quantity},
		{Column: "refills", Value: p.Refills},
		{Column: "start_date", Value: p.StartDate},
		{Column: "end_date", Value: p.EndDate},
		{Column: "status", Value: p.Status},
		{Column: "instructions", Value: p.Instructions},
	}
}

type PrescriptionWithMedication struct {
	Prescription *Prescription
	Medication   *Medication
}
