package encounter

import (
	"time"

	"github.com/emr/emr/internal/domain/clinical"
	"github.com/emr/emr/internal/platform/db"
)

// Encounter statuses. Any status may follow any other.
const (
	StatusPlanned    = "Planned"
	StatusArrived    = "Arrived"
	StatusInProgress = "InProgress"
	StatusFinished   = "Finished"
	StatusCancelled  = "Cancelled"
)

// Encounter is one clinical visit. Diagnoses, procedures, observations and
// notes recorded during the visit point back at it.
type Encounter struct {
	db.Model
	PatientID      int64      `db:"patient_id"`
	ProviderID     int64      `db:"provider_id"`
	LocationID     *int64     `db:"location_id"`
	DepartmentID   *int64     `db:"department_id"`
	EncounterType  *string    `db:"encounter_type"`
	Status         string     `db:"status"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	ChiefComplaint *string    `db:"chief_complaint"`
	Notes          *string    `db:"notes"`
}

func (Encounter) TableName() string { return "encounters" }

func (e *Encounter) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: e.PatientID},
		{Column: "provider_id", Value: e.ProviderID},
		{Column: "location_id", Value: e.LocationID},
		{Column: "department_id", Value: e.DepartmentID},
		{Column: "encounter_type", Value: e.EncounterType},
		{Column: "status", Value: e.Status},
		{Column: "start_date", Value: e.StartDate},
		{Column: "end_date", Value: e.EndDate},
		{Column: "chief_complaint", Value: e.ChiefComplaint},
		{Column: "notes", Value: e.Notes},
	}
}

// Details is an encounter with the records attached to it.
type Details struct {
	Encounter    *Encounter
	Diagnoses    []*clinical.Diagnosis
	Procedures   []*clinical.Procedure
	Observations []*clinical.Observation
	Notes        []*clinical.ClinicalNote
}
