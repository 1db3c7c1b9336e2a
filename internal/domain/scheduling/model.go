package scheduling

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

const (
	AppointmentScheduled = "Scheduled"
	AppointmentConfirmed = "Confirmed"
	AppointmentCheckedIn = "CheckedIn"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
	AppointmentNoShow    = "NoShow"
)

// Appointment is a booked slot with a provider. It is independent of any
// Encounter that may follow it.
type Appointment struct {
	db.Model
	PatientID       int64     `db:"patient_id"`
	ProviderID      int64     `db:"provider_id"`
	LocationID      *int64    `db:"location_id"`
	DepartmentID    *int64    `db:"department_id"`
	StartTime       time.Time `db:"start_time"`
	EndTime         time.Time `db:"end_time"`
	AppointmentType *string   `db:"appointment_type"`
	Status          string    `db:"status"`
	Reason          *string   `db:"reason"`
	Notes           *string   `db:"notes"`
}

func (Appointment) TableName() string { return "appointments" }

func (a *Appointment) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: a.PatientID},
		{Column: "provider_id", Value: a.ProviderID},
		{Column: "location_id", Value: a.LocationID},
		{Column: "department_id", Value: a.DepartmentID},
		{Column: "start_time", Value: a.StartTime},
		{Column: "end_time", Value: a.EndTime},
		{Column: "appointment_type", Value: a.AppointmentType},
		{Column: "status", Value: a.Status},
		{Column: "reason", Value: a.Reason},
		{Column: "notes", Value: a.Notes},
	}
}
