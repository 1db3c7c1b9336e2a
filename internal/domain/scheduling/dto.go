package scheduling

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type AppointmentDTO struct {
	ID              int64     `json:"id"`
	PatientID       int64     `json:"patientId"`
	ProviderID      int64     `json:"providerId"`
	LocationID      *int64    `json:"locationId,omitempty"`
	DepartmentID    *int64    `json:"departmentId,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	AppointmentType string    `json:"appointmentType,omitempty"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

func toAppointmentDTO(a *Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:              a.ID,
		PatientID:       a.PatientID,
		ProviderID:      a.ProviderID,
		LocationID:      a.LocationID,
		DepartmentID:    a.DepartmentID,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		AppointmentType: db.Deref(a.AppointmentType),
		Status:          a.Status,
		Reason:          db.Deref(a.Reason),
		Notes:           db.Deref(a.Notes),
	}
}

func applyAppointmentDTO(d *AppointmentDTO, a *Appointment) {
	a.PatientID = d.PatientID
	a.ProviderID = d.ProviderID
	a.LocationID = d.LocationID
	a.DepartmentID = d.DepartmentID
	a.StartTime = d.StartTime
	a.EndTime = d.EndTime
	a.AppointmentType = db.NullIfEmpty(d.AppointmentType)
	a.Status = d.Status
	a.Reason = db.NullIfEmpty(d.Reason)
	a.Notes = db.NullIfEmpty(d.Notes)
}
