package scheduling

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/crud"
)

type AppointmentRepository interface {
	crud.Store[Appointment]
	// GetByPatient returns the patient's appointments, most recent first.
	GetByPatient(ctx context.Context, patientID int64) ([]*Appointment, error)
	GetByProvider(ctx context.Context, providerID int64) ([]*Appointment, error)
	// GetByDateRange returns appointments starting in [from, to], earliest first.
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*Appointment, error)
	GetByStatus(ctx context.Context, status string) ([]*Appointment, error)
	// GetUpcomingForPatient returns appointments starting at or after now,
	// earliest first.
	GetUpcomingForPatient(ctx context.Context, patientID int64, now time.Time) ([]*Appointment, error)
}
