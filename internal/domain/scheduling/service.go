package scheduling

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

var validAppointmentStatuses = crud.NewStatusSet(
	AppointmentScheduled, AppointmentConfirmed, AppointmentCheckedIn,
	AppointmentCompleted, AppointmentCancelled, AppointmentNoShow,
)

type Service struct {
	appointments AppointmentRepository
	tx           db.Transactor
	now          func() time.Time
}

func NewService(appointments AppointmentRepository, tx db.Transactor) *Service {
	return &Service{appointments: appointments, tx: tx, now: time.Now}
}

func (s *Service) PrepareAppointment(_ context.Context, a *Appointment) error {
	if a.PatientID == 0 || a.ProviderID == 0 {
		return crud.Invalidf("patientId and providerId are required")
	}
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return crud.Invalidf("startTime and endTime are required")
	}
	if !a.EndTime.After(a.StartTime) {
		return crud.Invalidf("endTime must be after startTime")
	}
	return validAppointmentStatuses.Normalize("status", &a.Status, AppointmentScheduled)
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*Appointment, error) {
	return s.appointments.GetByPatient(ctx, patientID)
}

func (s *Service) ByProvider(ctx context.Context, providerID int64) ([]*Appointment, error) {
	return s.appointments.GetByProvider(ctx, providerID)
}

func (s *Service) ByDateRange(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	if to.Before(from) {
		return nil, crud.Invalidf("to must not be before from")
	}
	return s.appointments.GetByDateRange(ctx, from, to)
}

func (s *Service) ByStatus(ctx context.Context, status string) ([]*Appointment, error) {
	return s.appointments.GetByStatus(ctx, status)
}

func (s *Service) UpcomingForPatient(ctx context.Context, patientID int64) ([]*Appointment, error) {
	return s.appointments.GetUpcomingForPatient(ctx, patientID, s.now())
}

// SetStatus moves an appointment to status. Any member of the status set is
// accepted from any other.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*Appointment, error) {
	if !validAppointmentStatuses[status] {
		return nil, crud.Invalidf("invalid status %q", status)
	}
	var out *Appointment
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		a.Status = status
		out, err = s.appointments.Update(ctx, a)
		return err
	})
	return out, err
}
