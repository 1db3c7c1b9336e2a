package scheduling

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type appointmentRepoPG struct {
	*db.Repository[Appointment, *Appointment]
}

func NewAppointmentRepoPG(q db.Querier) AppointmentRepository {
	return &appointmentRepoPG{db.NewRepository[Appointment](q)}
}

func (r *appointmentRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Appointment, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("start_time DESC"))
}

func (r *appointmentRepoPG) GetByProvider(ctx context.Context, providerID int64) ([]*Appointment, error) {
	return r.Find(ctx, db.NewQuery().Eq("provider_id", providerID).OrderBy("start_time DESC"))
}

func (r *appointmentRepoPG) GetByDateRange(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	return r.Find(ctx, db.NewQuery().Between("start_time", from, to).OrderBy("start_time ASC"))
}

func (r *appointmentRepoPG) GetByStatus(ctx context.Context, status string) ([]*Appointment, error) {
	return r.Find(ctx, db.NewQuery().Eq("status", status).OrderBy("start_time ASC"))
}

func (r *appointmentRepoPG) GetUpcomingForPatient(ctx context.Context, patientID int64, now time.Time) ([]*Appointment, error) {
	q := db.NewQuery().Eq("patient_id", patientID).Since("start_time", now).OrderBy("start_time ASC")
	return r.Find(ctx, q)
}
