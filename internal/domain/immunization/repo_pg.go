package immunization

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type immunizationRepoPG struct {
	*db.Repository[Immunization, *Immunization]
}

func NewImmunizationRepoPG(q db.Querier) ImmunizationRepository {
	return &immunizationRepoPG{db.NewRepository[Immunization](q)}
}

func (r *immunizationRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Immunization, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("administration_date ASC"))
}

// A dose is superseded once the patient receives the same vaccine again.
const notSuperseded = `NOT EXISTS (
	SELECT 1 FROM immunizations later
	WHERE later.patient_id = immunizations.patient_id
	  AND (later.vaccine_name = immunizations.vaccine_name OR later.cvx_code = immunizations.cvx_code)
	  AND later.administration_date > immunizations.administration_date)`

func (r *immunizationRepoPG) GetDue(ctx context.Context, asOf time.Time) ([]*Immunization, error) {
	q := db.NewQuery().
		Where("next_dose_date", "<=", asOf).
		Raw(notSuperseded).
		OrderBy("next_dose_date ASC")
	return r.Find(ctx, q)
}
