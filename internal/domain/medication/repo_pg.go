package medication

import (
	"context"
	"fmt"

	"github.com/emr/emr/internal/platform/db"
)

type medicationRepoPG struct {
	*db.Repository[Medication, *Medication]
}

func NewMedicationRepoPG(q db.Querier) MedicationRepository {
	return &medicationRepoPG{db.NewRepository[Medication](q)}
}

func (r *medicationRepoPG) Search(ctx context.Context, term string) ([]*Medication, error) {
	return r.Find(ctx, db.NewQuery().Contains(term, "name", "generic_name", "brand_name").OrderBy("name ASC"))
}

func (r *medicationRepoPG) GetActive(ctx context.Context) ([]*Medication, error) {
	return r.Find(ctx, db.NewQuery().Eq("is_active", true).OrderBy("name ASC"))
}

type prescriptionRepoPG struct {
	*db.Repository[Prescription, *Prescription]
	medications *db.Repository[Medication, *Medication]
}

func NewPrescriptionRepoPG(q db.Querier) PrescriptionRepository {
	return &prescriptionRepoPG{
		Repository:  db.NewRepository[Prescription](q),
		medications: db.NewRepository[Medication](q),
	}
}

func (r *prescriptionRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Prescription, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("start_date DESC"))
}

func (r *prescriptionRepoPG) GetActiveByPatient(ctx context.Context, patientID int64) ([]*Prescription, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).Eq("status", PrescriptionActive).OrderBy("start_date DESC"))
}

func (r *prescriptionRepoPG) GetByProvider(ctx context.Context, providerID int64) ([]*Prescription, error) {
	return r.Find(ctx, db.NewQuery().Eq("provider_id", providerID).OrderBy("start_date DESC"))
}

func (r *prescriptionRepoPG) GetWithMedication(ctx context.Context, id int64) (*PrescriptionWithMedication, error) {
	w := &PrescriptionWithMedication{}
	l := db.NewLoader()
	db.QueueOne(l, r.Repository, db.NewQuery().Eq("id", id), &w.Prescription)
	db.QueueOne(l, r.medications, db.NewQuery().Raw("id = (SELECT medication_id FROM prescriptions WHERE id = ?)", id), &w.Medication)
	if err := l.Load(ctx, r.Querier()); err != nil {
		return nil, fmt.Errorf("get prescription %d with medication: %w", id, err)
	}
	return w, nil
}
