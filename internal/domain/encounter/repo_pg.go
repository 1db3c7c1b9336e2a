package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/emr/emr/internal/domain/clinical"
	"github.com/emr/emr/internal/platform/db"
)

type encounterRepoPG struct {
	*db.Repository[Encounter, *Encounter]
	diagnoses    *db.Repository[clinical.Diagnosis, *clinical.Diagnosis]
	procedures   *db.Repository[clinical.Procedure, *clinical.Procedure]
	observations *db.Repository[clinical.Observation, *clinical.Observation]
	notes        *db.Repository[clinical.ClinicalNote, *clinical.ClinicalNote]
}

func NewEncounterRepoPG(q db.Querier) EncounterRepository {
	return &encounterRepoPG{
		Repository:   db.NewRepository[Encounter](q),
		diagnoses:    db.NewRepository[clinical.Diagnosis](q),
		procedures:   db.NewRepository[clinical.Procedure](q),
		observations: db.NewRepository[clinical.Observation](q),
		notes:        db.NewRepository[clinical.ClinicalNote](q),
	}
}

func (r *encounterRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Encounter, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("start_date DESC"))
}

func (r *encounterRepoPG) GetByProvider(ctx context.Context, providerID int64) ([]*Encounter, error) {
	return r.Find(ctx, db.NewQuery().Eq("provider_id", providerID).OrderBy("start_date DESC"))
}

func (r *encounterRepoPG) GetByStatus(ctx context.Context, status string) ([]*Encounter, error) {
	return r.Find(ctx, db.NewQuery().Eq("status", status).OrderBy("start_date DESC"))
}

func (r *encounterRepoPG) GetByDateRange(ctx context.Context, from, to time.Time) ([]*Encounter, error) {
	return r.Find(ctx, db.NewQuery().Between("start_date", from, to).OrderBy("start_date ASC"))
}

func (r *encounterRepoPG) GetWithDetails(ctx context.Context, id int64) (*Details, error) {
	d := &Details{}
	l := db.NewLoader()
	db.QueueOne(l, r.Repository, db.NewQuery().Eq("id", id), &d.Encounter)
	db.QueueMany(l, r.diagnoses, db.NewQuery().Eq("encounter_id", id).OrderBy("diagnosis_date ASC"), &d.Diagnoses)
	db.QueueMany(l, r.procedures, db.NewQuery().Eq("encounter_id", id).OrderBy("procedure_date ASC"), &d.Procedures)
	db.QueueMany(l, r.observations, db.NewQuery().Eq("encounter_id", id).OrderBy("observation_date ASC"), &d.Observations)
	db.QueueMany(l, r.notes, db.NewQuery().Eq("encounter_id", id).OrderBy("created_date ASC"), &d.Notes)
	if err := l.Load(ctx, r.Querier()); err != nil {
		return nil, fmt.Errorf("get encounter %d with details: %w", id, err)
	}
	return d, nil
}
