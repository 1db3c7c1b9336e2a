package medication

import (
	"context"

	"github.com/emr/emr/internal/platform/crud"
)

type MedicationRepository interface {
	crud.Store[Medication]
	// Search matches term against name, generic name and brand name.
	Search(ctx context.Context, term string) ([]*Medication, error)
	GetActive(ctx context.Context) ([]*Medication, error)
}

type PrescriptionRepository interface {
	crud.Store[Prescription]
	GetByPatient(ctx context.Context, patientID int64) ([]*Prescription, error)
	GetActiveByPatient(ctx context.Context, patientID int64) ([]*Prescription, error)
	GetByProvider(ctx context.Context, providerID int64) ([]*Prescription, error)
	GetWithMedication(ctx context.Context, id int64) (*PrescriptionWithMedication, error)
}
