package immunization

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/crud"
)

type ImmunizationRepository interface {
	crud.Store[Immunization]
	// GetByPatient returns the patient's immunization history oldest first.
	GetByPatient(ctx context.Context, patientID int64) ([]*Immunization, error)
	// GetDue returns immunizations whose next dose falls on or before asOf,
	// skipping doses followed by a later administration of the same vaccine.
	GetDue(ctx context.Context, asOf time.Time) ([]*Immunization, error)
}
