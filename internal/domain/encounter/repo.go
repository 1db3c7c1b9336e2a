package encounter

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/crud"
)

type EncounterRepository interface {
	crud.Store[Encounter]
	// GetByPatient returns the patient's encounters, most recent first.
	GetByPatient(ctx context.Context, patientID int64) ([]*Encounter, error)
	GetByProvider(ctx context.Context, providerID int64) ([]*Encounter, error)
	GetByStatus(ctx context.Context, status string) ([]*Encounter, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*Encounter, error)
	// GetWithDetails loads the encounter and its diagnoses, procedures,
	// observations and notes in one round trip.
	GetWithDetails(ctx context.Context, id int64) (*Details, error)
}
