package diagnostics

import (
	"context"

	"github.com/emr/emr/internal/platform/crud"
)

type LabOrderRepository interface {
	crud.Store[LabOrder]
	GetByPatient(ctx context.Context, patientID int64) ([]*LabOrder, error)
	// GetPending returns orders awaiting collection, oldest first.
	GetPending(ctx context.Context) ([]*LabOrder, error)
	GetByStatus(ctx context.Context, status string) ([]*LabOrder, error)
	GetWithResults(ctx context.Context, id int64) (*OrderWithResults, error)
}

type LabResultRepository interface {
	crud.Store[LabResult]
	GetByLabOrder(ctx context.Context, labOrderID int64) ([]*LabResult, error)
	GetAbnormalByPatient(ctx context.Context, patientID int64) ([]*LabResult, error)
}
