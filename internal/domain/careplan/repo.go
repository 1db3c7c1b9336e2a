package careplan

import (
	"context"

	"github.com/emr/emr/internal/platform/crud"
)

type CarePlanRepository interface {
	crud.Store[CarePlan]
	GetByPatient(ctx context.Context, patientID int64) ([]*CarePlan, error)
	GetActive(ctx context.Context) ([]*CarePlan, error)
	GetActiveByPatient(ctx context.Context, patientID int64) ([]*CarePlan, error)
	GetWithActivities(ctx context.Context, id int64) (*WithActivities, error)
}

type ActivityRepository interface {
	crud.Store[Activity]
	// GetByCarePlan returns activities by scheduled date, unscheduled last.
	GetByCarePlan(ctx context.Context, carePlanID int64) ([]*Activity, error)
}
