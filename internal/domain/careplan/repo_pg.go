package careplan

import (
	"context"
	"fmt"

	"github.com/emr/emr/internal/platform/db"
)

const activityOrder = "scheduled_date ASC NULLS LAST, id ASC"

type carePlanRepoPG struct {
	*db.Repository[CarePlan, *CarePlan]
	activities *db.Repository[Activity, *Activity]
}

func NewCarePlanRepoPG(q db.Querier) CarePlanRepository {
	return &carePlanRepoPG{
		Repository: db.NewRepository[CarePlan](q),
		activities: db.NewRepository[Activity](q),
	}
}

func (r *carePlanRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*CarePlan, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("start_date DESC"))
}

func (r *carePlanRepoPG) GetActive(ctx context.Context) ([]*CarePlan, error) {
	return r.Find(ctx, db.NewQuery().Eq("status", PlanActive).OrderBy("start_date DESC"))
}

func (r *carePlanRepoPG) GetActiveByPatient(ctx context.Context, patientID int64) ([]*CarePlan, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).Eq("status", PlanActive).OrderBy("start_date DESC"))
}

func (r *carePlanRepoPG) GetWithActivities(ctx context.Context, id int64) (*WithActivities, error) {
	plan, activities, err := db.FetchWith(ctx, r.Repository, r.activities, id, "care_plan_id", activityOrder)
	if err != nil {
		return nil, fmt.Errorf("get care plan %d with activities: %w", id, err)
	}
	return &WithActivities{Plan: plan, Activities: activities}, nil
}

type activityRepoPG struct {
	*db.Repository[Activity, *Activity]
}

func NewActivityRepoPG(q db.Querier) ActivityRepository {
	return &activityRepoPG{db.NewRepository[Activity](q)}
}

func (r *activityRepoPG) GetByCarePlan(ctx context.Context, carePlanID int64) ([]*Activity, error) {
	return r.Find(ctx, db.NewQuery().Eq("care_plan_id", carePlanID).OrderBy(activityOrder))
}
