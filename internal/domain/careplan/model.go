package careplan

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

const (
	PlanDraft     = "Draft"
	PlanActive    = "Active"
	PlanOnHold    = "OnHold"
	PlanCompleted = "Completed"
	PlanCancelled = "Cancelled"

	ActivityNotStarted = "NotStarted"
	ActivityScheduled  = "Scheduled"
	ActivityInProgress = "InProgress"
	ActivityCompleted  = "Completed"
	ActivityCancelled  = "Cancelled"
)

type CarePlan struct {
	db.Model
	PatientID   int64      `db:"patient_id"`
	ProviderID  int64      `db:"provider_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Status      string     `db:"status"`
	StartDate   time.Time  `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	Goals       *string    `db:"goals"`
}

func (CarePlan) TableName() string { return "care_plans" }

func (p *CarePlan) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: p.PatientID},
		{Column: "provider_id", Value: p.ProviderID},
		{Column: "title", Value: p.Title},
		{Column: "description", Value: p.Description},
		{Column: "status", Value: p.Status},
		{Column: "start_date", Value: p.StartDate},
		{Column: "end_date", Value: p.EndDate},
		{Column: "goals", Value: p.Goals},
	}
}

// Activity is one step of a care plan. Activities are removed with their plan.
type Activity struct {
	db.Model
	CarePlanID    int64      `db:"care_plan_id"`
	Description   string     `db:"description"`
	ActivityType  *string    `db:"activity_type"`
	Status        string     `db:"status"`
	ScheduledDate *time.Time `db:"scheduled_date"`
	CompletedDate *time.Time `db:"completed_date"`
	Notes         *string    `db:"notes"`
}

func (Activity) TableName() string { return "care_plan_activities" }

func (a *Activity) Fields() []db.Field {
	return []db.Field{
		{Column: "care_plan_id", Value: a.CarePlanID},
		{Column: "description", Value: a.Description},
		{Column: "activity_type", Value: a.ActivityType},
		{Column: "status", Value: a.Status},
		{Column: "scheduled_date", Value: a.ScheduledDate},
		{Column: "completed_date", Value: a.CompletedDate},
		{Column: "notes", Value: a.Notes},
	}
}

// WithActivities is a care plan together with its activities in schedule order.
type WithActivities struct {
	Plan       *CarePlan
	Activities []*Activity
}
