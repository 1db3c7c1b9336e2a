package careplan

import (
	"context"
	"strings"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

var (
	validPlanStatuses     = crud.NewStatusSet(PlanDraft, PlanActive, PlanOnHold, PlanCompleted, PlanCancelled)
	validActivityStatuses = crud.NewStatusSet(ActivityNotStarted, ActivityScheduled, ActivityInProgress, ActivityCompleted, ActivityCancelled)
)

type Service struct {
	plans      CarePlanRepository
	activities ActivityRepository
	tx         db.Transactor
	now        func() time.Time
}

func NewService(plans CarePlanRepository, activities ActivityRepository, tx db.Transactor) *Service {
	return &Service{plans: plans, activities: activities, tx: tx, now: time.Now}
}

func (s *Service) PreparePlan(_ context.Context, p *CarePlan) error {
	if p.PatientID == 0 || p.ProviderID == 0 {
		return crud.Invalidf("patientId and providerId are required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return crud.Invalidf("title is required")
	}
	if p.StartDate.IsZero() {
		p.StartDate = s.now().UTC()
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return crud.Invalidf("endDate must not be before startDate")
	}
	return validPlanStatuses.Normalize("status", &p.Status, PlanDraft)
}

// PrepareActivity checks the parent plan exists and stamps the completion
// date when an activity is marked Completed without one.
func (s *Service) PrepareActivity(ctx context.Context, a *Activity) error {
	if a.CarePlanID == 0 {
		return crud.Invalidf("carePlanId is required")
	}
	if strings.TrimSpace(a.Description) == "" {
		return crud.Invalidf("description is required")
	}
	if _, err := s.plans.GetByID(ctx, a.CarePlanID); err != nil {
		if db.IsNotFound(err) {
			return crud.Invalidf("care plan %d does not exist", a.CarePlanID)
		}
		return err
	}
	if err := validActivityStatuses.Normalize("status", &a.Status, ActivityNotStarted); err != nil {
		return err
	}
	if a.Status == ActivityCompleted && a.CompletedDate == nil {
		now := s.now().UTC()
		a.CompletedDate = &now
	}
	return nil
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*CarePlan, error) {
	return s.plans.GetByPatient(ctx, patientID)
}

func (s *Service) ActiveByPatient(ctx context.Context, patientID int64) ([]*CarePlan, error) {
	return s.plans.GetActiveByPatient(ctx, patientID)
}

func (s *Service) Active(ctx context.Context) ([]*CarePlan, error) {
	return s.plans.GetActive(ctx)
}

func (s *Service) WithActivities(ctx context.Context, id int64) (*WithActivities, error) {
	return s.plans.GetWithActivities(ctx, id)
}

func (s *Service) Activities(ctx context.Context, carePlanID int64) ([]*Activity, error) {
	return s.activities.GetByCarePlan(ctx, carePlanID)
}

// AddActivity attaches a to the plan carePlanID.
func (s *Service) AddActivity(ctx context.Context, carePlanID int64, a *Activity) (*Activity, error) {
	a.CarePlanID = carePlanID
	var out *Activity
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		if err := s.PrepareActivity(ctx, a); err != nil {
			return err
		}
		var err error
		out, err = s.activities.Add(ctx, a)
		return err
	})
	return out, err
}

// CompleteActivity marks an activity Completed as of now.
func (s *Service) CompleteActivity(ctx context.Context, id int64) (*Activity, error) {
	var out *Activity
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		a, err := s.activities.GetByID(ctx, id)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		a.Status = ActivityCompleted
		a.CompletedDate = &now
		out, err = s.activities.Update(ctx, a)
		return err
	})
	return out, err
}
