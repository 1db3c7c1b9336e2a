package careplan

import (
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

type CarePlanDTO struct {
	ID          int64      `json:"id"`
	PatientID   int64      `json:"patientId"`
	ProviderID  int64      `json:"providerId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Goals       string     `json:"goals,omitempty"`
}

func toCarePlanDTO(p *CarePlan) CarePlanDTO {
	return CarePlanDTO{
		ID:          p.ID,
		PatientID:   p.PatientID,
		ProviderID:  p.ProviderID,
		Title:       p.Title,
		Description: db.Deref(p.Description),
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Goals:       db.Deref(p.Goals),
	}
}

func applyCarePlanDTO(d *CarePlanDTO, p *CarePlan) {
	p.PatientID = d.PatientID
	p.ProviderID = d.ProviderID
	p.Title = d.Title
	p.Description = db.NullIfEmpty(d.Description)
	p.Status = d.Status
	p.StartDate = d.StartDate
	p.EndDate = d.EndDate
	p.Goals = db.NullIfEmpty(d.Goals)
}

type ActivityDTO struct {
	ID            int64      `json:"id"`
	CarePlanID    int64      `json:"carePlanId"`
	Description   string     `json:"description"`
	ActivityType  string     `json:"activityType,omitempty"`
	Status        string     `json:"status"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func toActivityDTO(a *Activity) ActivityDTO {
	return ActivityDTO{
		ID:            a.ID,
		CarePlanID:    a.CarePlanID,
		Description:   a.Description,
		ActivityType:  db.Deref(a.ActivityType),
		Status:        a.Status,
		ScheduledDate: a.ScheduledDate,
		CompletedDate: a.CompletedDate,
		Notes:         db.Deref(a.Notes),
	}
}

func applyActivityDTO(d *ActivityDTO, a *Activity) {
	a.CarePlanID = d.CarePlanID
	a.Description = d.Description
	a.ActivityType = db.NullIfEmpty(d.ActivityType)
	a.Status = d.Status
	a.ScheduledDate = d.ScheduledDate
	a.CompletedDate = d.CompletedDate
	a.Notes = db.NullIfEmpty(d.Notes)
}

type withActivitiesDTO struct {
	CarePlanDTO
	Activities []ActivityDTO `json:"activities"`
}

func toWithActivitiesDTO(w *WithActivities) withActivitiesDTO {
	return withActivitiesDTO{
		CarePlanDTO: toCarePlanDTO(w.Plan),
		Activities:  crud.MapAll(w.Activities, toActivityDTO),
	}
}
