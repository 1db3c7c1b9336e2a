package encounter

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

var validStatuses = crud.NewStatusSet(StatusPlanned, StatusArrived, StatusInProgress, StatusFinished, StatusCancelled)

type Service struct {
	encounters EncounterRepository
	tx         db.Transactor
	events     *events.Emitter
	now        func() time.Time
}

func NewService(encounters EncounterRepository, tx db.Transactor, emitter *events.Emitter) *Service {
	return &Service{encounters: encounters, tx: tx, events: emitter, now: time.Now}
}

func (s *Service) PrepareEncounter(_ context.Context, e *Encounter) error {
	if e.PatientID == 0 || e.ProviderID == 0 {
		return crud.Invalidf("patientId and providerId are required")
	}
	if e.StartDate.IsZero() {
		e.StartDate = s.now().UTC()
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return crud.Invalidf("endDate must not be before startDate")
	}
	return validStatuses.Normalize("status", &e.Status, StatusPlanned)
}

func (s *Service) Get(ctx context.Context, id int64) (*Encounter, error) {
	return s.encounters.GetByID(ctx, id)
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*Encounter, error) {
	return s.encounters.GetByPatient(ctx, patientID)
}

func (s *Service) ByProvider(ctx context.Context, providerID int64) ([]*Encounter, error) {
	return s.encounters.GetByProvider(ctx, providerID)
}

func (s *Service) ByStatus(ctx context.Context, status string) ([]*Encounter, error) {
	return s.encounters.GetByStatus(ctx, status)
}

func (s *Service) ByDateRange(ctx context.Context, from, to time.Time) ([]*Encounter, error) {
	if to.Before(from) {
		return nil, crud.Invalidf("to must not be before from")
	}
	return s.encounters.GetByDateRange(ctx, from, to)
}

func (s *Service) Details(ctx context.Context, id int64) (*Details, error) {
	return s.encounters.GetWithDetails(ctx, id)
}

// SetStatus moves the encounter to status and stamps the end date when it
// finishes. Membership is checked; the transition itself is not.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*Encounter, error) {
	if !validStatuses[status] {
		return nil, crud.Invalidf("invalid status %q", status)
	}
	var out *Encounter
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		e, err := s.encounters.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from := e.Status
		e.Status = status
		if status == StatusFinished && e.EndDate == nil {
			end := s.now().UTC()
			e.EndDate = &end
		}
		if out, err = s.encounters.Update(ctx, e); err != nil {
			return err
		}
		if from != status {
			s.events.Emit(ctx, events.EncounterStatusChanged, e.ID, map[string]any{
				"patientId": e.PatientID,
				"from":      from,
				"to":        status,
			})
		}
		return nil
	})
	return out, err
}
