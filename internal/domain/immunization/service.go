package immunization

import (
	"context"
	"strings"
	"time"

	"github.com/emr/emr/internal/platform/crud"
)

type Service struct {
	immunizations ImmunizationRepository
	now           func() time.Time
}

func NewService(immunizations ImmunizationRepository) *Service {
	return &Service{immunizations: immunizations, now: time.Now}
}

func (s *Service) PrepareImmunization(_ context.Context, i *Immunization) error {
	if i.PatientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	if strings.TrimSpace(i.VaccineName) == "" {
		return crud.Invalidf("vaccineName is required")
	}
	if i.DoseNumber != nil && *i.DoseNumber < 1 {
		return crud.Invalidf("doseNumber must be at least 1")
	}
	if i.AdministrationDate.IsZero() {
		i.AdministrationDate = s.now().UTC()
	}
	if i.NextDoseDate != nil && !i.NextDoseDate.After(i.AdministrationDate) {
		return crud.Invalidf("nextDoseDate must be after administrationDate")
	}
	return nil
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*Immunization, error) {
	return s.immunizations.GetByPatient(ctx, patientID)
}

// Due lists immunizations with a next dose due by asOf; the zero time means now.
func (s *Service) Due(ctx context.Context, asOf time.Time) ([]*Immunization, error) {
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	return s.immunizations.GetDue(ctx, asOf)
}
