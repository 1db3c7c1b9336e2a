package medication

import (
	"context"
	"strings"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

var validPrescriptionStatuses = crud.NewStatusSet(
	PrescriptionActive, PrescriptionOnHold, PrescriptionCompleted,
	PrescriptionDiscontinued, PrescriptionCancelled,
)

type Service struct {
	medications   MedicationRepository
	prescriptions PrescriptionRepository
	tx            db.Transactor
	events        *events.Emitter
	now           func() time.Time
}

func NewService(medications MedicationRepository, prescriptions PrescriptionRepository, tx db.Transactor, emitter *events.Emitter) *Service {
	return &Service{
		medications:   medications,
		prescriptions: prescriptions,
		tx:            tx,
		events:        emitter,
		now:           time.Now,
	}
}

func (s *Service) PrepareMedication(_ context.Context, m *Medication) error {
	if strings.TrimSpace(m.Name) == "" {
		return crud.Invalidf("name is required")
	}
	if m.UnitPrice != nil && *m.UnitPrice < 0 {
		return crud.Invalidf("unitPrice must not be negative")
	}
	return nil
}

// PreparePrescription validates a prescription. New prescriptions must
// reference an active catalog entry.
func (s *Service) PreparePrescription(ctx context.Context, p *Prescription) error {
	if p.PatientID == 0 || p.ProviderID == 0 || p.MedicationID == 0 {
		return crud.Invalidf("patientId, providerId and medicationId are required")
	}
	if strings.TrimSpace(p.Dosage) == "" || strings.TrimSpace(p.Frequency) == "" {
		return crud.Invalidf("dosage and frequency are required")
	}
	if p.Refills < 0 {
		return crud.Invalidf("refills must not be negative")
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		return crud.Invalidf("quantity must be positive")
	}
	if p.StartDate.IsZero() {
		p.StartDate = s.now().UTC()
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return crud.Invalidf("endDate must not be before startDate")
	}

	m, err := s.medications.GetByID(ctx, p.MedicationID)
	if db.IsNotFound(err) {
		return crud.Invalidf("medication %d does not exist", p.MedicationID)
	}
	if err != nil {
		return err
	}
	if p.ID == 0 && !m.IsActive {
		return crud.Invalidf("medication %q is not active", m.Name)
	}
	return validPrescriptionStatuses.Normalize("status", &p.Status, PrescriptionActive)
}

// PrescriptionCreated publishes the creation event once the unit of work commits.
func (s *Service) PrescriptionCreated(ctx context.Context, p *Prescription) {
	s.events.Emit(ctx, events.PrescriptionCreated, p.ID, map[string]any{
		"patientId":    p.PatientID,
		"providerId":   p.ProviderID,
		"medicationId": p.MedicationID,
	})
}

// Discontinue stops an active prescription as of now.
func (s *Service) Discontinue(ctx context.Context, id int64) (*Prescription, error) {
	var out *Prescription
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		p, err := s.prescriptions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == PrescriptionDiscontinued {
			return crud.Conflictf("prescription %d is already discontinued", id)
		}
		now := s.now().UTC()
		p.Status = PrescriptionDiscontinued
		p.EndDate = &now
		out, err = s.prescriptions.Update(ctx, p)
		return err
	})
	return out, err
}

func (s *Service) SearchMedications(ctx context.Context, term string) ([]*Medication, error) {
	return s.medications.Search(ctx, term)
}

func (s *Service) ActiveMedications(ctx context.Context) ([]*Medication, error) {
	return s.medications.GetActive(ctx)
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*Prescription, error) {
	return s.prescriptions.GetByPatient(ctx, patientID)
}

func (s *Service) ActiveByPatient(ctx context.Context, patientID int64) ([]*Prescription, error) {
	return s.prescriptions.GetActiveByPatient(ctx, patientID)
}

func (s *Service) ByProvider(ctx context.Context, providerID int64) ([]*Prescription, error) {
	return s.prescriptions.GetByProvider(ctx, providerID)
}

func (s *Service) Details(ctx context.Context, id int64) (*PrescriptionWithMedication, error) {
	return s.prescriptions.GetWithMedication(ctx, id)
}
