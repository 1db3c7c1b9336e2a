package clinical

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

var (
	validDiagnosisStatuses   = crud.NewStatusSet(DiagnosisActive, DiagnosisChronic, DiagnosisResolved, DiagnosisRuledOut)
	validProcedureStatuses   = crud.NewStatusSet(ProcedurePlanned, ProcedureInProgress, ProcedureCompleted, ProcedureCancelled)
	validObservationStatuses = crud.NewStatusSet(ObservationPreliminary, ObservationFinal, ObservationAmended, ObservationCancelled)
	validReferralStatuses    = crud.NewStatusSet(ReferralPending, ReferralAccepted, ReferralScheduled, ReferralCompleted, ReferralDeclined, ReferralCancelled)
	validSeverities          = crud.NewStatusSet("Mild", "Moderate", "Severe", "LifeThreatening")
)

// Stores groups the repositories the clinical service works over.
type Stores struct {
	Records       MedicalRecordRepository
	Diagnoses     DiagnosisRepository
	Procedures    ProcedureRepository
	Observations  ObservationRepository
	Notes         ClinicalNoteRepository
	Allergies     AllergyRepository
	Vitals        VitalSignRepository
	FamilyHistory FamilyHistoryRepository
	Referrals     ReferralRepository
}

type Service struct {
	Stores
	tx  db.Transactor
	now func() time.Time
}

func NewService(stores Stores, tx db.Transactor) *Service {
	return &Service{Stores: stores, tx: tx, now: time.Now}
}

func (s *Service) defaultTime(t *time.Time) {
	if t.IsZero() {
		*t = s.now().UTC()
	}
}

func requireRefs(patientID, providerID int64) error {
	if patientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	if providerID == 0 {
		return crud.Invalidf("providerId is required")
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func checkSeverity(v *string) error {
	if v == nil {
		return nil
	}
	return validSeverities.Normalize("severity", v, "")
}

// -- Prepare hooks, run before every insert and update --

func (s *Service) PrepareMedicalRecord(_ context.Context, m *MedicalRecord) error {
	if err := requireRefs(m.PatientID, m.ProviderID); err != nil {
		return err
	}
	if blank(m.Title) || blank(m.RecordType) {
		return crud.Invalidf("title and recordType are required")
	}
	s.defaultTime(&m.RecordDate)
	return nil
}

func (s *Service) PrepareDiagnosis(_ context.Context, d *Diagnosis) error {
	if err := requireRefs(d.PatientID, d.ProviderID); err != nil {
		return err
	}
	if blank(d.ICDCode) || blank(d.Description) {
		return crud.Invalidf("icdCode and description are required")
	}
	d.ICDCode = strings.ToUpper(strings.TrimSpace(d.ICDCode))
	s.defaultTime(&d.DiagnosisDate)
	if err := checkSeverity(d.Severity); err != nil {
		return err
	}
	return validDiagnosisStatuses.Normalize("status", &d.Status, DiagnosisActive)
}

func (s *Service) PrepareProcedure(_ context.Context, p *Procedure) error {
	if err := requireRefs(p.PatientID, p.ProviderID); err != nil {
		return err
	}
	if blank(p.CPTCode) || blank(p.Description) {
		return crud.Invalidf("cptCode and description are required")
	}
	s.defaultTime(&p.ProcedureDate)
	return validProcedureStatuses.Normalize("status", &p.Status, ProcedureCompleted)
}

func (s *Service) PrepareObservation(_ context.Context, o *Observation) error {
	if o.PatientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	if blank(o.Name) {
		return crud.Invalidf("name is required")
	}
	if o.Value == nil && o.ValueNumeric == nil {
		return crud.Invalidf("value or valueNumeric is required")
	}
	s.defaultTime(&o.ObservationDate)
	return validObservationStatuses.Normalize("status", &o.Status, ObservationFinal)
}

// PrepareClinicalNote rejects edits to a signed note.
func (s *Service) PrepareClinicalNote(_ context.Context, n *ClinicalNote) error {
	if n.ID != 0 && n.IsSigned {
		return crud.Conflictf("clinical note %d is signed", n.ID)
	}
	if err := requireRefs(n.PatientID, n.ProviderID); err != nil {
		return err
	}
	if blank(n.NoteType) || blank(n.Title) || blank(n.Content) {
		return crud.Invalidf("noteType, title and content are required")
	}
	return nil
}

// PrepareAllergy activates new allergies.
func (s *Service) PrepareAllergy(_ context.Context, a *Allergy) error {
	if a.PatientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	if blank(a.Allergen) {
		return crud.Invalidf("allergen is required")
	}
	if a.ID == 0 {
		a.IsActive = true
	}
	return checkSeverity(a.Severity)
}

// PrepareVitalSign range-checks the readings and derives BMI from weight (kg)
// and height (cm) when it is not given.
func (s *Service) PrepareVitalSign(_ context.Context, v *VitalSign) error {
	if v.PatientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	s.defaultTime(&v.RecordedDate)

	if v.Temperature != nil && (*v.Temperature < 25 || *v.Temperature > 45) {
		return crud.Invalidf("temperature %.1f outside 25-45 °C", *v.Temperature)
	}
	if v.OxygenSaturation != nil && (*v.OxygenSaturation < 0 || *v.OxygenSaturation > 100) {
		return crud.Invalidf("oxygenSaturation must be between 0 and 100")
	}
	for name, val := range map[string]*int32{
		"heartRate": v.HeartRate, "respiratoryRate": v.RespiratoryRate,
		"systolicBp": v.SystolicBP, "diastolicBp": v.DiastolicBP,
	} {
		if val != nil && (*val <= 0 || *val > 300) {
			return crud.Invalidf("%s %d out of range", name, *val)
		}
	}
	if v.SystolicBP != nil && v.DiastolicBP != nil && *v.DiastolicBP >= *v.SystolicBP {
		return crud.Invalidf("diastolicBp must be below systolicBp")
	}

	if v.BMI == nil && v.Weight != nil && v.Height != nil && *v.Height > 0 {
		m := *v.Height / 100
		bmi := math.Round(*v.Weight/(m*m)*100) / 100
		v.BMI = &bmi
	}
	return nil
}

func (s *Service) PrepareFamilyHistory(_ context.Context, f *FamilyHistory) error {
	if f.PatientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	if blank(f.Relationship) || blank(f.Condition) {
		return crud.Invalidf("relationship and condition are required")
	}
	if f.AgeAtOnset != nil && *f.AgeAtOnset < 0 {
		return crud.Invalidf("ageAtOnset must not be negative")
	}
	return nil
}

func (s *Service) PrepareReferral(_ context.Context, r *Referral) error {
	if err := requireRefs(r.PatientID, r.ReferringProviderID); err != nil {
		return err
	}
	if blank(r.Reason) {
		return crud.Invalidf("reason is required")
	}
	if r.ReferredToProviderID != nil && *r.ReferredToProviderID == r.ReferringProviderID {
		return crud.Invalidf("a provider cannot refer to themselves")
	}
	s.defaultTime(&r.ReferralDate)
	return validReferralStatuses.Normalize("status", &r.Status, ReferralPending)
}

// SignNote signs a clinical note. Signing twice is a conflict.
func (s *Service) SignNote(ctx context.Context, id int64) (*ClinicalNote, error) {
	var out *ClinicalNote
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		n, err := s.Notes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if n.IsSigned {
			return crud.Conflictf("clinical note %d is already signed", id)
		}
		now := s.now().UTC()
		n.IsSigned = true
		n.SignedDate = &now
		out, err = s.Notes.Update(ctx, n)
		return err
	})
	return out, err
}

// UnsignedNotes lists notes awaiting signature; providerID 0 means all providers.
func (s *Service) UnsignedNotes(ctx context.Context, providerID int64) ([]*ClinicalNote, error) {
	return s.Notes.GetUnsigned(ctx, providerID)
}

func (s *Service) ProceduresInRange(ctx context.Context, from, to time.Time) ([]*Procedure, error) {
	if to.Before(from) {
		return nil, crud.Invalidf("to must not be before from")
	}
	return s.Procedures.GetByDateRange(ctx, from, to)
}

// LatestVitals returns the most recent vital signs for a patient.
func (s *Service) LatestVitals(ctx context.Context, patientID int64) (*VitalSign, error) {
	return s.Vitals.GetLatestForPatient(ctx, patientID)
}

// PatientSummary is the problem list view of one patient.
type PatientSummary struct {
	ActiveDiagnoses []*Diagnosis
	ActiveAllergies []*Allergy
	LatestVitals    *VitalSign
}

// Summary collects active diagnoses, active allergies and the latest vitals.
// Missing vitals are not an error.
func (s *Service) Summary(ctx context.Context, patientID int64) (*PatientSummary, error) {
	dx, err := s.Diagnoses.GetActiveByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	allergies, err := s.Allergies.GetActiveByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	vitals, err := s.Vitals.GetLatestForPatient(ctx, patientID)
	if err != nil && !db.IsNotFound(err) {
		return nil, err
	}
	return &PatientSummary{ActiveDiagnoses: dx, ActiveAllergies: allergies, LatestVitals: vitals}, nil
}
