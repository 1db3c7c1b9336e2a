package clinical

import (
	"context"
	"sort"
	"time"

	"github.com/emr/emr/internal/platform/crud/crudtest"
	"github.com/emr/emr/internal/platform/db"
)

func encounterIs(p *int64, id int64) bool { return p != nil && *p == id }

type mockRecords struct {
	*crudtest.MemStore[MedicalRecord, *MedicalRecord]
}

func (m *mockRecords) GetByPatient(_ context.Context, id int64) ([]*MedicalRecord, error) {
	return m.Where(func(r *MedicalRecord) bool { return r.PatientID == id }), nil
}

func (m *mockRecords) GetByProvider(_ context.Context, id int64) ([]*MedicalRecord, error) {
	return m.Where(func(r *MedicalRecord) bool { return r.ProviderID == id }), nil
}

type mockDiagnoses struct {
	*crudtest.MemStore[Diagnosis, *Diagnosis]
}

func (m *mockDiagnoses) GetByPatient(_ context.Context, id int64) ([]*Diagnosis, error) {
	return m.Where(func(d *Diagnosis) bool { return d.PatientID == id }), nil
}

func (m *mockDiagnoses) GetByEncounter(_ context.Context, id int64) ([]*Diagnosis, error) {
	return m.Where(func(d *Diagnosis) bool { return encounterIs(d.EncounterID, id) }), nil
}

func (m *mockDiagnoses) GetActiveByPatient(_ context.Context, id int64) ([]*Diagnosis, error) {
	return m.Where(func(d *Diagnosis) bool {
		return d.PatientID == id && (d.Status == DiagnosisActive || d.Status == DiagnosisChronic)
	}), nil
}

type mockProcedures struct {
	*crudtest.MemStore[Procedure, *Procedure]
}

func (m *mockProcedures) GetByPatient(_ context.Context, id int64) ([]*Procedure, error) {
	return m.Where(func(p *Procedure) bool { return p.PatientID == id }), nil
}

func (m *mockProcedures) GetByEncounter(_ context.Context, id int64) ([]*Procedure, error) {
	return m.Where(func(p *Procedure) bool { return encounterIs(p.EncounterID, id) }), nil
}

func (m *mockProcedures) GetByDateRange(_ context.Context, from, to time.Time) ([]*Procedure, error) {
	return m.Where(func(p *Procedure) bool {
		return !p.ProcedureDate.Before(from) && !p.ProcedureDate.After(to)
	}), nil
}

type mockObservations struct {
	*crudtest.MemStore[Observation, *Observation]
}

func (m *mockObservations) GetByPatient(_ context.Context, id int64) ([]*Observation, error) {
	return m.Where(func(o *Observation) bool { return o.PatientID == id }), nil
}

func (m *mockObservations) GetByEncounter(_ context.Context, id int64) ([]*Observation, error) {
	return m.Where(func(o *Observation) bool { return encounterIs(o.EncounterID, id) }), nil
}

func (m *mockObservations) GetByPatientAndCode(_ context.Context, id int64, code string) ([]*Observation, error) {
	return m.Where(func(o *Observation) bool {
		return o.PatientID == id && db.Deref(o.LOINCCode) == code
	}), nil
}

type mockNotes struct {
	*crudtest.MemStore[ClinicalNote, *ClinicalNote]
}

func (m *mockNotes) GetByPatient(_ context.Context, id int64) ([]*ClinicalNote, error) {
	return m.Where(func(n *ClinicalNote) bool { return n.PatientID == id }), nil
}

func (m *mockNotes) GetByEncounter(_ context.Context, id int64) ([]*ClinicalNote, error) {
	return m.Where(func(n *ClinicalNote) bool { return encounterIs(n.EncounterID, id) }), nil
}

func (m *mockNotes) GetUnsigned(_ context.Context, providerID int64) ([]*ClinicalNote, error) {
	return m.Where(func(n *ClinicalNote) bool {
		return !n.IsSigned && (providerID == 0 || n.ProviderID == providerID)
	}), nil
}

type mockAllergies struct {
	*crudtest.MemStore[Allergy, *Allergy]
}

func (m *mockAllergies) GetByPatient(_ context.Context, id int64) ([]*Allergy, error) {
	return m.Where(func(a *Allergy) bool { return a.PatientID == id }), nil
}

func (m *mockAllergies) GetActiveByPatient(_ context.Context, id int64) ([]*Allergy, error) {
	return m.Where(func(a *Allergy) bool { return a.PatientID == id && a.IsActive }), nil
}

type mockVitals struct {
	*crudtest.MemStore[VitalSign, *VitalSign]
}

func (m *mockVitals) GetByPatient(_ context.Context, id int64) ([]*VitalSign, error) {
	return m.Where(func(v *VitalSign) bool { return v.PatientID == id }), nil
}

func (m *mockVitals) GetByEncounter(_ context.Context, id int64) ([]*VitalSign, error) {
	return m.Where(func(v *VitalSign) bool { return encounterIs(v.EncounterID, id) }), nil
}

func (m *mockVitals) GetLatestForPatient(ctx context.Context, id int64) (*VitalSign, error) {
	items, _ := m.GetByPatient(ctx, id)
	if len(items) == 0 {
		return nil, db.ErrNotFound
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].RecordedDate.After(items[j].RecordedDate) })
	return items[0], nil
}

type mockFamily struct {
	*crudtest.MemStore[FamilyHistory, *FamilyHistory]
}

func (m *mockFamily) GetByPatient(_ context.Context, id int64) ([]*FamilyHistory, error) {
	return m.Where(func(f *FamilyHistory) bool { return f.PatientID == id }), nil
}

type mockReferrals struct {
	*crudtest.MemStore[Referral, *Referral]
}

func (m *mockReferrals) GetByPatient(_ context.Context, id int64) ([]*Referral, error) {
	return m.Where(func(r *Referral) bool { return r.PatientID == id }), nil
}

func (m *mockReferrals) GetByStatus(_ context.Context, status string) ([]*Referral, error) {
	return m.Where(func(r *Referral) bool { return r.Status == status }), nil
}

func (m *mockReferrals) GetByReferringProvider(_ context.Context, id int64) ([]*Referral, error) {
	return m.Where(func(r *Referral) bool { return r.ReferringProviderID == id }), nil
}

func (m *mockReferrals) GetByReferredToProvider(_ context.Context, id int64) ([]*Referral, error) {
	return m.Where(func(r *Referral) bool { return encounterIs(r.ReferredToProviderID, id) }), nil
}

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	diagnoses *mockDiagnoses
	notes     *mockNotes
	vitals    *mockVitals
	allergies *mockAllergies
	referrals *mockReferrals
}

func newFixture() *fixture {
	f := &fixture{
		diagnoses: &mockDiagnoses{crudtest.NewMemStore[Diagnosis]()},
		notes:     &mockNotes{crudtest.NewMemStore[ClinicalNote]()},
		vitals:    &mockVitals{crudtest.NewMemStore[VitalSign]()},
		allergies: &mockAllergies{crudtest.NewMemStore[Allergy]()},
		referrals: &mockReferrals{crudtest.NewMemStore[Referral]()},
	}
	f.svc = NewService(Stores{
		Records:       &mockRecords{crudtest.NewMemStore[MedicalRecord]()},
		Diagnoses:     f.diagnoses,
		Procedures:    &mockProcedures{crudtest.NewMemStore[Procedure]()},
		Observations:  &mockObservations{crudtest.NewMemStore[Observation]()},
		Notes:         f.notes,
		Allergies:     f.allergies,
		Vitals:        f.vitals,
		FamilyHistory: &mockFamily{crudtest.NewMemStore[FamilyHistory]()},
		Referrals:     f.referrals,
	}, db.NopTransactor{})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}
