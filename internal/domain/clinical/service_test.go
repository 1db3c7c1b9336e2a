package clinical

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

func ptr[T any](v T) *T { return &v }

func TestPrepareDiagnosis(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	d := &Diagnosis{PatientID: 1, ProviderID: 2, ICDCode: " e11.9 ", Description: "Type 2 diabetes"}
	if err := f.svc.PrepareDiagnosis(ctx, d); err != nil {
		t.Fatal(err)
	}
	if d.Status != DiagnosisActive || d.ICDCode != "E11.9" || !d.DiagnosisDate.Equal(fixedNow) {
		t.Errorf("defaults not applied: %+v", d)
	}

	tests := []struct {
		name string
		dx   Diagnosis
	}{
		{"missing patient", Diagnosis{ProviderID: 2, ICDCode: "I10", Description: "x"}},
		{"missing code", Diagnosis{PatientID: 1, ProviderID: 2, Description: "x"}},
		{"bad status", Diagnosis{PatientID: 1, ProviderID: 2, ICDCode: "I10", Description: "x", Status: "Gone"}},
		{"bad severity", Diagnosis{PatientID: 1, ProviderID: 2, ICDCode: "I10", Description: "x", Severity: ptr("Extreme")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.svc.PrepareDiagnosis(ctx, &tt.dx); !crud.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestPrepareObservation_RequiresValue(t *testing.T) {
	f := newFixture()
	o := &Observation{PatientID: 1, Name: "HbA1c"}
	if err := f.svc.PrepareObservation(context.Background(), o); !crud.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	o.ValueNumeric = ptr(6.8)
	if err := f.svc.PrepareObservation(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	if o.Status != ObservationFinal {
		t.Errorf("status = %q", o.Status)
	}
}

func TestPrepareVitalSign(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	v := &VitalSign{PatientID: 1, Weight: ptr(70.0), Height: ptr(175.0), SystolicBP: ptr(int32(120)), DiastolicBP: ptr(int32(80))}
	if err := f.svc.PrepareVitalSign(ctx, v); err != nil {
		t.Fatal(err)
	}
	if v.BMI == nil || *v.BMI != 22.86 {
		t.Errorf("bmi = %v, want 22.86", v.BMI)
	}
	if !v.RecordedDate.Equal(fixedNow) {
		t.Errorf("recorded date = %v", v.RecordedDate)
	}

	bad := []*VitalSign{
		{PatientID: 1, Temperature: ptr(50.0)},
		{PatientID: 1, OxygenSaturation: ptr(101.0)},
		{PatientID: 1, HeartRate: ptr(int32(0))},
		{PatientID: 1, SystolicBP: ptr(int32(80)), DiastolicBP: ptr(int32(90))},
		{Temperature: ptr(37.0)},
	}
	for i, b := range bad {
		if err := f.svc.PrepareVitalSign(ctx, b); !crud.IsValidation(err) {
			t.Errorf("case %d: err = %v, want validation error", i, err)
		}
	}
}

func TestPrepareAllergy_NewIsActive(t *testing.T) {
	f := newFixture()
	a := &Allergy{PatientID: 1, Allergen: "Penicillin", Severity: ptr("Severe")}
	if err := f.svc.PrepareAllergy(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if !a.IsActive {
		t.Error("new allergy should be active")
	}

	a.ID = 5
	a.IsActive = false
	if err := f.svc.PrepareAllergy(context.Background(), a); err != nil || a.IsActive {
		t.Errorf("update should keep IsActive=false, err=%v", err)
	}
}

func TestPrepareReferral(t *testing.T) {
	f := newFixture()
	r := &Referral{PatientID: 1, ReferringProviderID: 2, Reason: "cardiology opinion"}
	if err := f.svc.PrepareReferral(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if r.Status != ReferralPending {
		t.Errorf("status = %q", r.Status)
	}

	self := &Referral{PatientID: 1, ReferringProviderID: 2, ReferredToProviderID: ptr(int64(2)), Reason: "x"}
	if err := f.svc.PrepareReferral(context.Background(), self); !crud.IsValidation(err) {
		t.Errorf("self referral err = %v", err)
	}
}

func TestPrepareFamilyHistory(t *testing.T) {
	f := newFixture()
	if err := f.svc.PrepareFamilyHistory(context.Background(), &FamilyHistory{PatientID: 1, Relationship: "Mother"}); !crud.IsValidation(err) {
		t.Errorf("missing condition err = %v", err)
	}
	if err := f.svc.PrepareFamilyHistory(context.Background(), &FamilyHistory{PatientID: 1, Relationship: "Mother", Condition: "Asthma", AgeAtOnset: ptr(int32(-1))}); !crud.IsValidation(err) {
		t.Errorf("negative onset err = %v", err)
	}
}

func TestSignNote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.notes.Add(ctx, &ClinicalNote{PatientID: 1, ProviderID: 2, NoteType: "Progress", Title: "Visit", Content: "stable"})

	signed, err := f.svc.SignNote(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !signed.IsSigned || signed.SignedDate == nil || !signed.SignedDate.Equal(fixedNow) {
		t.Errorf("signed note = %+v", signed)
	}

	if _, err := f.svc.SignNote(ctx, n.ID); !errors.Is(err, crud.ErrConflict) {
		t.Errorf("second sign err = %v, want conflict", err)
	}
	if _, err := f.svc.SignNote(ctx, 99); !db.IsNotFound(err) {
		t.Errorf("missing note err = %v, want not found", err)
	}

	stored, _ := f.notes.GetByID(ctx, n.ID)
	stored.Content = "edited"
	if err := f.svc.PrepareClinicalNote(ctx, stored); !errors.Is(err, crud.ErrConflict) {
		t.Errorf("edit signed note err = %v, want conflict", err)
	}
}

func TestUnsignedNotes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.notes.Add(ctx, &ClinicalNote{PatientID: 1, ProviderID: 2, Title: "a"})
	f.notes.Add(ctx, &ClinicalNote{PatientID: 1, ProviderID: 3, Title: "b"})
	f.notes.Add(ctx, &ClinicalNote{PatientID: 1, ProviderID: 2, Title: "c", IsSigned: true})

	all, _ := f.svc.UnsignedNotes(ctx, 0)
	mine, _ := f.svc.UnsignedNotes(ctx, 2)
	if len(all) != 2 || len(mine) != 1 || mine[0].Title != "a" {
		t.Errorf("all=%d mine=%d", len(all), len(mine))
	}
}

func TestProceduresInRange_RejectsInverted(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ProceduresInRange(context.Background(), fixedNow, fixedNow.Add(-time.Hour))
	if !crud.IsValidation(err) {
		t.Errorf("err = %v", err)
	}
}

func TestSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sum, err := f.svc.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("empty summary: %v", err)
	}
	if sum.LatestVitals != nil || len(sum.ActiveDiagnoses) != 0 {
		t.Errorf("empty summary = %+v", sum)
	}

	f.diagnoses.Add(ctx, &Diagnosis{PatientID: 1, Status: DiagnosisChronic, ICDCode: "I10"})
	f.diagnoses.Add(ctx, &Diagnosis{PatientID: 1, Status: DiagnosisResolved, ICDCode: "J06.9"})
	f.allergies.Add(ctx, &Allergy{PatientID: 1, Allergen: "Latex", IsActive: true})
	f.vitals.Add(ctx, &VitalSign{PatientID: 1, RecordedDate: fixedNow.Add(-48 * time.Hour)})
	f.vitals.Add(ctx, &VitalSign{PatientID: 1, RecordedDate: fixedNow, HeartRate: ptr(int32(72))})

	sum, err = f.svc.Summary(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.ActiveDiagnoses) != 1 || sum.ActiveDiagnoses[0].ICDCode != "I10" {
		t.Errorf("active diagnoses = %+v", sum.ActiveDiagnoses)
	}
	if len(sum.ActiveAllergies) != 1 {
		t.Errorf("active allergies = %d", len(sum.ActiveAllergies))
	}
	if sum.LatestVitals == nil || sum.LatestVitals.HeartRate == nil {
		t.Errorf("latest vitals = %+v", sum.LatestVitals)
	}
}
