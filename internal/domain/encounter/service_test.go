package encounter

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/domain/clinical"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/crud/crudtest"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

type mockEncounterRepo struct {
	*crudtest.MemStore[Encounter, *Encounter]
	diagnoses []*clinical.Diagnosis
}

func recentFirst(items []*Encounter) []*Encounter {
	sort.SliceStable(items, func(i, j int) bool { return items[i].StartDate.After(items[j].StartDate) })
	return items
}

func (m *mockEncounterRepo) GetByPatient(_ context.Context, id int64) ([]*Encounter, error) {
	return recentFirst(m.Where(func(e *Encounter) bool { return e.PatientID == id })), nil
}

func (m *mockEncounterRepo) GetByProvider(_ context.Context, id int64) ([]*Encounter, error) {
	return recentFirst(m.Where(func(e *Encounter) bool { return e.ProviderID == id })), nil
}

func (m *mockEncounterRepo) GetByStatus(_ context.Context, status string) ([]*Encounter, error) {
	return m.Where(func(e *Encounter) bool { return e.Status == status }), nil
}

func (m *mockEncounterRepo) GetByDateRange(_ context.Context, from, to time.Time) ([]*Encounter, error) {
	return m.Where(func(e *Encounter) bool {
		return !e.StartDate.Before(from) && !e.StartDate.After(to)
	}), nil
}

func (m *mockEncounterRepo) GetWithDetails(ctx context.Context, id int64) (*Details, error) {
	e, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Details{Encounter: e}
	for _, dx := range m.diagnoses {
		if dx.EncounterID != nil && *dx.EncounterID == id {
			d.Diagnoses = append(d.Diagnoses, dx)
		}
	}
	return d, nil
}

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockEncounterRepo, *events.Recorder) {
	repo := &mockEncounterRepo{MemStore: crudtest.NewMemStore[Encounter]()}
	rec := &events.Recorder{}
	svc := NewService(repo, db.NopTransactor{}, events.NewEmitter(rec, zerolog.Nop()))
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, rec
}

func TestPrepareEncounter_Defaults(t *testing.T) {
	svc, _, _ := newTestService()
	e := &Encounter{PatientID: 1, ProviderID: 2}
	if err := svc.PrepareEncounter(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if e.Status != StatusPlanned {
		t.Errorf("status = %q, want %q", e.Status, StatusPlanned)
	}
	if !e.StartDate.Equal(fixedNow) {
		t.Errorf("start date = %v", e.StartDate)
	}
}

func TestPrepareEncounter_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	before := fixedNow.Add(-time.Hour)
	tests := []struct {
		name string
		e    Encounter
	}{
		{"no provider", Encounter{PatientID: 1}},
		{"unknown status", Encounter{PatientID: 1, ProviderID: 2, Status: "Done"}},
		{"end before start", Encounter{PatientID: 1, ProviderID: 2, StartDate: fixedNow, EndDate: &before}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.PrepareEncounter(context.Background(), &tt.e); !crud.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSetStatus_EmitsAndStampsEndDate(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()
	e, _ := repo.Add(ctx, &Encounter{PatientID: 1, ProviderID: 2, Status: StatusInProgress, StartDate: fixedNow})

	got, err := svc.SetStatus(ctx, e.ID, StatusFinished)
	if err != nil {
		t.Fatal(err)
	}
	if got.EndDate == nil || !got.EndDate.Equal(fixedNow) {
		t.Errorf("end date = %v", got.EndDate)
	}
	if types := rec.Types(); len(types) != 1 || types[0] != events.EncounterStatusChanged {
		t.Errorf("events = %v", types)
	}

	// Unchanged status is saved but not announced.
	if _, err := svc.SetStatus(ctx, e.ID, StatusFinished); err != nil {
		t.Fatal(err)
	}
	if len(rec.Events()) != 1 {
		t.Errorf("expected no event for a no-op transition")
	}

	// Transitions are not guarded: a finished encounter may be re-planned.
	if _, err := svc.SetStatus(ctx, e.ID, StatusPlanned); err != nil {
		t.Errorf("unguarded transition rejected: %v", err)
	}
	if _, err := svc.SetStatus(ctx, e.ID, "Archived"); !crud.IsValidation(err) {
		t.Errorf("unknown status: %v", err)
	}
}

func TestDetails(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	e, _ := repo.Add(ctx, &Encounter{PatientID: 1, ProviderID: 2, Status: StatusArrived, StartDate: fixedNow})
	other := int64(99)
	repo.diagnoses = []*clinical.Diagnosis{
		{PatientID: 1, EncounterID: &e.ID, ICDCode: "J10.1", Description: "Influenza"},
		{PatientID: 1, EncounterID: &other, ICDCode: "I10", Description: "Hypertension"},
	}

	d, err := svc.Details(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Diagnoses) != 1 || d.Diagnoses[0].ICDCode != "J10.1" {
		t.Errorf("diagnoses = %+v", d.Diagnoses)
	}
	dto := toDetailsDTO(d)
	if dto.Procedures == nil || dto.Notes == nil {
		t.Error("empty detail collections should serialize as []")
	}
}
