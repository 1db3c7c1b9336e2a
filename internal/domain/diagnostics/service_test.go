package diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/crud/crudtest"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

type mockOrderRepo struct {
	*crudtest.MemStore[LabOrder, *LabOrder]
	results *mockResultRepo
}

func (m *mockOrderRepo) GetByPatient(_ context.Context, id int64) ([]*LabOrder, error) {
	return m.Where(func(o *LabOrder) bool { return o.PatientID == id }), nil
}

func (m *mockOrderRepo) GetPending(_ context.Context) ([]*LabOrder, error) {
	return m.Where(func(o *LabOrder) bool { return o.Status == OrderPending }), nil
}

func (m *mockOrderRepo) GetByStatus(_ context.Context, status string) ([]*LabOrder, error) {
	return m.Where(func(o *LabOrder) bool { return o.Status == status }), nil
}

func (m *mockOrderRepo) GetWithResults(ctx context.Context, id int64) (*OrderWithResults, error) {
	o, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rs, _ := m.results.GetByLabOrder(ctx, id)
	return &OrderWithResults{Order: o, Results: rs}, nil
}

type mockResultRepo struct {
	*crudtest.MemStore[LabResult, *LabResult]
	orders *mockOrderRepo
}

func (m *mockResultRepo) GetByLabOrder(_ context.Context, id int64) ([]*LabResult, error) {
	return m.Where(func(r *LabResult) bool { return r.LabOrderID == id }), nil
}

func (m *mockResultRepo) GetAbnormalByPatient(ctx context.Context, patientID int64) ([]*LabResult, error) {
	return m.Where(func(r *LabResult) bool {
		o, err := m.orders.GetByID(ctx, r.LabOrderID)
		return err == nil && o.PatientID == patientID && r.IsAbnormal
	}), nil
}

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	orders  *mockOrderRepo
	results *mockResultRepo
	events  *events.Recorder
}

func newFixture() *fixture {
	orders := &mockOrderRepo{MemStore: crudtest.NewMemStore[LabOrder]()}
	results := &mockResultRepo{MemStore: crudtest.NewMemStore[LabResult](), orders: orders}
	orders.results = results
	f := &fixture{orders: orders, results: results, events: &events.Recorder{}}
	f.svc = NewService(orders, results, db.NopTransactor{}, events.NewEmitter(f.events, zerolog.Nop()))
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func TestPrepareOrder(t *testing.T) {
	f := newFixture()
	o := &LabOrder{PatientID: 1, ProviderID: 2, TestName: "CBC"}
	if err := f.svc.PrepareOrder(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	if o.Status != OrderPending || o.Priority != PriorityRoutine || !o.OrderDate.Equal(fixedNow) {
		t.Errorf("defaults = %+v", o)
	}

	for _, bad := range []*LabOrder{
		{PatientID: 1, TestName: "CBC"},
		{PatientID: 1, ProviderID: 2},
		{PatientID: 1, ProviderID: 2, TestName: "CBC", Priority: "Whenever"},
		{PatientID: 1, ProviderID: 2, TestName: "CBC", Status: "Lost"},
	} {
		if err := f.svc.PrepareOrder(context.Background(), bad); !crud.IsValidation(err) {
			t.Errorf("%+v: err = %v", bad, err)
		}
	}
}

func TestRecordResult_AdvancesOrder(t *testing.T) {
	tests := []struct {
		from, want string
	}{
		{OrderPending, OrderInProgress},
		{OrderCollected, OrderInProgress},
		{OrderInProgress, OrderInProgress},
		{OrderCompleted, OrderCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			o, _ := f.orders.Add(ctx, &LabOrder{PatientID: 1, ProviderID: 2, TestName: "BMP", Status: tt.from})

			r, err := f.svc.RecordResult(ctx, o.ID, &LabResult{ComponentName: "Potassium", Value: "5.9", IsAbnormal: true})
			if err != nil {
				t.Fatal(err)
			}
			if r.LabOrderID != o.ID || !r.ResultDate.Equal(fixedNow) {
				t.Errorf("result = %+v", r)
			}
			got, _ := f.orders.GetByID(ctx, o.ID)
			if got.Status != tt.want {
				t.Errorf("order status = %q, want %q", got.Status, tt.want)
			}
			if types := f.events.Types(); len(types) != 1 || types[0] != events.LabResultRecorded {
				t.Errorf("events = %v", types)
			}
		})
	}
}

func TestRecordResult_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cancelled, _ := f.orders.Add(ctx, &LabOrder{PatientID: 1, Status: OrderCancelled})
	open, _ := f.orders.Add(ctx, &LabOrder{PatientID: 1, Status: OrderPending})

	if _, err := f.svc.RecordResult(ctx, cancelled.ID, &LabResult{ComponentName: "x", Value: "1"}); !errors.Is(err, crud.ErrConflict) {
		t.Errorf("cancelled order err = %v", err)
	}
	if _, err := f.svc.RecordResult(ctx, 99, &LabResult{ComponentName: "x", Value: "1"}); !db.IsNotFound(err) {
		t.Errorf("missing order err = %v", err)
	}
	if _, err := f.svc.RecordResult(ctx, open.ID, &LabResult{ComponentName: "x"}); !crud.IsValidation(err) {
		t.Errorf("missing value err = %v", err)
	}
	if got, _ := f.orders.GetByID(ctx, open.ID); got.Status != OrderPending {
		t.Errorf("invalid result changed order to %q", got.Status)
	}
	if n := len(f.events.Events()); n != 0 {
		t.Errorf("events = %d, want 0", n)
	}
}

func TestSetStatus_StampsCollection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, _ := f.orders.Add(ctx, &LabOrder{PatientID: 1, Status: OrderPending})

	got, err := f.svc.SetStatus(ctx, o.ID, OrderCollected)
	if err != nil {
		t.Fatal(err)
	}
	if got.CollectionDate == nil || !got.CollectionDate.Equal(fixedNow) {
		t.Errorf("collection date = %v", got.CollectionDate)
	}
	if _, err := f.svc.SetStatus(ctx, o.ID, "Misplaced"); !crud.IsValidation(err) {
		t.Errorf("bad status err = %v", err)
	}
}

func TestAbnormalByPatient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mine, _ := f.orders.Add(ctx, &LabOrder{PatientID: 1})
	theirs, _ := f.orders.Add(ctx, &LabOrder{PatientID: 2})
	f.results.Add(ctx, &LabResult{LabOrderID: mine.ID, ComponentName: "LDL", IsAbnormal: true})
	f.results.Add(ctx, &LabResult{LabOrderID: mine.ID, ComponentName: "HDL"})
	f.results.Add(ctx, &LabResult{LabOrderID: theirs.ID, ComponentName: "ALT", IsAbnormal: true})

	got, _ := f.svc.AbnormalByPatient(ctx, 1)
	if len(got) != 1 || got[0].ComponentName != "LDL" {
		t.Errorf("abnormal = %v", got)
	}
}
