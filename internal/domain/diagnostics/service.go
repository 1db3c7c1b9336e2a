package diagnostics

import (
	"context"
	"strings"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

var (
	validOrderStatuses = crud.NewStatusSet(OrderPending, OrderCollected, OrderInProgress, OrderCompleted, OrderCancelled)
	validPriorities    = crud.NewStatusSet(PriorityRoutine, PriorityUrgent, PrioritySTAT)
)

type Service struct {
	orders  LabOrderRepository
	results LabResultRepository
	tx      db.Transactor
	events  *events.Emitter
	now     func() time.Time
}

func NewService(orders LabOrderRepository, results LabResultRepository, tx db.Transactor, emitter *events.Emitter) *Service {
	return &Service{orders: orders, results: results, tx: tx, events: emitter, now: time.Now}
}

func (s *Service) PrepareOrder(_ context.Context, o *LabOrder) error {
	if o.PatientID == 0 || o.ProviderID == 0 {
		return crud.Invalidf("patientId and providerId are required")
	}
	if strings.TrimSpace(o.TestName) == "" {
		return crud.Invalidf("testName is required")
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = s.now().UTC()
	}
	if err := validPriorities.Normalize("priority", &o.Priority, PriorityRoutine); err != nil {
		return err
	}
	return validOrderStatuses.Normalize("status", &o.Status, OrderPending)
}

func (s *Service) PrepareResult(ctx context.Context, r *LabResult) error {
	if r.LabOrderID == 0 {
		return crud.Invalidf("labOrderId is required")
	}
	if strings.TrimSpace(r.ComponentName) == "" || strings.TrimSpace(r.Value) == "" {
		return crud.Invalidf("componentName and value are required")
	}
	if r.ResultDate.IsZero() {
		r.ResultDate = s.now().UTC()
	}
	return nil
}

// SetStatus moves an order to status, stamping the collection date when it is
// first marked Collected.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*LabOrder, error) {
	if !validOrderStatuses[status] {
		return nil, crud.Invalidf("invalid status %q", status)
	}
	var out *LabOrder
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		o.Status = status
		if status == OrderCollected && o.CollectionDate == nil {
			now := s.now().UTC()
			o.CollectionDate = &now
		}
		out, err = s.orders.Update(ctx, o)
		return err
	})
	return out, err
}

// RecordResult adds r to order orderID. An order that is still Pending or
// Collected moves to InProgress; results cannot be added to a cancelled order.
func (s *Service) RecordResult(ctx context.Context, orderID int64, r *LabResult) (*LabResult, error) {
	r.LabOrderID = orderID
	var out *LabResult
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status == OrderCancelled {
			return crud.Conflictf("lab order %d is cancelled", orderID)
		}
		if err := s.PrepareResult(ctx, r); err != nil {
			return err
		}
		if out, err = s.results.Add(ctx, r); err != nil {
			return err
		}
		if o.Status == OrderPending || o.Status == OrderCollected {
			o.Status = OrderInProgress
			if _, err := s.orders.Update(ctx, o); err != nil {
				return err
			}
		}
		s.events.Emit(ctx, events.LabResultRecorded, out.ID, map[string]any{
			"labOrderId": orderID,
			"patientId":  o.PatientID,
			"abnormal":   out.IsAbnormal,
		})
		return nil
	})
	return out, err
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*LabOrder, error) {
	return s.orders.GetByPatient(ctx, patientID)
}

func (s *Service) Pending(ctx context.Context) ([]*LabOrder, error) {
	return s.orders.GetPending(ctx)
}

func (s *Service) ByStatus(ctx context.Context, status string) ([]*LabOrder, error) {
	return s.orders.GetByStatus(ctx, status)
}

func (s *Service) WithResults(ctx context.Context, id int64) (*OrderWithResults, error) {
	return s.orders.GetWithResults(ctx, id)
}

func (s *Service) Results(ctx context.Context, orderID int64) ([]*LabResult, error) {
	return s.results.GetByLabOrder(ctx, orderID)
}

func (s *Service) AbnormalByPatient(ctx context.Context, patientID int64) ([]*LabResult, error) {
	return s.results.GetAbnormalByPatient(ctx, patientID)
}
