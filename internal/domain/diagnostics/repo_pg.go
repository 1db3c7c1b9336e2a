package diagnostics

import (
	"context"
	"fmt"

	"github.com/emr/emr/internal/platform/db"
)

type labOrderRepoPG struct {
	*db.Repository[LabOrder, *LabOrder]
	results *db.Repository[LabResult, *LabResult]
}

func NewLabOrderRepoPG(q db.Querier) LabOrderRepository {
	return &labOrderRepoPG{
		Repository: db.NewRepository[LabOrder](q),
		results:    db.NewRepository[LabResult](q),
	}
}

func (r *labOrderRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*LabOrder, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("order_date DESC"))
}

func (r *labOrderRepoPG) GetPending(ctx context.Context) ([]*LabOrder, error) {
	return r.Find(ctx, db.NewQuery().Eq("status", OrderPending).OrderBy("order_date ASC"))
}

func (r *labOrderRepoPG) GetByStatus(ctx context.Context, status string) ([]*LabOrder, error) {
	return r.Find(ctx, db.NewQuery().Eq("status", status).OrderBy("order_date DESC"))
}

func (r *labOrderRepoPG) GetWithResults(ctx context.Context, id int64) (*OrderWithResults, error) {
	o, results, err := db.FetchWith(ctx, r.Repository, r.results, id, "lab_order_id", "result_date ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("get lab order %d with results: %w", id, err)
	}
	return &OrderWithResults{Order: o, Results: results}, nil
}

type labResultRepoPG struct {
	*db.Repository[LabResult, *LabResult]
}

func NewLabResultRepoPG(q db.Querier) LabResultRepository {
	return &labResultRepoPG{db.NewRepository[LabResult](q)}
}

func (r *labResultRepoPG) GetByLabOrder(ctx context.Context, labOrderID int64) ([]*LabResult, error) {
	return r.Find(ctx, db.NewQuery().Eq("lab_order_id", labOrderID).OrderBy("result_date ASC, id ASC"))
}

func (r *labResultRepoPG) GetAbnormalByPatient(ctx context.Context, patientID int64) ([]*LabResult, error) {
	q := db.NewQuery().
		Eq("is_abnormal", true).
		Raw("lab_order_id IN (SELECT id FROM lab_orders WHERE patient_id = ?)", patientID).
		OrderBy("result_date DESC")
	return r.Find(ctx, q)
}
