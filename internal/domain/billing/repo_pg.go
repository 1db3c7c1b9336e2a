package billing

import (
	"context"
	"fmt"

	"github.com/emr/emr/internal/platform/db"
)

type billingRepoPG struct {
	*db.Repository[Billing, *Billing]
	items *db.Repository[Item, *Item]
}

func NewBillingRepoPG(q db.Querier) BillingRepository {
	return &billingRepoPG{
		Repository: db.NewRepository[Billing](q),
		items:      db.NewRepository[Item](q),
	}
}

func (r *billingRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Billing, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("billing_date DESC"))
}

func (r *billingRepoPG) GetByStatus(ctx context.Context, status string) ([]*Billing, error) {
	return r.Find(ctx, db.NewQuery().Eq("status", status).OrderBy("billing_date DESC"))
}

func (r *billingRepoPG) GetOutstanding(ctx context.Context) ([]*Billing, error) {
	return r.Find(ctx, db.NewQuery().In("status", OutstandingStatuses).OrderBy("due_date ASC NULLS LAST, id ASC"))
}

func (r *billingRepoPG) GetWithItems(ctx context.Context, id int64) (*WithItems, error) {
	b, items, err := db.FetchWith(ctx, r.Repository, r.items, id, "billing_id", "id ASC")
	if err != nil {
		return nil, fmt.Errorf("get billing %d with items: %w", id, err)
	}
	return &WithItems{Billing: b, Items: items}, nil
}

func (r *billingRepoPG) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Billing, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("invoice_number", invoiceNumber))
}

func (r *billingRepoPG) GetForUpdate(ctx context.Context, id int64) (*Billing, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("id", id).ForUpdate())
}

type itemRepoPG struct {
	*db.Repository[Item, *Item]
}

func NewItemRepoPG(q db.Querier) ItemRepository {
	return &itemRepoPG{db.NewRepository[Item](q)}
}

func (r *itemRepoPG) GetByBilling(ctx context.Context, billingID int64) ([]*Item, error) {
	return r.Find(ctx, db.NewQuery().Eq("billing_id", billingID).OrderBy("id ASC"))
}

type insuranceRepoPG struct {
	*db.Repository[Insurance, *Insurance]
}

func NewInsuranceRepoPG(q db.Querier) InsuranceRepository {
	return &insuranceRepoPG{db.NewRepository[Insurance](q)}
}

func (r *insuranceRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Insurance, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("effective_date DESC"))
}

func (r *insuranceRepoPG) GetActiveInsurance(ctx context.Context, patientID int64) (*Insurance, error) {
	q := db.NewQuery().
		Eq("patient_id", patientID).
		Eq("is_active", true).
		Raw("expiration_date IS NULL OR expiration_date > NOW()").
		OrderBy("effective_date DESC")
	return r.FindOne(ctx, q)
}
