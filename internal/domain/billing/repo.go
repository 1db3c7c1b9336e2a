package billing

import (
	"context"

	"github.com/emr/emr/internal/platform/crud"
)

type BillingRepository interface {
	crud.Store[Billing]
	GetByPatient(ctx context.Context, patientID int64) ([]*Billing, error)
	GetByStatus(ctx context.Context, status string) ([]*Billing, error)
	// GetOutstanding returns invoices in OutstandingStatuses, oldest due date first.
	GetOutstanding(ctx context.Context) ([]*Billing, error)
	GetWithItems(ctx context.Context, id int64) (*WithItems, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Billing, error)
	// GetForUpdate reads an invoice and locks its row until the unit of work
	// in ctx ends, so balance changes on one invoice are serialized.
	GetForUpdate(ctx context.Context, id int64) (*Billing, error)
}

type ItemRepository interface {
	crud.Store[Item]
	GetByBilling(ctx context.Context, billingID int64) ([]*Item, error)
}

type InsuranceRepository interface {
	crud.Store[Insurance]
	GetByPatient(ctx context.Context, patientID int64) ([]*Insurance, error)
	// GetActiveInsurance returns the patient's active, unexpired policy with
	// the most recent effective date, or db.ErrNotFound.
	GetActiveInsurance(ctx context.Context, patientID int64) (*Insurance, error)
}
