package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
	"github.com/emr/emr/pkg/money"
)

const defaultPaymentTerms = 30 * 24 * time.Hour

var validStatuses = crud.NewStatusSet(StatusDraft, StatusPending, StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled)

type Service struct {
	billings   BillingRepository
	items      ItemRepository
	insurances InsuranceRepository
	tx         db.Transactor
	events     *events.Emitter
	now        func() time.Time
}

func NewService(billings BillingRepository, items ItemRepository, insurances InsuranceRepository, tx db.Transactor, emitter *events.Emitter) *Service {
	return &Service{
		billings:   billings,
		items:      items,
		insurances: insurances,
		tx:         tx,
		events:     emitter,
		now:        time.Now,
	}
}

func (s *Service) newInvoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "INV-" + s.now().UTC().Format("20060102") + "-" + id[:8]
}

// PrepareBilling fills the invoice number, billing date, due date and status
// when missing. Amounts are not writable here.
func (s *Service) PrepareBilling(_ context.Context, b *Billing) error {
	if b.PatientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	if b.InvoiceNumber == "" {
		b.InvoiceNumber = s.newInvoiceNumber()
	}
	if b.BillingDate.IsZero() {
		b.BillingDate = s.now().UTC()
	}
	if b.DueDate == nil {
		due := b.BillingDate.Add(defaultPaymentTerms)
		b.DueDate = &due
	}
	if b.DueDate.Before(b.BillingDate) {
		return crud.Invalidf("dueDate must not be before billingDate")
	}
	return validStatuses.Normalize("status", &b.Status, StatusPending)
}

func (s *Service) PrepareItem(_ context.Context, i *Item) error {
	if strings.TrimSpace(i.Description) == "" {
		return crud.Invalidf("description is required")
	}
	if i.Quantity == 0 {
		i.Quantity = 1
	}
	if i.Quantity < 0 {
		return crud.Invalidf("quantity must be positive")
	}
	if i.UnitPrice < 0 {
		return crud.Invalidf("unitPrice must not be negative")
	}
	i.TotalPrice = i.UnitPrice.Mul(i.Quantity)
	return nil
}

func (s *Service) PrepareInsurance(_ context.Context, i *Insurance) error {
	if i.PatientID == 0 {
		return crud.Invalidf("patientId is required")
	}
	if strings.TrimSpace(i.ProviderName) == "" || strings.TrimSpace(i.PolicyNumber) == "" {
		return crud.Invalidf("providerName and policyNumber are required")
	}
	if i.EffectiveDate.IsZero() {
		i.EffectiveDate = s.now().UTC()
	}
	if i.ExpirationDate != nil && !i.ExpirationDate.After(i.EffectiveDate) {
		return crud.Invalidf("expirationDate must be after effectiveDate")
	}
	if (i.CopayAmount != nil && *i.CopayAmount < 0) || (i.Deductible != nil && *i.Deductible < 0) {
		return crud.Invalidf("copayAmount and deductible must not be negative")
	}
	return nil
}

func closed(b *Billing) bool { return b.Status == StatusPaid || b.Status == StatusCancelled }

// recalculate sets the invoice total to the sum of its items.
func (s *Service) recalculate(ctx context.Context, b *Billing) error {
	items, err := s.items.GetByBilling(ctx, b.ID)
	if err != nil {
		return err
	}
	var total money.Amount
	for _, i := range items {
		total += i.TotalPrice
	}
	if total < b.PaidAmount {
		return crud.Conflictf("invoice %s total %s would fall below paid %s", b.InvoiceNumber, total, b.PaidAmount)
	}
	b.TotalAmount = total
	_, err = s.billings.Update(ctx, b)
	return err
}

// AddItem adds a line item to an open invoice and recomputes its total.
func (s *Service) AddItem(ctx context.Context, billingID int64, i *Item) (*Item, error) {
	var out *Item
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		b, err := s.billings.GetForUpdate(ctx, billingID)
		if err != nil {
			return err
		}
		if closed(b) {
			return crud.Conflictf("invoice %s is %s", b.InvoiceNumber, b.Status)
		}
		i.BillingID = billingID
		if err := s.PrepareItem(ctx, i); err != nil {
			return err
		}
		if out, err = s.items.Add(ctx, i); err != nil {
			return err
		}
		return s.recalculate(ctx, b)
	})
	return out, err
}

// RemoveItem deletes a line item from an open invoice and recomputes its total.
func (s *Service) RemoveItem(ctx context.Context, billingID, itemID int64) error {
	return s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		b, err := s.billings.GetForUpdate(ctx, billingID)
		if err != nil {
			return err
		}
		if closed(b) {
			return crud.Conflictf("invoice %s is %s", b.InvoiceNumber, b.Status)
		}
		item, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item.BillingID != billingID {
			return db.ErrNotFound
		}
		if err := s.items.DeleteByID(ctx, itemID); err != nil {
			return err
		}
		return s.recalculate(ctx, b)
	})
}

// RecordPayment applies amount to the invoice. A payment that settles the
// balance marks it Paid, otherwise PartiallyPaid. Overpayment is rejected.
// The invoice row is locked for the whole unit of work, so concurrent
// payments see each other's paid amount.
func (s *Service) RecordPayment(ctx context.Context, billingID int64, amount money.Amount) (*Billing, error) {
	if amount <= 0 {
		return nil, crud.Invalidf("amount must be positive")
	}
	var out *Billing
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		b, err := s.billings.GetForUpdate(ctx, billingID)
		if err != nil {
			return err
		}
		if closed(b) {
			return crud.Conflictf("invoice %s is %s", b.InvoiceNumber, b.Status)
		}
		if amount > b.Balance() {
			return crud.Invalidf("payment %s exceeds balance %s", amount, b.Balance())
		}
		b.PaidAmount += amount
		if b.Balance() <= 0 {
			b.Status = StatusPaid
		} else {
			b.Status = StatusPartiallyPaid
		}
		if out, err = s.billings.Update(ctx, b); err != nil {
			return err
		}
		s.events.Emit(ctx, events.BillingPaymentRecorded, b.ID, map[string]any{
			"patientId":     b.PatientID,
			"invoiceNumber": b.InvoiceNumber,
			"amount":        amount,
			"status":        b.Status,
		})
		return nil
	})
	return out, err
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*Billing, error) {
	return s.billings.GetByPatient(ctx, patientID)
}

func (s *Service) ByStatus(ctx context.Context, status string) ([]*Billing, error) {
	return s.billings.GetByStatus(ctx, status)
}

func (s *Service) Outstanding(ctx context.Context) ([]*Billing, error) {
	return s.billings.GetOutstanding(ctx)
}

func (s *Service) WithItems(ctx context.Context, id int64) (*WithItems, error) {
	return s.billings.GetWithItems(ctx, id)
}

func (s *Service) ByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Billing, error) {
	return s.billings.GetByInvoiceNumber(ctx, invoiceNumber)
}

func (s *Service) Items(ctx context.Context, billingID int64) ([]*Item, error) {
	return s.items.GetByBilling(ctx, billingID)
}

func (s *Service) InsuranceByPatient(ctx context.Context, patientID int64) ([]*Insurance, error) {
	return s.insurances.GetByPatient(ctx, patientID)
}

func (s *Service) ActiveInsurance(ctx context.Context, patientID int64) (*Insurance, error) {
	return s.insurances.GetActiveInsurance(ctx, patientID)
}
