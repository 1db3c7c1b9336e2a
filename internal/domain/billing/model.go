package billing

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/pkg/money"
)

const (
	StatusDraft         = "Draft"
	StatusPending       = "Pending"
	StatusPartiallyPaid = "PartiallyPaid"
	StatusPaid          = "Paid"
	StatusOverdue       = "Overdue"
	StatusCancelled     = "Cancelled"
)

// OutstandingStatuses are the statuses of invoices with a balance still owed.
var OutstandingStatuses = []string{StatusPending, StatusPartiallyPaid, StatusOverdue}

type Billing struct {
	db.Model
	PatientID     int64        `db:"patient_id"`
	EncounterID   *int64       `db:"encounter_id"`
	InsuranceID   *int64       `db:"insurance_id"`
	InvoiceNumber string       `db:"invoice_number"`
	BillingDate   time.Time    `db:"billing_date"`
	DueDate       *time.Time   `db:"due_date"`
	TotalAmount   money.Amount `db:"total_amount"`
	PaidAmount    money.Amount `db:"paid_amount"`
	Status        string       `db:"status"`
	Notes         *string      `db:"notes"`
}

func (Billing) TableName() string { return "billings" }

func (b *Billing) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: b.PatientID},
		{Column: "encounter_id", Value: b.EncounterID},
		{Column: "insurance_id", Value: b.InsuranceID},
		{Column: "invoice_number", Value: b.InvoiceNumber},
		{Column: "billing_date", Value: b.BillingDate},
		{Column: "due_date", Value: b.DueDate},
		{Column: "total_amount", Value: b.TotalAmount},
		{Column: "paid_amount", Value: b.PaidAmount},
		{Column: "status", Value: b.Status},
		{Column: "notes", Value: b.Notes},
	}
}

// Balance is the amount still owed.
func (b *Billing) Balance() money.Amount { return b.TotalAmount - b.PaidAmount }

type Item struct {
	db.Model
	BillingID   int64        `db:"billing_id"`
	CPTCode     *string      `db:"cpt_code"`
	Description string       `db:"description"`
	Quantity    int32        `db:"quantity"`
	UnitPrice   money.Amount `db:"unit_price"`
	TotalPrice  money.Amount `db:"total_price"`
}

func (Item) TableName() string { return "billing_items" }

func (i *Item) Fields() []db.Field {
	return []db.Field{
		{Column: "billing_id", Value: i.BillingID},
		{Column: "cpt_code", Value: i.CPTCode},
		{Column: "description", Value: i.Description},
		{Column: "quantity", Value: i.Quantity},
		{Column: "unit_price", Value: i.UnitPrice},
		{Column: "total_price", Value: i.TotalPrice},
	}
}

type Insurance struct {
	db.Model
	PatientID                int64         `db:"patient_id"`
	ProviderName             string        `db:"provider_name"`
	PolicyNumber             string        `db:"policy_number"`
	GroupNumber              *string       `db:"group_number"`
	SubscriberName           *string       `db:"subscriber_name"`
	RelationshipToSubscriber *string       `db:"relationship_to_subscriber"`
	EffectiveDate            time.Time     `db:"effective_date"`
	ExpirationDate           *time.Time    `db:"expiration_date"`
	CopayAmount              *money.Amount `db:"copay_amount"`
	Deductible               *money.Amount `db:"deductible"`
	IsActive                 bool          `db:"is_active"`
}

func (Insurance) TableName() string { return "insurances" }

func (i *Insurance) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: i.PatientID},
		{Column: "provider_name", Value: i.ProviderName},
		{Column: "policy_number", Value: i.PolicyNumber},
		{Column: "group_number", Value: i.GroupNumber},
		{Column: "subscriber_name", Value: i.SubscriberName},
		{Column: "relationship_to_subscriber", Value: i.RelationshipToSubscriber},
		{Column: "effective_date", Value: i.EffectiveDate},
		{Column: "expiration_date", Value: i.ExpirationDate},
		{Column: "copay_amount", Value: i.CopayAmount},
		{Column: "deductible", Value: i.Deductible},
		{Column: "is_active", Value: i.IsActive},
	}
}

type WithItems struct {
	Billing *Billing
	Items   []*Item
}
