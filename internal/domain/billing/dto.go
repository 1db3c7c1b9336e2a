package billing

import (
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/pkg/money"
)

// BillingDTO exposes amounts read-only; they change through items and payments.
type BillingDTO struct {
	ID            int64        `json:"id"`
	PatientID     int64        `json:"patientId"`
	EncounterID   *int64       `json:"encounterId,omitempty"`
	InsuranceID   *int64       `json:"insuranceId,omitempty"`
	InvoiceNumber string       `json:"invoiceNumber"`
	BillingDate   time.Time    `json:"billingDate"`
	DueDate       *time.Time   `json:"dueDate,omitempty"`
	TotalAmount   money.Amount `json:"totalAmount"`
	PaidAmount    money.Amount `json:"paidAmount"`
	Balance       money.Amount `json:"balance"`
	Status        string       `json:"status"`
	Notes         string       `json:"notes,omitempty"`
}

func toBillingDTO(b *Billing) BillingDTO {
	return BillingDTO{
		ID:            b.ID,
		PatientID:     b.PatientID,
		EncounterID:   b.EncounterID,
		InsuranceID:   b.InsuranceID,
		InvoiceNumber: b.InvoiceNumber,
		BillingDate:   b.BillingDate,
		DueDate:       b.DueDate,
		TotalAmount:   b.TotalAmount,
		PaidAmount:    b.PaidAmount,
		Balance:       b.Balance(),
		Status:        b.Status,
		Notes:         db.Deref(b.Notes),
	}
}

func applyBillingDTO(d *BillingDTO, b *Billing) {
	b.PatientID = d.PatientID
	b.EncounterID = d.EncounterID
	b.InsuranceID = d.InsuranceID
	if d.InvoiceNumber != "" {
		b.InvoiceNumber = d.InvoiceNumber
	}
	b.BillingDate = d.BillingDate
	b.DueDate = d.DueDate
	b.Status = d.Status
	b.Notes = db.NullIfEmpty(d.Notes)
}

type ItemDTO struct {
	ID          int64        `json:"id"`
	BillingID   int64        `json:"billingId"`
	CPTCode     string       `json:"cptCode,omitempty"`
	Description string       `json:"description"`
	Quantity    int32        `json:"quantity"`
	UnitPrice   money.Amount `json:"unitPrice"`
	TotalPrice  money.Amount `json:"totalPrice"`
}

func toItemDTO(i *Item) ItemDTO {
	return ItemDTO{
		ID:          i.ID,
		BillingID:   i.BillingID,
		CPTCode:     db.Deref(i.CPTCode),
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		TotalPrice:  i.TotalPrice,
	}
}

func applyItemDTO(d *ItemDTO, i *Item) {
	i.CPTCode = db.NullIfEmpty(d.CPTCode)
	i.Description = d.Description
	i.Quantity = d.Quantity
	i.UnitPrice = d.UnitPrice
}

type InsuranceDTO struct {
	ID                       int64         `json:"id"`
	PatientID                int64         `json:"patientId"`
	ProviderName             string        `json:"providerName"`
	PolicyNumber             string        `json:"policyNumber"`
	GroupNumber              string        `json:"groupNumber,omitempty"`
	SubscriberName           string        `json:"subscriberName,omitempty"`
	RelationshipToSubscriber string        `json:"relationshipToSubscriber,omitempty"`
	EffectiveDate            time.Time     `json:"effectiveDate"`
	ExpirationDate           *time.Time    `json:"expirationDate,omitempty"`
	CopayAmount              *money.Amount `json:"copayAmount,omitempty"`
	Deductible               *money.Amount `json:"deductible,omitempty"`
	IsActive                 bool          `json:"isActive"`
}

func toInsuranceDTO(i *Insurance) InsuranceDTO {
	return InsuranceDTO{
		ID:                       i.ID,
		PatientID:                i.PatientID,
		ProviderName:             i.ProviderName,
		PolicyNumber:             i.PolicyNumber,
		GroupNumber:              db.Deref(i.GroupNumber),
		SubscriberName:           db.Deref(i.SubscriberName),
		RelationshipToSubscriber: db.Deref(i.RelationshipToSubscriber),
		EffectiveDate:            i.EffectiveDate,
		ExpirationDate:           i.ExpirationDate,
		CopayAmount:              i.CopayAmount,
		Deductible:               i.Deductible,
		IsActive:                 i.IsActive,
	}
}

func applyInsuranceDTO(d *InsuranceDTO, i *Insurance) {
	i.PatientID = d.PatientID
	i.ProviderName = d.ProviderName
	i.PolicyNumber = d.PolicyNumber
	i.GroupNumber = db.NullIfEmpty(d.GroupNumber)
	i.SubscriberName = db.NullIfEmpty(d.SubscriberName)
	i.RelationshipToSubscriber = db.NullIfEmpty(d.RelationshipToSubscriber)
	i.EffectiveDate = d.EffectiveDate
	i.ExpirationDate = d.ExpirationDate
	i.CopayAmount = d.CopayAmount
	i.Deductible = d.Deductible
	i.IsActive = d.IsActive
}

type withItemsDTO struct {
	BillingDTO
	Items []ItemDTO `json:"items"`
}

func toWithItemsDTO(w *WithItems) withItemsDTO {
	return withItemsDTO{BillingDTO: toBillingDTO(w.Billing), Items: crud.MapAll(w.Items, toItemDTO)}
}

type paymentRequest struct {
	Amount money.Amount `json:"amount"`
}
