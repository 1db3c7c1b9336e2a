package diagnostics

import (
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

type LabOrderDTO struct {
	ID             int64      `json:"id"`
	PatientID      int64      `json:"patientId"`
	ProviderID     int64      `json:"providerId"`
	EncounterID    *int64     `json:"encounterId,omitempty"`
	TestName       string     `json:"testName"`
	LOINCCode      string     `json:"loincCode,omitempty"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	OrderDate      time.Time  `json:"orderDate"`
	CollectionDate *time.Time `json:"collectionDate,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

func toLabOrderDTO(o *LabOrder) LabOrderDTO {
	return LabOrderDTO{
		ID:             o.ID,
		PatientID:      o.PatientID,
		ProviderID:     o.ProviderID,
		EncounterID:    o.EncounterID,
		TestName:       o.TestName,
		LOINCCode:      db.Deref(o.LOINCCode),
		Priority:       o.Priority,
		Status:         o.Status,
		OrderDate:      o.OrderDate,
		CollectionDate: o.CollectionDate,
		Notes:          db.Deref(o.Notes),
	}
}

func applyLabOrderDTO(d *LabOrderDTO, o *LabOrder) {
	o.PatientID = d.PatientID
	o.ProviderID = d.ProviderID
	o.EncounterID = d.EncounterID
	o.TestName = d.TestName
	o.LOINCCode = db.NullIfEmpty(d.LOINCCode)
	o.Priority = d.Priority
	o.Status = d.Status
	o.OrderDate = d.OrderDate
	o.CollectionDate = d.CollectionDate
	o.Notes = db.NullIfEmpty(d.Notes)
}

type LabResultDTO struct {
	ID             int64     `json:"id"`
	LabOrderID     int64     `json:"labOrderId"`
	ComponentName  string    `json:"componentName"`
	LOINCCode      string    `json:"loincCode,omitempty"`
	Value          string    `json:"value"`
	Unit           string    `json:"unit,omitempty"`
	ReferenceRange string    `json:"referenceRange,omitempty"`
	IsAbnormal     bool      `json:"isAbnormal"`
	ResultDate     time.Time `json:"resultDate"`
	Notes          string    `json:"notes,omitempty"`
}

func toLabResultDTO(r *LabResult) LabResultDTO {
	return LabResultDTO{
		ID:             r.ID,
		LabOrderID:     r.LabOrderID,
		ComponentName:  r.ComponentName,
		LOINCCode:      db.Deref(r.LOINCCode),
		Value:          r.Value,
		Unit:           db.Deref(r.Unit),
		ReferenceRange: db.Deref(r.ReferenceRange),
		IsAbnormal:     r.IsAbnormal,
		ResultDate:     r.ResultDate,
		Notes:          db.Deref(r.Notes),
	}
}

func applyLabResultDTO(d *LabResultDTO, r *LabResult) {
	r.LabOrderID = d.LabOrderID
	r.ComponentName = d.ComponentName
	r.LOINCCode = db.NullIfEmpty(d.LOINCCode)
	r.Value = d.Value
	r.Unit = db.NullIfEmpty(d.Unit)
	r.ReferenceRange = db.NullIfEmpty(d.ReferenceRange)
	r.IsAbnormal = d.IsAbnormal
	r.ResultDate = d.ResultDate
	r.Notes = db.NullIfEmpty(d.Notes)
}

type orderWithResultsDTO struct {
	LabOrderDTO
	Results []LabResultDTO `json:"results"`
}

func toOrderWithResultsDTO(w *OrderWithResults) orderWithResultsDTO {
	return orderWithResultsDTO{
		LabOrderDTO: toLabOrderDTO(w.Order),
		Results:     crud.MapAll(w.Results, toLabResultDTO),
	}
}

type statusRequest struct {
	Status string `json:"status"`
}
