package diagnostics

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

const (
	OrderPending    = "Pending"
	OrderCollected  = "Collected"
	OrderInProgress = "InProgress"
	OrderCompleted  = "Completed"
	OrderCancelled  = "Cancelled"

	PriorityRoutine = "Routine"
	PriorityUrgent  = "Urgent"
	PrioritySTAT    = "STAT"
)

type LabOrder struct {
	db.Model
	PatientID      int64      `db:"patient_id"`
	ProviderID     int64      `db:"provider_id"`
	EncounterID    *int64     `db:"encounter_id"`
	TestName       string     `db:"test_name"`
	LOINCCode      *string    `db:"loinc_code"`
	Priority       string     `db:"priority"`
	Status         string     `db:"status"`
	OrderDate      time.Time  `db:"order_date"`
	CollectionDate *time.Time `db:"collection_date"`
	Notes          *string    `db:"notes"`
}

func (LabOrder) TableName() string { return "lab_orders" }

func (o *LabOrder) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: o.PatientID},
		{Column: "provider_id", Value: o.ProviderID},
		{Column: "encounter_id", Value: o.EncounterID},
		{Column: "test_name", Value: o.TestName},
		{Column: "loinc_code", Value: o.LOINCCode},
		{Column: "priority", Value: o.Priority},
		{Column: "status", Value: o.Status},
		{Column: "order_date", Value: o.OrderDate},
		{Column: "collection_date", Value: o.CollectionDate},
		{Column: "notes", Value: o.Notes},
	}
}

// LabResult is one component of a lab order's result. Results are removed
// with their order.
type LabResult struct {
	db.Model
	LabOrderID     int64     `db:"lab_order_id"`
	ComponentName  string    `db:"component_name"`
	LOINCCode      *string   `db:"loinc_code"`
	Value          string    `db:"value"`
	Unit           *string   `db:"unit"`
	ReferenceRange *string   `db:"reference_range"`
	IsAbnormal     bool      `db:"is_abnormal"`
	ResultDate     time.Time `db:"result_date"`
	Notes          *string   `db:"notes"`
}

func (LabResult) TableName() string { return "lab_results" }

func (r *LabResult) Fields() []db.Field {
	return []db.Field{
		{Column: "lab_order_id", Value: r.LabOrderID},
		{Column: "component_name", Value: r.ComponentName},
		{Column: "loinc_code", Value: r.LOINCCode},
		{Column: "value", Value: r.Value},
		{Column: "unit", Value: r.Unit},
		{Column: "reference_range", Value: r.ReferenceRange},
		{Column: "is_abnormal", Value: r.IsAbnormal},
		{Column: "result_date", Value: r.ResultDate},
		{Column: "notes", Value: r.Notes},
	}
}

type OrderWithResults struct {
	Order   *LabOrder
	Results []*LabResult
}
