package clinical

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

const (
	DiagnosisActive   = "Active"
	DiagnosisChronic  = "Chronic"
	DiagnosisResolved = "Resolved"
	DiagnosisRuledOut = "RuledOut"

	ProcedurePlanned    = "Planned"
	ProcedureInProgress = "InProgress"
	ProcedureCompleted  = "Completed"
	ProcedureCancelled  = "Cancelled"

	ObservationPreliminary = "Preliminary"
	ObservationFinal       = "Final"
	ObservationAmended     = "Amended"
	ObservationCancelled   = "Cancelled"

	ReferralPending   = "Pending"
	ReferralAccepted  = "Accepted"
	ReferralScheduled = "Scheduled"
	ReferralCompleted = "Completed"
	ReferralDeclined  = "Declined"
	ReferralCancelled = "Cancelled"
)

type MedicalRecord struct {
	db.Model
	PatientID   int64     `db:"patient_id"`
	ProviderID  int64     `db:"provider_id"`
	RecordDate  time.Time `db:"record_date"`
	RecordType  string    `db:"record_type"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
}

func (MedicalRecord) TableName() string { return "medical_records" }

func (m *MedicalRecord) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: m.PatientID},
		{Column: "provider_id", Value: m.ProviderID},
		{Column: "record_date", Value: m.RecordDate},
		{Column: "record_type", Value: m.RecordType},
		{Column: "title", Value: m.Title},
		{Column: "description", Value: m.Description},
	}
}

type Diagnosis struct {
	db.Model
	PatientID     int64     `db:"patient_id"`
	EncounterID   *int64    `db:"encounter_id"`
	ProviderID    int64     `db:"provider_id"`
	ICDCode       string    `db:"icd_code"`
	Description   string    `db:"description"`
	DiagnosisDate time.Time `db:"diagnosis_date"`
	Status        string    `db:"status"`
	Severity      *string   `db:"severity"`
	Notes         *string   `db:"notes"`
}

func (Diagnosis) TableName() string { return "diagnoses" }

func (d *Diagnosis) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: d.PatientID},
		{Column: "encounter_id", Value: d.EncounterID},
		{Column: "provider_id", Value: d.ProviderID},
		{Column: "icd_code", Value: d.ICDCode},
		{Column: "description", Value: d.Description},
		{Column: "diagnosis_date", Value: d.DiagnosisDate},
		{Column: "status", Value: d.Status},
		{Column: "severity", Value: d.Severity},
		{Column: "notes", Value: d.Notes},
	}
}

type Procedure struct {
	db.Model
	PatientID     int64     `db:"patient_id"`
	EncounterID   *int64    `db:"encounter_id"`
	ProviderID    int64     `db:"provider_id"`
	LocationID    *int64    `db:"location_id"`
	CPTCode       string    `db:"cpt_code"`
	Description   string    `db:"description"`
	ProcedureDate time.Time `db:"procedure_date"`
	Status        string    `db:"status"`
	Notes         *string   `db:"notes"`
}

func (Procedure) TableName() string { return "procedures" }

func (p *Procedure) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: p.PatientID},
		{Column: "encounter_id", Value: p.EncounterID},
		{Column: "provider_id", Value: p.ProviderID},
		{Column: "location_id", Value: p.LocationID},
		{Column: "cpt_code", Value: p.CPTCode},
		{Column: "description", Value: p.Description},
		{Column: "procedure_date", Value: p.ProcedureDate},
		{Column: "status", Value: p.Status},
		{Column: "notes", Value: p.Notes},
	}
}

// Observation is a single measured or reported value, coded by LOINC.
type Observation struct {
	db.Model
	PatientID       int64     `db:"patient_id"`
	EncounterID     *int64    `db:"encounter_id"`
	ProviderID      *int64    `db:"provider_id"`
	LOINCCode       *string   `db:"loinc_code"`
	Name            string    `db:"name"`
	Value           *string   `db:"value"`
	ValueNumeric    *float64  `db:"value_numeric"`
	Unit            *string   `db:"unit"`
	ReferenceRange  *string   `db:"reference_range"`
	Interpretation  *string   `db:"interpretation"`
	ObservationDate time.Time `db:"observation_date"`
	Status          string    `db:"status"`
}

func (Observation) TableName() string { return "observations" }

func (o *Observation) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: o.PatientID},
		{Column: "encounter_id", Value: o.EncounterID},
		{Column: "provider_id", Value: o.ProviderID},
		{Column: "loinc_code", Value: o.LOINCCode},
		{Column: "name", Value: o.Name},
		{Column: "value", Value: o.Value},
		{Column: "value_numeric", Value: o.ValueNumeric},
		{Column: "unit", Value: o.Unit},
		{Column: "reference_range", Value: o.ReferenceRange},
		{Column: "interpretation", Value: o.Interpretation},
		{Column: "observation_date", Value: o.ObservationDate},
		{Column: "status", Value: o.Status},
	}
}

// ClinicalNote is free-text documentation. Once signed it can no longer be
// edited.
type ClinicalNote struct {
	db.Model
	PatientID   int64      `db:"patient_id"`
	EncounterID *int64     `db:"encounter_id"`
	ProviderID  int64      `db:"provider_id"`
	NoteType    string     `db:"note_type"`
	Title       string     `db:"title"`
	Content     string     `db:"content"`
	IsSigned    bool       `db:"is_signed"`
	SignedDate  *time.Time `db:"signed_date"`
}

func (ClinicalNote) TableName() string { return "clinical_notes" }

func (n *ClinicalNote) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: n.PatientID},
		{Column: "encounter_id", Value: n.EncounterID},
		{Column: "provider_id", Value: n.ProviderID},
		{Column: "note_type", Value: n.NoteType},
		{Column: "title", Value: n.Title},
		{Column: "content", Value: n.Content},
		{Column: "is_signed", Value: n.IsSigned},
		{Column: "signed_date", Value: n.SignedDate},
	}
}

type Allergy struct {
	db.Model
	PatientID int64      `db:"patient_id"`
	Allergen  string     `db:"allergen"`
	Reaction  *string    `db:"reaction"`
	Severity  *string    `db:"severity"`
	OnsetDate *time.Time `db:"onset_date"`
	IsActive  bool       `db:"is_active"`
	Notes     *string    `db:"notes"`
}

func (Allergy) TableName() string { return "allergies" }

func (a *Allergy) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: a.PatientID},
		{Column: "allergen", Value: a.Allergen},
		{Column: "reaction", Value: a.Reaction},
		{Column: "severity", Value: a.Severity},
		{Column: "onset_date", Value: a.OnsetDate},
		{Column: "is_active", Value: a.IsActive},
		{Column: "notes", Value: a.Notes},
	}
}

type VitalSign struct {
	db.Model
	PatientID        int64     `db:"patient_id"`
	EncounterID      *int64    `db:"encounter_id"`
	RecordedDate     time.Time `db:"recorded_date"`
	Temperature      *float64  `db:"temperature"`
	HeartRate        *int32    `db:"heart_rate"`
	RespiratoryRate  *int32    `db:"respiratory_rate"`
	SystolicBP       *int32    `db:"systolic_bp"`
	DiastolicBP      *int32    `db:"diastolic_bp"`
	OxygenSaturation *float64  `db:"oxygen_saturation"`
	Weight           *float64  `db:"weight"`
	Height           *float64  `db:"height"`
	BMI              *float64  `db:"bmi"`
	Notes            *string   `db:"notes"`
}

func (VitalSign) TableName() string { return "vital_signs" }

func (v *VitalSign) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: v.PatientID},
		{Column: "encounter_id", Value: v.EncounterID},
		{Column: "recorded_date", Value: v.RecordedDate},
		{Column: "temperature", Value: v.Temperature},
		{Column: "heart_rate", Value: v.HeartRate},
		{Column: "respiratory_rate", Value: v.RespiratoryRate},
		{Column: "systolic_bp", Value: v.SystolicBP},
		{Column: "diastolic_bp", Value: v.DiastolicBP},
		{Column: "oxygen_saturation", Value: v.OxygenSaturation},
		{Column: "weight", Value: v.Weight},
		{Column: "height", Value: v.Height},
		{Column: "bmi", Value: v.BMI},
		{Column: "notes", Value: v.Notes},
	}
}

type FamilyHistory struct {
	db.Model
	PatientID    int64   `db:"patient_id"`
	Relationship string  `db:"relationship"`
	Condition    string  `db:"condition"`
	SNOMEDCode   *string `db:"snomed_code"`
	AgeAtOnset   *int32  `db:"age_at_onset"`
	IsDeceased   bool    `db:"is_deceased"`
	Notes        *string `db:"notes"`
}

func (FamilyHistory) TableName() string { return "family_histories" }

func (f *FamilyHistory) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: f.PatientID},
		{Column: "relationship", Value: f.Relationship},
		{Column: "condition", Value: f.Condition},
		{Column: "snomed_code", Value: f.SNOMEDCode},
		{Column: "age_at_onset", Value: f.AgeAtOnset},
		{Column: "is_deceased", Value: f.IsDeceased},
		{Column: "notes", Value: f.Notes},
	}
}

type Referral struct {
	db.Model
	PatientID            int64      `db:"patient_id"`
	ReferringProviderID  int64      `db:"referring_provider_id"`
	ReferredToProviderID *int64     `db:"referred_to_provider_id"`
	Specialty            *string    `db:"specialty"`
	Reason               string     `db:"reason"`
	Status               string     `db:"status"`
	ReferralDate         time.Time  `db:"referral_date"`
	AppointmentDate      *time.Time `db:"appointment_date"`
	Notes                *string    `db:"notes"`
}

func (Referral) TableName() string { return "referrals" }

func (r *Referral) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: r.PatientID},
		{Column: "referring_provider_id", Value: r.ReferringProviderID},
		{Column: "referred_to_provider_id", Value: r.ReferredToProviderID},
		{Column: "specialty", Value: r.Specialty},
		{Column: "reason", Value: r.Reason},
		{Column: "status", Value: r.Status},
		{Column: "referral_date", Value: r.ReferralDate},
		{Column: "appointment_date", Value: r.AppointmentDate},
		{Column: "notes", Value: r.Notes},
	}
}
