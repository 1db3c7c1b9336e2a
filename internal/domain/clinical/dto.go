package clinical

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

// -- Medical record --

type MedicalRecordDTO struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patientId"`
	ProviderID  int64     `json:"providerId"`
	RecordDate  time.Time `json:"recordDate"`
	RecordType  string    `json:"recordType"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
}

func ToMedicalRecordDTO(m *MedicalRecord) MedicalRecordDTO {
	return MedicalRecordDTO{
		ID:          m.ID,
		PatientID:   m.PatientID,
		ProviderID:  m.ProviderID,
		RecordDate:  m.RecordDate,
		RecordType:  m.RecordType,
		Title:       m.Title,
		Description: db.Deref(m.Description),
	}
}

func applyMedicalRecordDTO(d *MedicalRecordDTO, m *MedicalRecord) {
	m.PatientID = d.PatientID
	m.ProviderID = d.ProviderID
	m.RecordDate = d.RecordDate
	m.RecordType = d.RecordType
	m.Title = d.Title
	m.Description = db.NullIfEmpty(d.Description)
}

// -- Diagnosis --

type DiagnosisDTO struct {
	ID            int64     `json:"id"`
	PatientID     int64     `json:"patientId"`
	EncounterID   *int64    `json:"encounterId,omitempty"`
	ProviderID    int64     `json:"providerId"`
	ICDCode       string    `json:"icdCode"`
	Description   string    `json:"description"`
	DiagnosisDate time.Time `json:"diagnosisDate"`
	Status        string    `json:"status"`
	Severity      string    `json:"severity,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

func ToDiagnosisDTO(d *Diagnosis) DiagnosisDTO {
	return DiagnosisDTO{
		ID:            d.ID,
		PatientID:     d.PatientID,
		EncounterID:   d.EncounterID,
		ProviderID:    d.ProviderID,
		ICDCode:       d.ICDCode,
		Description:   d.Description,
		DiagnosisDate: d.DiagnosisDate,
		Status:        d.Status,
		Severity:      db.Deref(d.Severity),
		Notes:         db.Deref(d.Notes),
	}
}

func applyDiagnosisDTO(d *DiagnosisDTO, dx *Diagnosis) {
	dx.PatientID = d.PatientID
	dx.EncounterID = d.EncounterID
	dx.ProviderID = d.ProviderID
	dx.ICDCode = d.ICDCode
	dx.Description = d.Description
	dx.DiagnosisDate = d.DiagnosisDate
	dx.Status = d.Status
	dx.Severity = db.NullIfEmpty(d.Severity)
	dx.Notes = db.NullIfEmpty(d.Notes)
}

// -- Procedure --

type ProcedureDTO struct {
	ID            int64     `json:"id"`
	PatientID     int64     `json:"patientId"`
	EncounterID   *int64    `json:"encounterId,omitempty"`
	ProviderID    int64     `json:"providerId"`
	LocationID    *int64    `json:"locationId,omitempty"`
	CPTCode       string    `json:"cptCode"`
	Description   string    `json:"description"`
	ProcedureDate time.Time `json:"procedureDate"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
}

func ToProcedureDTO(p *Procedure) ProcedureDTO {
	return ProcedureDTO{
		ID:            p.ID,
		PatientID:     p.PatientID,
		EncounterID:   p.EncounterID,
		ProviderID:    p.ProviderID,
		LocationID:    p.LocationID,
		CPTCode:       p.CPTCode,
		Description:   p.Description,
		ProcedureDate: p.ProcedureDate,
		Status:        p.Status,
		Notes:         db.Deref(p.Notes),
	}
}

func applyProcedureDTO(d *ProcedureDTO, p *Procedure) {
	p.PatientID = d.PatientID
	p.EncounterID = d.EncounterID
	p.ProviderID = d.ProviderID
	p.LocationID = d.LocationID
	p.CPTCode = d.CPTCode
	p.Description = d.Description
	p.ProcedureDate = d.ProcedureDate
	p.Status = d.Status
	p.Notes = db.NullIfEmpty(d.Notes)
}

// -- Observation --

type ObservationDTO struct {
	ID              int64     `json:"id"`
	PatientID       int64     `json:"patientId"`
	EncounterID     *int64    `json:"encounterId,omitempty"`
	ProviderID      *int64    `json:"providerId,omitempty"`
	LOINCCode       string    `json:"loincCode,omitempty"`
	Name            string    `json:"name"`
	Value           string    `json:"value,omitempty"`
	ValueNumeric    *float64  `json:"valueNumeric,omitempty"`
	Unit            string    `json:"unit,omitempty"`
	ReferenceRange  string    `json:"referenceRange,omitempty"`
	Interpretation  string    `json:"interpretation,omitempty"`
	ObservationDate time.Time `json:"observationDate"`
	Status          string    `json:"status"`
}

func ToObservationDTO(o *Observation) ObservationDTO {
	return ObservationDTO{
		ID:              o.ID,
		PatientID:       o.PatientID,
		EncounterID:     o.EncounterID,
		ProviderID:      o.ProviderID,
		LOINCCode:       db.Deref(o.LOINCCode),
		Name:            o.Name,
		Value:           db.Deref(o.Value),
		ValueNumeric:    o.ValueNumeric,
		Unit:            db.Deref(o.Unit),
		ReferenceRange:  db.Deref(o.ReferenceRange),
		Interpretation:  db.Deref(o.Interpretation),
		ObservationDate: o.ObservationDate,
		Status:          o.Status,
	}
}

func applyObservationDTO(d *ObservationDTO, o *Observation) {
	o.PatientID = d.PatientID
	o.EncounterID = d.EncounterID
	o.ProviderID = d.ProviderID
	o.LOINCCode = db.NullIfEmpty(d.LOINCCode)
	o.Name = d.Name
	o.Value = db.NullIfEmpty(d.Value)
	o.ValueNumeric = d.ValueNumeric
	o.Unit = db.NullIfEmpty(d.Unit)
	o.ReferenceRange = db.NullIfEmpty(d.ReferenceRange)
	o.Interpretation = db.NullIfEmpty(d.Interpretation)
	o.ObservationDate = d.ObservationDate
	o.Status = d.Status
}

// -- Clinical note --

type ClinicalNoteDTO struct {
	ID          int64      `json:"id"`
	PatientID   int64      `json:"patientId"`
	EncounterID *int64     `json:"encounterId,omitempty"`
	ProviderID  int64      `json:"providerId"`
	NoteType    string     `json:"noteType"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	IsSigned    bool       `json:"isSigned"`
	SignedDate  *time.Time `json:"signedDate,omitempty"`
	CreatedDate time.Time  `json:"createdDate"`
}

func ToClinicalNoteDTO(n *ClinicalNote) ClinicalNoteDTO {
	return ClinicalNoteDTO{
		ID:          n.ID,
		PatientID:   n.PatientID,
		EncounterID: n.EncounterID,
		ProviderID:  n.ProviderID,
		NoteType:    n.NoteType,
		Title:       n.Title,
		Content:     n.Content,
		IsSigned:    n.IsSigned,
		SignedDate:  n.SignedDate,
		CreatedDate: n.CreatedDate,
	}
}

// applyClinicalNoteDTO leaves the signature alone; notes are signed through
// their own endpoint.
func applyClinicalNoteDTO(d *ClinicalNoteDTO, n *ClinicalNote) {
	n.PatientID = d.PatientID
	n.EncounterID = d.EncounterID
	n.ProviderID = d.ProviderID
	n.NoteType = d.NoteType
	n.Title = d.Title
	n.Content = d.Content
}

// -- Allergy --

type AllergyDTO struct {
	ID        int64      `json:"id"`
	PatientID int64      `json:"patientId"`
	Allergen  string     `json:"allergen"`
	Reaction  string     `json:"reaction,omitempty"`
	Severity  string     `json:"severity,omitempty"`
	OnsetDate *time.Time `json:"onsetDate,omitempty"`
	IsActive  bool       `json:"isActive"`
	Notes     string     `json:"notes,omitempty"`
}

func ToAllergyDTO(a *Allergy) AllergyDTO {
	return AllergyDTO{
		ID:        a.ID,
		PatientID: a.PatientID,
		Allergen:  a.Allergen,
		Reaction:  db.Deref(a.Reaction),
		Severity:  db.Deref(a.Severity),
		OnsetDate: a.OnsetDate,
		IsActive:  a.IsActive,
		Notes:     db.Deref(a.Notes),
	}
}

func applyAllergyDTO(d *AllergyDTO, a *Allergy) {
	a.PatientID = d.PatientID
	a.Allergen = d.Allergen
	a.Reaction = db.NullIfEmpty(d.Reaction)
	a.Severity = db.NullIfEmpty(d.Severity)
	a.OnsetDate = d.OnsetDate
	a.IsActive = d.IsActive
	a.Notes = db.NullIfEmpty(d.Notes)
}

// -- Vital signs --

type VitalSignDTO struct {
	ID               int64     `json:"id"`
	PatientID        int64     `json:"patientId"`
	EncounterID      *int64    `json:"encounterId,omitempty"`
	RecordedDate     time.Time `json:"recordedDate"`
	Temperature      *float64  `json:"temperature,omitempty"`
	HeartRate        *int32    `json:"heartRate,omitempty"`
	RespiratoryRate  *int32    `json:"respiratoryRate,omitempty"`
	SystolicBP       *int32    `json:"systolicBp,omitempty"`
	DiastolicBP      *int32    `json:"diastolicBp,omitempty"`
	OxygenSaturation *float64  `json:"oxygenSaturation,omitempty"`
	Weight           *float64  `json:"weight,omitempty"`
	Height           *float64  `json:"height,omitempty"`
	BMI              *float64  `json:"bmi,omitempty"`
	Notes            string    `json:"notes,omitempty"`
}

func ToVitalSignDTO(v *VitalSign) VitalSignDTO {
	return VitalSignDTO{
		ID:               v.ID,
		PatientID:        v.PatientID,
		EncounterID:      v.EncounterID,
		RecordedDate:     v.RecordedDate,
		Temperature:      v.Temperature,
		HeartRate:        v.HeartRate,
		RespiratoryRate:  v.RespiratoryRate,
		SystolicBP:       v.SystolicBP,
		DiastolicBP:      v.DiastolicBP,
		OxygenSaturation: v.OxygenSaturation,
		Weight:           v.Weight,
		Height:           v.Height,
		BMI:              v.BMI,
		Notes:            db.Deref(v.Notes),
	}
}

func applyVitalSignDTO(d *VitalSignDTO, v *VitalSign) {
	v.PatientID = d.PatientID
	v.EncounterID = d.EncounterID
	v.RecordedDate = d.RecordedDate
	v.Temperature = d.Temperature
	v.HeartRate = d.HeartRate
	v.RespiratoryRate = d.RespiratoryRate
	v.SystolicBP = d.SystolicBP
	v.DiastolicBP = d.DiastolicBP
	v.OxygenSaturation = d.OxygenSaturation
	v.Weight = d.Weight
	v.Height = d.Height
	v.BMI = d.BMI
	v.Notes = db.NullIfEmpty(d.Notes)
}

// -- Family history --

type FamilyHistoryDTO struct {
	ID           int64  `json:"id"`
	PatientID    int64  `json:"patientId"`
	Relationship string `json:"relationship"`
	Condition    string `json:"condition"`
	SNOMEDCode   string `json:"snomedCode,omitempty"`
	AgeAtOnset   *int32 `json:"ageAtOnset,omitempty"`
	IsDeceased   bool   `json:"isDeceased"`
	Notes        string `json:"notes,omitempty"`
}

func ToFamilyHistoryDTO(f *FamilyHistory) FamilyHistoryDTO {
	return FamilyHistoryDTO{
		ID:           f.ID,
		PatientID:    f.PatientID,
		Relationship: f.Relationship,
		Condition:    f.Condition,
		SNOMEDCode:   db.Deref(f.SNOMEDCode),
		AgeAtOnset:   f.AgeAtOnset,
		IsDeceased:   f.IsDeceased,
		Notes:        db.Deref(f.Notes),
	}
}

func applyFamilyHistoryDTO(d *FamilyHistoryDTO, f *FamilyHistory) {
	f.PatientID = d.PatientID
	f.Relationship = d.Relationship
	f.Condition = d.Condition
	f.SNOMEDCode = db.NullIfEmpty(d.SNOMEDCode)
	f.AgeAtOnset = d.AgeAtOnset
	f.IsDeceased = d.IsDeceased
	f.Notes = db.NullIfEmpty(d.Notes)
}

// -- Referral --

type ReferralDTO struct {
	ID                   int64      `json:"id"`
	PatientID            int64      `json:"patientId"`
	ReferringProviderID  int64      `json:"referringProviderId"`
	ReferredToProviderID *int64     `json:"referredToProviderId,omitempty"`
	Specialty            string     `json:"specialty,omitempty"`
	Reason               string     `json:"reason"`
	Status               string     `json:"status"`
	ReferralDate         time.Time  `json:"referralDate"`
	AppointmentDate      *time.Time `json:"appointmentDate,omitempty"`
	Notes                string     `json:"notes,omitempty"`
}

func ToReferralDTO(r *Referral) ReferralDTO {
	return ReferralDTO{
		ID:                   r.ID,
		PatientID:            r.PatientID,
		ReferringProviderID:  r.ReferringProviderID,
		ReferredToProviderID: r.ReferredToProviderID,
		Specialty:            db.Deref(r.Specialty),
		Reason:               r.Reason,
		Status:               r.Status,
		ReferralDate:         r.ReferralDate,
		AppointmentDate:      r.AppointmentDate,
		Notes:                db.Deref(r.Notes),
	}
}

func applyReferralDTO(d *ReferralDTO, r *Referral) {
	r.PatientID = d.PatientID
	r.ReferringProviderID = d.ReferringProviderID
	r.ReferredToProviderID = d.ReferredToProviderID
	r.Specialty = db.NullIfEmpty(d.Specialty)
	r.Reason = d.Reason
	r.Status = d.Status
	r.ReferralDate = d.ReferralDate
	r.AppointmentDate = d.AppointmentDate
	r.Notes = db.NullIfEmpty(d.Notes)
}
