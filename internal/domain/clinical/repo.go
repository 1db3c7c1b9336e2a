package clinical

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/crud"
)

// Patient and provider history lists are most recent first unless noted.

type MedicalRecordRepository interface {
	crud.Store[MedicalRecord]
	GetByPatient(ctx context.Context, patientID int64) ([]*MedicalRecord, error)
	GetByProvider(ctx context.Context, providerID int64) ([]*MedicalRecord, error)
}

type DiagnosisRepository interface {
	crud.Store[Diagnosis]
	GetByPatient(ctx context.Context, patientID int64) ([]*Diagnosis, error)
	GetByEncounter(ctx context.Context, encounterID int64) ([]*Diagnosis, error)
	// GetActiveByPatient returns diagnoses whose status is Active or Chronic.
	GetActiveByPatient(ctx context.Context, patientID int64) ([]*Diagnosis, error)
}

type ProcedureRepository interface {
	crud.Store[Procedure]
	GetByPatient(ctx context.Context, patientID int64) ([]*Procedure, error)
	GetByEncounter(ctx context.Context, encounterID int64) ([]*Procedure, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*Procedure, error)
}

type ObservationRepository interface {
	crud.Store[Observation]
	GetByPatient(ctx context.Context, patientID int64) ([]*Observation, error)
	GetByEncounter(ctx context.Context, encounterID int64) ([]*Observation, error)
	// GetByPatientAndCode returns one LOINC series for a patient.
	GetByPatientAndCode(ctx context.Context, patientID int64, loincCode string) ([]*Observation, error)
}

type ClinicalNoteRepository interface {
	crud.Store[ClinicalNote]
	GetByPatient(ctx context.Context, patientID int64) ([]*ClinicalNote, error)
	GetByEncounter(ctx context.Context, encounterID int64) ([]*ClinicalNote, error)
	// GetUnsigned returns unsigned notes, optionally for one provider (0 for all).
	GetUnsigned(ctx context.Context, providerID int64) ([]*ClinicalNote, error)
}

type AllergyRepository interface {
	crud.Store[Allergy]
	GetByPatient(ctx context.Context, patientID int64) ([]*Allergy, error)
	GetActiveByPatient(ctx context.Context, patientID int64) ([]*Allergy, error)
}

type VitalSignRepository interface {
	crud.Store[VitalSign]
	GetByPatient(ctx context.Context, patientID int64) ([]*VitalSign, error)
	GetByEncounter(ctx context.Context, encounterID int64) ([]*VitalSign, error)
	GetLatestForPatient(ctx context.Context, patientID int64) (*VitalSign, error)
}

type FamilyHistoryRepository interface {
	crud.Store[FamilyHistory]
	GetByPatient(ctx context.Context, patientID int64) ([]*FamilyHistory, error)
}

type ReferralRepository interface {
	crud.Store[Referral]
	GetByPatient(ctx context.Context, patientID int64) ([]*Referral, error)
	GetByStatus(ctx context.Context, status string) ([]*Referral, error)
	GetByReferringProvider(ctx context.Context, providerID int64) ([]*Referral, error)
	GetByReferredToProvider(ctx context.Context, providerID int64) ([]*Referral, error)
}
