package clinical

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/db"
)

// byColumn is the shared shape of every filter-by-parent query.
func byColumn[T any, PT db.EntityPtr[T]](ctx context.Context, r *db.Repository[T, PT], column string, value any, orderBy string) ([]*T, error) {
	return r.Find(ctx, db.NewQuery().Eq(column, value).OrderBy(orderBy))
}

// -- Medical record --

type medicalRecordRepoPG struct {
	*db.Repository[MedicalRecord, *MedicalRecord]
}

func NewMedicalRecordRepoPG(q db.Querier) MedicalRecordRepository {
	return &medicalRecordRepoPG{db.NewRepository[MedicalRecord](q)}
}

func (r *medicalRecordRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*MedicalRecord, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "record_date DESC")
}

func (r *medicalRecordRepoPG) GetByProvider(ctx context.Context, providerID int64) ([]*MedicalRecord, error) {
	return byColumn(ctx, r.Repository, "provider_id", providerID, "record_date DESC")
}

// -- Diagnosis --

type diagnosisRepoPG struct {
	*db.Repository[Diagnosis, *Diagnosis]
}

func NewDiagnosisRepoPG(q db.Querier) DiagnosisRepository {
	return &diagnosisRepoPG{db.NewRepository[Diagnosis](q)}
}

func (r *diagnosisRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Diagnosis, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "diagnosis_date DESC")
}

func (r *diagnosisRepoPG) GetByEncounter(ctx context.Context, encounterID int64) ([]*Diagnosis, error) {
	return byColumn(ctx, r.Repository, "encounter_id", encounterID, "diagnosis_date ASC")
}

func (r *diagnosisRepoPG) GetActiveByPatient(ctx context.Context, patientID int64) ([]*Diagnosis, error) {
	q := db.NewQuery().Eq("patient_id", patientID).
		In("status", []string{DiagnosisActive, DiagnosisChronic}).
		OrderBy("diagnosis_date DESC")
	return r.Find(ctx, q)
}

// -- Procedure --

type procedureRepoPG struct {
	*db.Repository[Procedure, *Procedure]
}

func NewProcedureRepoPG(q db.Querier) ProcedureRepository {
	return &procedureRepoPG{db.NewRepository[Procedure](q)}
}

func (r *procedureRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Procedure, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "procedure_date DESC")
}

func (r *procedureRepoPG) GetByEncounter(ctx context.Context, encounterID int64) ([]*Procedure, error) {
	return byColumn(ctx, r.Repository, "encounter_id", encounterID, "procedure_date ASC")
}

func (r *procedureRepoPG) GetByDateRange(ctx context.Context, from, to time.Time) ([]*Procedure, error) {
	return r.Find(ctx, db.NewQuery().Between("procedure_date", from, to).OrderBy("procedure_date ASC"))
}

// -- Observation --

type observationRepoPG struct {
	*db.Repository[Observation, *Observation]
}

func NewObservationRepoPG(q db.Querier) ObservationRepository {
	return &observationRepoPG{db.NewRepository[Observation](q)}
}

func (r *observationRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Observation, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "observation_date DESC")
}

func (r *observationRepoPG) GetByEncounter(ctx context.Context, encounterID int64) ([]*Observation, error) {
	return byColumn(ctx, r.Repository, "encounter_id", encounterID, "observation_date ASC")
}

func (r *observationRepoPG) GetByPatientAndCode(ctx context.Context, patientID int64, loincCode string) ([]*Observation, error) {
	q := db.NewQuery().Eq("patient_id", patientID).Eq("loinc_code", loincCode).OrderBy("observation_date DESC")
	return r.Find(ctx, q)
}

// -- Clinical note --

type clinicalNoteRepoPG struct {
	*db.Repository[ClinicalNote, *ClinicalNote]
}

func NewClinicalNoteRepoPG(q db.Querier) ClinicalNoteRepository {
	return &clinicalNoteRepoPG{db.NewRepository[ClinicalNote](q)}
}

func (r *clinicalNoteRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*ClinicalNote, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "created_date DESC")
}

func (r *clinicalNoteRepoPG) GetByEncounter(ctx context.Context, encounterID int64) ([]*ClinicalNote, error) {
	return byColumn(ctx, r.Repository, "encounter_id", encounterID, "created_date ASC")
}

func (r *clinicalNoteRepoPG) GetUnsigned(ctx context.Context, providerID int64) ([]*ClinicalNote, error) {
	q := db.NewQuery().Eq("is_signed", false)
	if providerID != 0 {
		q.Eq("provider_id", providerID)
	}
	return r.Find(ctx, q.OrderBy("created_date ASC"))
}

// -- Allergy --

type allergyRepoPG struct {
	*db.Repository[Allergy, *Allergy]
}

func NewAllergyRepoPG(q db.Querier) AllergyRepository {
	return &allergyRepoPG{db.NewRepository[Allergy](q)}
}

func (r *allergyRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Allergy, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "allergen ASC")
}

func (r *allergyRepoPG) GetActiveByPatient(ctx context.Context, patientID int64) ([]*Allergy, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).Eq("is_active", true).OrderBy("allergen ASC"))
}

// -- Vital signs --

type vitalSignRepoPG struct {
	*db.Repository[VitalSign, *VitalSign]
}

func NewVitalSignRepoPG(q db.Querier) VitalSignRepository {
	return &vitalSignRepoPG{db.NewRepository[VitalSign](q)}
}

func (r *vitalSignRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*VitalSign, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "recorded_date DESC")
}

func (r *vitalSignRepoPG) GetByEncounter(ctx context.Context, encounterID int64) ([]*VitalSign, error) {
	return byColumn(ctx, r.Repository, "encounter_id", encounterID, "recorded_date ASC")
}

func (r *vitalSignRepoPG) GetLatestForPatient(ctx context.Context, patientID int64) (*VitalSign, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy("recorded_date DESC"))
}

// -- Family history --

type familyHistoryRepoPG struct {
	*db.Repository[FamilyHistory, *FamilyHistory]
}

func NewFamilyHistoryRepoPG(q db.Querier) FamilyHistoryRepository {
	return &familyHistoryRepoPG{db.NewRepository[FamilyHistory](q)}
}

func (r *familyHistoryRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*FamilyHistory, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "relationship ASC")
}

// -- Referral --

type referralRepoPG struct {
	*db.Repository[Referral, *Referral]
}

func NewReferralRepoPG(q db.Querier) ReferralRepository {
	return &referralRepoPG{db.NewRepository[Referral](q)}
}

func (r *referralRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Referral, error) {
	return byColumn(ctx, r.Repository, "patient_id", patientID, "referral_date DESC")
}

func (r *referralRepoPG) GetByStatus(ctx context.Context, status string) ([]*Referral, error) {
	return byColumn(ctx, r.Repository, "status", status, "referral_date DESC")
}

func (r *referralRepoPG) GetByReferringProvider(ctx context.Context, providerID int64) ([]*Referral, error) {
	return byColumn(ctx, r.Repository, "referring_provider_id", providerID, "referral_date DESC")
}

func (r *referralRepoPG) GetByReferredToProvider(ctx context.Context, providerID int64) ([]*Referral, error) {
	return byColumn(ctx, r.Repository, "referred_to_provider_id", providerID, "referral_date DESC")
}
