package encounter

import (
	"time"

	"github.com/emr/emr/internal/domain/clinical"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

type EncounterDTO struct {
	ID             int64      `json:"id"`
	PatientID      int64      `json:"patientId"`
	ProviderID     int64      `json:"providerId"`
	LocationID     *int64     `json:"locationId,omitempty"`
	DepartmentID   *int64     `json:"departmentId,omitempty"`
	EncounterType  string     `json:"encounterType,omitempty"`
	Status         string     `json:"status"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	ChiefComplaint string     `json:"chiefComplaint,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

func toEncounterDTO(e *Encounter) EncounterDTO {
	return EncounterDTO{
		ID:             e.ID,
		PatientID:      e.PatientID,
		ProviderID:     e.ProviderID,
		LocationID:     e.LocationID,
		DepartmentID:   e.DepartmentID,
		EncounterType:  db.Deref(e.EncounterType),
		Status:         e.Status,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		ChiefComplaint: db.Deref(e.ChiefComplaint),
		Notes:          db.Deref(e.Notes),
	}
}

func applyEncounterDTO(d *EncounterDTO, e *Encounter) {
	e.PatientID = d.PatientID
	e.ProviderID = d.ProviderID
	e.LocationID = d.LocationID
	e.DepartmentID = d.DepartmentID
	e.EncounterType = db.NullIfEmpty(d.EncounterType)
	e.Status = d.Status
	e.StartDate = d.StartDate
	e.EndDate = d.EndDate
	e.ChiefComplaint = db.NullIfEmpty(d.ChiefComplaint)
	e.Notes = db.NullIfEmpty(d.Notes)
}

type DetailsDTO struct {
	EncounterDTO
	Diagnoses    []clinical.DiagnosisDTO    `json:"diagnoses"`
	Procedures   []clinical.ProcedureDTO    `json:"procedures"`
	Observations []clinical.ObservationDTO  `json:"observations"`
	Notes        []clinical.ClinicalNoteDTO `json:"clinicalNotes"`
}

func toDetailsDTO(d *Details) DetailsDTO {
	return DetailsDTO{
		EncounterDTO: toEncounterDTO(d.Encounter),
		Diagnoses:    crud.MapAll(d.Diagnoses, clinical.ToDiagnosisDTO),
		Procedures:   crud.MapAll(d.Procedures, clinical.ToProcedureDTO),
		Observations: crud.MapAll(d.Observations, clinical.ToObservationDTO),
		Notes:        crud.MapAll(d.Notes, clinical.ToClinicalNoteDTO),
	}
}

type statusRequest struct {
	Status string `json:"status"`
}
