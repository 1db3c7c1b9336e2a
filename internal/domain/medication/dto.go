package medication

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/pkg/money"
)

type MedicationDTO struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	GenericName  string        `json:"genericName,omitempty"`
	BrandName    string        `json:"brandName,omitempty"`
	NDCCode      string        `json:"ndcCode,omitempty"`
	DosageForm   string        `json:"dosageForm,omitempty"`
	Strength     string        `json:"strength,omitempty"`
	Manufacturer string        `json:"manufacturer,omitempty"`
	UnitPrice    *money.Amount `json:"unitPrice,omitempty"`
	IsActive     bool          `json:"isActive"`
}

func toMedicationDTO(m *Medication) MedicationDTO {
	return MedicationDTO{
		ID:           m.ID,
		Name:         m.Name,
		GenericName:  db.Deref(m.GenericName),
		BrandName:    db.Deref(m.BrandName),
		NDCCode:      db.Deref(m.NDCCode),
		DosageForm:   db.Deref(m.DosageForm),
		Strength:     db.Deref(m.Strength),
		Manufacturer: db.Deref(m.Manufacturer),
		UnitPrice:    m.UnitPrice,
		IsActive:     m.IsActive,
	}
}

func applyMedicationDTO(d *MedicationDTO, m *Medication) {
	m.Name = d.Name
	m.GenericName = db.NullIfEmpty(d.GenericName)
	m.BrandName = db.NullIfEmpty(d.BrandName)
	m.NDCCode = db.NullIfEmpty(d.NDCCode)
	m.DosageForm = db.NullIfEmpty(d.DosageForm)
	m.Strength = db.NullIfEmpty(d.Strength)
	m.Manufacturer = db.NullIfEmpty(d.Manufacturer)
	m.UnitPrice = d.UnitPrice
	m.IsActive = d.IsActive
}

type PrescriptionDTO struct {
	ID           int64      `json:"id"`
	PatientID    int64      `json:"patientId"`
	ProviderID   int64      `json:"providerId"`
	MedicationID int64      `json:"medicationId"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	Route        string     `json:"route,omitempty"`
	Quantity     *int32     `json:"quantity,omitempty"`
	Refills      int32      `json:"refills"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Status       string     `json:"status"`
	Instructions string     `json:"instructions,omitempty"`
}

func toPrescriptionDTO(p *Prescription) PrescriptionDTO {
	return PrescriptionDTO{
		ID:           p.ID,
		PatientID:    p.PatientID,
		ProviderID:   p.ProviderID,
		MedicationID: p.MedicationID,
		Dosage:       p.Dosage,
		Frequency:    p.Frequency,
		Route:        db.Deref(p.Route),
		Quantity:     p.Quantity,
		Refills:      p.Refills,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Status:       p.Status,
		Instructions: db.Deref(p.Instructions),
	}
}

func applyPrescriptionDTO(d *PrescriptionDTO, p *Prescription) {
	p.PatientID = d.PatientID
	p.ProviderID = d.ProviderID
	p.MedicationID = d.MedicationID
	p.Dosage = d.Dosage
	p.Frequency = d.Frequency
	p.Route = db.NullIfEmpty(d.Route)
	p.Quantity = d.Quantity
	p.Refills = d.Refills
	p.StartDate = d.StartDate
	p.EndDate = d.EndDate
	p.Status = d.Status
	p.Instructions = db.NullIfEmpty(d.Instructions)
}

type prescriptionDetailsDTO struct {
	PrescriptionDTO
	Medication MedicationDTO `json:"medication"`
}

func toPrescriptionDetailsDTO(w *PrescriptionWithMedication) prescriptionDetailsDTO {
	return prescriptionDetailsDTO{
		PrescriptionDTO: toPrescriptionDTO(w.Prescription),
		Medication:      toMedicationDTO(w.Medication),
	}
}
