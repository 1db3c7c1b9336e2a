package immunization

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type ImmunizationDTO struct {
	ID                 int64      `json:"id"`
	PatientID          int64      `json:"patientId"`
	ProviderID         *int64     `json:"providerId,omitempty"`
	VaccineName        string     `json:"vaccineName"`
	CVXCode            string     `json:"cvxCode,omitempty"`
	DoseNumber         *int32     `json:"doseNumber,omitempty"`
	AdministrationDate time.Time  `json:"administrationDate"`
	LotNumber          string     `json:"lotNumber,omitempty"`
	Site               string     `json:"site,omitempty"`
	Route              string     `json:"route,omitempty"`
	NextDoseDate       *time.Time `json:"nextDoseDate,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

func toImmunizationDTO(i *Immunization) ImmunizationDTO {
	return ImmunizationDTO{
		ID:                 i.ID,
		PatientID:          i.PatientID,
		ProviderID:         i.ProviderID,
		VaccineName:        i.VaccineName,
		CVXCode:            db.Deref(i.CVXCode),
		DoseNumber:         i.DoseNumber,
		AdministrationDate: i.AdministrationDate,
		LotNumber:          db.Deref(i.LotNumber),
		Site:               db.Deref(i.Site),
		Route:              db.Deref(i.Route),
		NextDoseDate:       i.NextDoseDate,
		Notes:              db.Deref(i.Notes),
	}
}

func applyImmunizationDTO(d *ImmunizationDTO, i *Immunization) {
	i.PatientID = d.PatientID
	i.ProviderID = d.ProviderID
	i.VaccineName = d.VaccineName
	i.CVXCode = db.NullIfEmpty(d.CVXCode)
	i.DoseNumber = d.DoseNumber
	i.AdministrationDate = d.AdministrationDate
	i.LotNumber = db.NullIfEmpty(d.LotNumber)
	i.Site = db.NullIfEmpty(d.Site)
	i.Route = db.NullIfEmpty(d.Route)
	i.NextDoseDate = d.NextDoseDate
	i.Notes = db.NullIfEmpty(d.Notes)
}
