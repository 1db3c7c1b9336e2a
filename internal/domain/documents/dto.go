package documents

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type DocumentDTO struct {
	ID                   int64     `json:"id"`
	PatientID            int64     `json:"patientId"`
	EncounterID          *int64    `json:"encounterId,omitempty"`
	UploadedByProviderID *int64    `json:"uploadedByProviderId,omitempty"`
	DocumentType         string    `json:"documentType"`
	Title                string    `json:"title"`
	FileName             string    `json:"fileName"`
	ContentType          string    `json:"contentType"`
	FileSize             int64     `json:"fileSize"`
	Checksum             string    `json:"checksum,omitempty"`
	Description          string    `json:"description,omitempty"`
	CreatedDate          time.Time `json:"createdDate"`
}

func toDocumentDTO(d *Document) DocumentDTO {
	return DocumentDTO{
		ID:                   d.ID,
		PatientID:            d.PatientID,
		EncounterID:          d.EncounterID,
		UploadedByProviderID: d.UploadedByProviderID,
		DocumentType:         d.DocumentType,
		Title:                d.Title,
		FileName:             d.FileName,
		ContentType:          d.ContentType,
		FileSize:             d.FileSize,
		Checksum:             db.Deref(d.Checksum),
		Description:          db.Deref(d.Description),
		CreatedDate:          d.CreatedDate,
	}
}

// metadataRequest carries the fields editable after upload.
type metadataRequest struct {
	DocumentType string `json:"documentType"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	EncounterID  *int64 `json:"encounterId"`
}
