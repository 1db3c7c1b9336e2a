package documents

import (
	"github.com/emr/emr/internal/platform/db"
)

// Document is the metadata row of an uploaded file. The content lives in
// the blob store under StorageKey.
type Document struct {
	db.Model
	PatientID            int64   `db:"patient_id"`
	EncounterID          *int64  `db:"encounter_id"`
	UploadedByProviderID *int64  `db:"uploaded_by_provider_id"`
	DocumentType         string  `db:"document_type"`
	Title                string  `db:"title"`
	FileName             string  `db:"file_name"`
	ContentType          string  `db:"content_type"`
	FileSize             int64   `db:"file_size"`
	StorageKey           string  `db:"storage_key"`
	Checksum             *string `db:"checksum"`
	Description          *string `db:"description"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) Fields() []db.Field {
	return []db.Field{
		{Column: "patient_id", Value: d.PatientID},
		{Column: "encounter_id", Value: d.EncounterID},
		{Column: "uploaded_by_provider_id", Value: d.UploadedByProviderID},
		{Column: "document_type", Value: d.DocumentType},
		{Column: "title", Value: d.Title},
		{Column: "file_name", Value: d.FileName},
		{Column: "content_type", Value: d.ContentType},
		{Column: "file_size", Value: d.FileSize},
		{Column: "storage_key", Value: d.StorageKey},
		{Column: "checksum", Value: d.Checksum},
		{Column: "description", Value: d.Description},
	}
}
