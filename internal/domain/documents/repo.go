package documents

import (
	"context"

	"github.com/emr/emr/internal/platform/crud"
)

type DocumentRepository interface {
	crud.Store[Document]
	GetByPatient(ctx context.Context, patientID int64) ([]*Document, error)
	GetByEncounter(ctx context.Context, encounterID int64) ([]*Document, error)
	GetByType(ctx context.Context, documentType string) ([]*Document, error)
}
