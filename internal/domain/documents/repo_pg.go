package documents

import (
	"context"

	"github.com/emr/emr/internal/platform/db"
)

const newestFirst = "created_date DESC, id DESC"

type documentRepoPG struct {
	*db.Repository[Document, *Document]
}

func NewDocumentRepoPG(q db.Querier) DocumentRepository {
	return &documentRepoPG{db.NewRepository[Document](q)}
}

func (r *documentRepoPG) GetByPatient(ctx context.Context, patientID int64) ([]*Document, error) {
	return r.Find(ctx, db.NewQuery().Eq("patient_id", patientID).OrderBy(newestFirst))
}

func (r *documentRepoPG) GetByEncounter(ctx context.Context, encounterID int64) ([]*Document, error) {
	return r.Find(ctx, db.NewQuery().Eq("encounter_id", encounterID).OrderBy(newestFirst))
}

func (r *documentRepoPG) GetByType(ctx context.Context, documentType string) ([]*Document, error) {
	return r.Find(ctx, db.NewQuery().Eq("document_type", documentType).OrderBy(newestFirst))
}
