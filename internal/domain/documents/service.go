package documents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/platform/blobstore"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

// Upload is a file received for a patient, with its metadata.
type Upload struct {
	PatientID            int64
	EncounterID          *int64
	UploadedByProviderID *int64
	DocumentType         string
	Title                string
	Description          string
	FileName             string
	ContentType          string
	Content              io.Reader
}

type Service struct {
	documents DocumentRepository
	blobs     blobstore.Store
	tx        db.Transactor
	events    *events.Emitter
	logger    zerolog.Logger
}

func NewService(documents DocumentRepository, blobs blobstore.Store, tx db.Transactor, emitter *events.Emitter, logger zerolog.Logger) *Service {
	return &Service{
		documents: documents,
		blobs:     blobs,
		tx:        tx,
		events:    emitter,
		logger:    logger.With().Str("component", "documents").Logger(),
	}
}

func normalizeContentType(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func validateMetadata(documentType, title string) error {
	if strings.TrimSpace(documentType) == "" {
		return crud.Invalidf("documentType is required")
	}
	if len(documentType) > 50 {
		return crud.Invalidf("documentType must be at most 50 characters")
	}
	if strings.TrimSpace(title) == "" {
		return crud.Invalidf("title is required")
	}
	if len(title) > 200 {
		return crud.Invalidf("title must be at most 200 characters")
	}
	return nil
}

// Upload stores the content under a fresh key and records its metadata.
// The blob is written first; if the row cannot be saved the blob is removed.
func (s *Service) Upload(ctx context.Context, in Upload) (*Document, error) {
	if in.PatientID == 0 {
		return nil, crud.Invalidf("patientId is required")
	}
	if strings.TrimSpace(in.FileName) == "" {
		return nil, crud.Invalidf("file name is required")
	}
	if in.Title == "" {
		in.Title = in.FileName
	}
	if err := validateMetadata(in.DocumentType, in.Title); err != nil {
		return nil, err
	}
	contentType := normalizeContentType(in.ContentType)
	if !blobstore.AllowedContentTypes[contentType] {
		return nil, fmt.Errorf("%s: %w", contentType, blobstore.ErrInvalidContentType)
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, blobstore.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > blobstore.MaxFileSize {
		return nil, blobstore.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, crud.Invalidf("file is empty")
	}
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	key := fmt.Sprintf("documents/%d/%s%s", in.PatientID, uuid.NewString(), strings.ToLower(path.Ext(in.FileName)))

	if err := s.blobs.Put(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	doc := &Document{
		PatientID:            in.PatientID,
		EncounterID:          in.EncounterID,
		UploadedByProviderID: in.UploadedByProviderID,
		DocumentType:         strings.TrimSpace(in.DocumentType),
		Title:                strings.TrimSpace(in.Title),
		FileName:             path.Base(in.FileName),
		ContentType:          contentType,
		FileSize:             int64(len(data)),
		StorageKey:           key,
		Checksum:             &checksum,
		Description:          db.NullIfEmpty(in.Description),
	}
	var saved *Document
	err = s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		var err error
		if saved, err = s.documents.Add(ctx, doc); err != nil {
			return err
		}
		s.events.Emit(ctx, events.DocumentUploaded, saved.ID, map[string]any{
			"patientId":    saved.PatientID,
			"documentType": saved.DocumentType,
			"contentType":  saved.ContentType,
			"fileSize":     saved.FileSize,
		})
		return nil
	})
	if err != nil {
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Error().Err(derr).Str("storage_key", key).Msg("remove orphaned blob")
		}
		return nil, err
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.documents.GetByID(ctx, id)
}

// Open returns the document with a reader over its content. The caller
// closes the reader.
func (s *Service) Open(ctx context.Context, id int64) (*Document, io.ReadCloser, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.blobs.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return doc, rc, nil
}

// Verify re-reads the content and compares it with the stored checksum.
func (s *Service) Verify(ctx context.Context, id int64) (bool, error) {
	doc, rc, err := s.Open(ctx, id)
	if err != nil {
		return false, err
	}
	defer rc.Close()
	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return false, fmt.Errorf("read blob: %w", err)
	}
	return doc.Checksum != nil && *doc.Checksum == hex.EncodeToString(h.Sum(nil)), nil
}

// UpdateMetadata changes the descriptive fields; the content is immutable.
func (s *Service) UpdateMetadata(ctx context.Context, id int64, req metadataRequest) (*Document, error) {
	if err := validateMetadata(req.DocumentType, req.Title); err != nil {
		return nil, err
	}
	var out *Document
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		doc, err := s.documents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		doc.DocumentType = strings.TrimSpace(req.DocumentType)
		doc.Title = strings.TrimSpace(req.Title)
		doc.Description = db.NullIfEmpty(req.Description)
		doc.EncounterID = req.EncounterID
		out, err = s.documents.Update(ctx, doc)
		return err
	})
	return out, err
}

// Delete removes the row and, once that commits, the blob.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		doc, err := s.documents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.documents.DeleteByID(ctx, id); err != nil {
			return err
		}
		key := doc.StorageKey
		db.AfterCommit(ctx, func(ctx context.Context) {
			if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
				s.logger.Error().Err(err).Str("storage_key", key).Msg("delete blob")
			}
		})
		return nil
	})
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]*Document, error) {
	return s.documents.GetByPatient(ctx, patientID)
}

func (s *Service) ByEncounter(ctx context.Context, encounterID int64) ([]*Document, error) {
	return s.documents.GetByEncounter(ctx, encounterID)
}

func (s *Service) ByType(ctx context.Context, documentType string) ([]*Document, error) {
	return s.documents.GetByType(ctx, documentType)
}
