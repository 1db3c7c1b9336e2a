package documents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/platform/blobstore"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/crud/crudtest"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

type mockDocumentRepo struct {
	*crudtest.MemStore[Document, *Document]
}

func (m *mockDocumentRepo) GetByPatient(_ context.Context, id int64) ([]*Document, error) {
	return m.Where(func(d *Document) bool { return d.PatientID == id }), nil
}

func (m *mockDocumentRepo) GetByEncounter(_ context.Context, id int64) ([]*Document, error) {
	return m.Where(func(d *Document) bool { return d.EncounterID != nil && *d.EncounterID == id }), nil
}

func (m *mockDocumentRepo) GetByType(_ context.Context, t string) ([]*Document, error) {
	return m.Where(func(d *Document) bool { return d.DocumentType == t }), nil
}

type fixture struct {
	svc    *Service
	docs   *mockDocumentRepo
	blobs  *blobstore.MemoryStore
	events *events.Recorder
}

func newFixture() *fixture {
	f := &fixture{
		docs:   &mockDocumentRepo{MemStore: crudtest.NewMemStore[Document]()},
		blobs:  blobstore.NewMemoryStore(),
		events: &events.Recorder{},
	}
	f.svc = NewService(f.docs, f.blobs, db.NopTransactor{}, events.NewEmitter(f.events, zerolog.Nop()), zerolog.Nop())
	return f
}

func labReport(content string) Upload {
	return Upload{
		PatientID:    7,
		DocumentType: "LabReport",
		FileName:     "cbc.PDF",
		ContentType:  "application/pdf; charset=binary",
		Content:      strings.NewReader(content),
	}
}

func TestUpload_StoresBlobAndMetadata(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc, err := f.svc.Upload(ctx, labReport("%PDF-1.7 results"))
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256([]byte("%PDF-1.7 results"))
	if doc.Checksum == nil || *doc.Checksum != hex.EncodeToString(sum[:]) {
		t.Errorf("checksum = %v", doc.Checksum)
	}
	if doc.Title != "cbc.PDF" || doc.ContentType != "application/pdf" || doc.FileSize != 16 {
		t.Errorf("doc = %+v", doc)
	}
	if !strings.HasPrefix(doc.StorageKey, "documents/7/") || !strings.HasSuffix(doc.StorageKey, ".pdf") {
		t.Errorf("key = %s", doc.StorageKey)
	}

	_, rc, err := f.svc.Open(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "%PDF-1.7 results" {
		t.Errorf("content = %q", body)
	}
	if ok, err := f.svc.Verify(ctx, doc.ID); err != nil || !ok {
		t.Errorf("verify = %v, %v", ok, err)
	}
	if got := f.events.Types(); len(got) != 1 || got[0] != events.DocumentUploaded {
		t.Errorf("events = %v", got)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		in    func() Upload
		check func(error) bool
	}{
		{"no patient", func() Upload { u := labReport("x"); u.PatientID = 0; return u }, crud.IsValidation},
		{"no type", func() Upload { u := labReport("x"); u.DocumentType = " "; return u }, crud.IsValidation},
		{"empty file", func() Upload { return labReport("") }, crud.IsValidation},
		{"executable", func() Upload {
			u := labReport("MZ")
			u.ContentType = "application/x-msdownload"
			return u
		}, func(err error) bool { return errors.Is(err, blobstore.ErrInvalidContentType) }},
		{"too large", func() Upload {
			u := labReport("")
			u.Content = io.LimitReader(zeros{}, blobstore.MaxFileSize+1)
			return u
		}, func(err error) bool { return errors.Is(err, blobstore.ErrFileTooLarge) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if _, err := f.svc.Upload(context.Background(), tt.in()); !tt.check(err) {
				t.Errorf("err = %v", err)
			}
			if f.blobs.Len() != 0 {
				t.Error("blob stored for rejected upload")
			}
		})
	}
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestUpload_RemovesBlobWhenRowFails(t *testing.T) {
	f := newFixture()
	f.docs.Err = errors.New("insert failed")
	if _, err := f.svc.Upload(context.Background(), labReport("%PDF")); err == nil {
		t.Fatal("expected error")
	}
	if f.blobs.Len() != 0 {
		t.Errorf("orphaned blobs = %d", f.blobs.Len())
	}
	if len(f.events.Events()) != 0 {
		t.Error("event emitted for failed upload")
	}
}

func TestDelete_RemovesRowAndBlob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, err := f.svc.Upload(ctx, labReport("%PDF"))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	if f.blobs.Len() != 0 || len(f.docs.All()) != 0 {
		t.Errorf("blobs = %d rows = %d", f.blobs.Len(), len(f.docs.All()))
	}
	if err := f.svc.Delete(ctx, doc.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestVerify_DetectsTampering(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, _ := f.svc.Upload(ctx, labReport("%PDF original"))
	_ = f.blobs.Put(ctx, doc.StorageKey, "application/pdf", []byte("%PDF altered"))

	if ok, err := f.svc.Verify(ctx, doc.ID); err != nil || ok {
		t.Errorf("verify = %v, %v", ok, err)
	}
}

func TestUpdateMetadata(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, _ := f.svc.Upload(ctx, labReport("%PDF"))
	enc := int64(3)

	got, err := f.svc.UpdateMetadata(ctx, doc.ID, metadataRequest{DocumentType: "Imaging", Title: "Chest X-ray", EncounterID: &enc})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Chest X-ray" || got.StorageKey != doc.StorageKey || got.Checksum == nil {
		t.Errorf("updated = %+v", got)
	}
	if byEnc, _ := f.svc.ByEncounter(ctx, 3); len(byEnc) != 1 {
		t.Errorf("by encounter = %d", len(byEnc))
	}
	if _, err := f.svc.UpdateMetadata(ctx, doc.ID, metadataRequest{DocumentType: "Imaging"}); !crud.IsValidation(err) {
		t.Errorf("missing title err = %v", err)
	}
}
