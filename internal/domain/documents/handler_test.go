package documents

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/auth"
)

func serve(e *echo.Echo, req *http.Request, roles ...string) *httptest.ResponseRecorder {
	req = req.WithContext(auth.WithUser(req.Context(), 1, "tester", roles))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, fields map[string]string, fileName, contentType, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(content))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestHandler_UploadDownloadDelete(t *testing.T) {
	f := newFixture()
	e := echo.New()
	NewHandler(f.svc).RegisterRoutes(e.Group("/api/v1"))
	fields := map[string]string{"patientId": "7", "documentType": "Consent", "title": "Signed consent"}

	if rec := serve(e, uploadRequest(t, fields, "consent.png", "image/png", "png-bytes"), auth.RoleLabTechnician); rec.Code != http.StatusForbidden {
		t.Errorf("lab tech upload = %d, want 403", rec.Code)
	}
	rec := serve(e, uploadRequest(t, fields, "consent.png", "image/png", "png-bytes"), auth.RoleReceptionist)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload = %d %s", rec.Code, rec.Body)
	}
	var doc DocumentDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &doc)
	if doc.Title != "Signed consent" || doc.FileSize != 9 || doc.Checksum == "" {
		t.Errorf("doc = %+v", doc)
	}

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/documents/1/content", nil), auth.RoleNurse)
	if rec.Code != http.StatusOK || rec.Body.String() != "png-bytes" {
		t.Fatalf("download = %d %q", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("content type = %s", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "consent.png") {
		t.Errorf("disposition = %s", cd)
	}

	if rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/patients/7/documents", nil), auth.RoleDoctor); !strings.Contains(rec.Body.String(), "Signed consent") {
		t.Errorf("by patient = %s", rec.Body)
	}
	if rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/documents/type/Consent", nil), auth.RoleDoctor); !strings.Contains(rec.Body.String(), "consent.png") {
		t.Errorf("by type = %s", rec.Body)
	}

	if rec := serve(e, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/1", nil), auth.RoleDoctor); rec.Code != http.StatusForbidden {
		t.Errorf("doctor delete = %d, want 403", rec.Code)
	}
	if rec := serve(e, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/1", nil), auth.RoleAdministrator); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d %s", rec.Code, rec.Body)
	}
	if rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/documents/1/content", nil), auth.RoleNurse); rec.Code != http.StatusNotFound {
		t.Errorf("after delete = %d, want 404", rec.Code)
	}
}

func TestHandler_UploadRejections(t *testing.T) {
	f := newFixture()
	e := echo.New()
	NewHandler(f.svc).RegisterRoutes(e.Group("/api/v1"))

	tests := []struct {
		name   string
		fields map[string]string
		ct     string
		want   int
	}{
		{"unsupported type", map[string]string{"patientId": "7", "documentType": "Other"}, "application/zip", http.StatusUnsupportedMediaType},
		{"missing patient", map[string]string{"documentType": "Other"}, "text/plain", http.StatusBadRequest},
		{"bad patient", map[string]string{"patientId": "abc", "documentType": "Other"}, "text/plain", http.StatusBadRequest},
		{"missing type", map[string]string{"patientId": "7"}, "text/plain", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, uploadRequest(t, tt.fields, "note.txt", tt.ct, "hello"), auth.RoleDoctor)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}
