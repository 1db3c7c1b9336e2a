package documents

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/blobstore"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequirePolicy(auth.FrontDesk))
	g.POST("/documents", h.Upload)
	g.GET("/documents/type/:type", h.ByType)
	g.GET("/documents/:id", h.Get)
	g.GET("/documents/:id/content", h.Download)
	g.GET("/documents/:id/verify", h.Verify)
	g.PUT("/documents/:id", h.UpdateMetadata)
	g.GET("/patients/:id/documents", crud.ListBy("id", h.svc.ByPatient, toDocumentDTO))
	g.GET("/encounters/:id/documents", crud.ListBy("id", h.svc.ByEncounter, toDocumentDTO))

	api.DELETE("/documents/:id", h.Delete, auth.RequirePolicy(auth.AdminOnly))
}

// uploadError maps blob store rejections before the generic mapping.
func uploadError(err error) error {
	switch {
	case errors.Is(err, blobstore.ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, blobstore.ErrInvalidContentType):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, blobstore.ErrBlobNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "document content not found").SetInternal(err)
	default:
		return crud.HTTPError(err)
	}
}

func optionalID(c echo.Context, name string) (*int64, error) {
	v := c.FormValue(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return &id, nil
}

// Upload accepts multipart/form-data with the content in "file" and the
// metadata in patientId, encounterId, uploadedByProviderId, documentType,
// title and description.
func (h *Handler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	patientID, err := optionalID(c, "patientId")
	if err != nil {
		return err
	}
	if patientID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId is required")
	}
	encounterID, err := optionalID(c, "encounterId")
	if err != nil {
		return err
	}
	providerID, err := optionalID(c, "uploadedByProviderId")
	if err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	doc, err := h.svc.Upload(c.Request().Context(), Upload{
		PatientID:            *patientID,
		EncounterID:          encounterID,
		UploadedByProviderID: providerID,
		DocumentType:         c.FormValue("documentType"),
		Title:                middleware.SanitizeString(c.FormValue("title")),
		Description:          middleware.SanitizeString(c.FormValue("description")),
		FileName:             middleware.SanitizeString(file.Filename),
		ContentType:          file.Header.Get(echo.HeaderContentType),
		Content:              src,
	})
	if err != nil {
		return uploadError(err)
	}
	return c.JSON(http.StatusCreated, toDocumentDTO(doc))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	doc, err := h.svc.Get(c.Request().Context(), id)
	return crud.One(c, doc, err, toDocumentDTO)
}

func (h *Handler) Download(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	doc, rc, err := h.svc.Open(c.Request().Context(), id)
	if err != nil {
		return uploadError(err)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(doc.FileSize, 10))
	return c.Stream(http.StatusOK, doc.ContentType, rc)
}

func (h *Handler) Verify(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	ok, err := h.svc.Verify(c.Request().Context(), id)
	if err != nil {
		return uploadError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"intact": ok})
}

func (h *Handler) UpdateMetadata(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var req metadataRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doc, err := h.svc.UpdateMetadata(c.Request().Context(), id, req)
	return crud.One(c, doc, err, toDocumentDTO)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return crud.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ByType(c echo.Context) error {
	items, err := h.svc.ByType(c.Request().Context(), c.Param("type"))
	return crud.List(c, items, err, toDocumentDTO)
}
