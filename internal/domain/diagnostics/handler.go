package diagnostics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

type Handler struct {
	svc *Service
	tx  db.Transactor
}

func NewHandler(svc *Service, tx db.Transactor) *Handler {
	return &Handler{svc: svc, tx: tx}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := auth.AdminOnly
	clinicalOrLab := auth.Any(auth.MedicalStaff, auth.LabStaff)

	(&crud.Resource[LabOrder, LabOrderDTO]{
		Store:   h.svc.orders,
		Tx:      h.tx,
		ToDTO:   toLabOrderDTO,
		Apply:   applyLabOrderDTO,
		Prepare: h.svc.PrepareOrder,
		OrderBy: "order_date DESC",
		Filter: func(c echo.Context, q *db.Query) error {
			if id, ok, err := crud.QueryID(c, "patientId"); err != nil {
				return err
			} else if ok {
				q.Eq("patient_id", id)
			}
			if s := c.QueryParam("status"); s != "" {
				q.Eq("status", s)
			}
			return nil
		},
	}).Mount(api, "/lab-orders", crud.Access{Read: clinicalOrLab, Write: auth.MedicalStaff, Delete: &admin})

	(&crud.Resource[LabResult, LabResultDTO]{
		Store:   h.svc.results,
		Tx:      h.tx,
		ToDTO:   toLabResultDTO,
		Apply:   applyLabResultDTO,
		Prepare: h.svc.PrepareResult,
		OrderBy: "result_date DESC",
	}).Mount(api, "/lab-results", crud.Access{Read: clinicalOrLab, Write: auth.LabStaff, Delete: &admin})

	read := api.Group("", auth.RequirePolicy(clinicalOrLab))
	read.GET("/lab-orders/pending", h.Pending)
	read.GET("/lab-orders/status/:status", h.ByStatus)
	read.GET("/lab-orders/:id/details", h.Details)
	read.GET("/lab-orders/:id/results", crud.ListBy("id", h.svc.Results, toLabResultDTO))
	read.GET("/patients/:id/lab-orders", crud.ListBy("id", h.svc.ByPatient, toLabOrderDTO))
	read.GET("/patients/:id/lab-results/abnormal", crud.ListBy("id", h.svc.AbnormalByPatient, toLabResultDTO))

	lab := api.Group("", auth.RequirePolicy(auth.LabStaff))
	lab.PUT("/lab-orders/:id/status", h.SetStatus)
	lab.POST("/lab-orders/:id/results", h.RecordResult)
}

func (h *Handler) Pending(c echo.Context) error {
	items, err := h.svc.Pending(c.Request().Context())
	return crud.List(c, items, err, toLabOrderDTO)
}

func (h *Handler) ByStatus(c echo.Context) error {
	items, err := h.svc.ByStatus(c.Request().Context(), c.Param("status"))
	return crud.List(c, items, err, toLabOrderDTO)
}

func (h *Handler) Details(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.svc.WithResults(c.Request().Context(), id)
	return crud.One(c, w, err, toOrderWithResultsDTO)
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	return crud.One(c, o, err, toLabOrderDTO)
}

func (h *Handler) RecordResult(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var dto LabResultDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var r LabResult
	applyLabResultDTO(&dto, &r)
	saved, err := h.svc.RecordResult(c.Request().Context(), id, &r)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toLabResultDTO(saved))
}
