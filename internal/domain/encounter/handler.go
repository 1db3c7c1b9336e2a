package encounter

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
	encounters := &crud.Resource[Encounter, EncounterDTO]{
		Store:   h.svc.encounters,
		Tx:      h.tx,
		ToDTO:   toEncounterDTO,
		Apply:   applyEncounterDTO,
		Prepare: h.svc.PrepareEncounter,
		OrderBy: "start_date DESC",
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
	}
	admin := auth.AdminOnly
	encounters.Mount(api, "/encounters", crud.Access{Read: auth.MedicalStaff, Write: auth.MedicalStaff, Delete: &admin})

	g := api.Group("", auth.RequirePolicy(auth.MedicalStaff))
	g.GET("/encounters/:id/details", h.Details)
	g.PUT("/encounters/:id/status", h.SetStatus)
	g.GET("/encounters/status/:status", h.ByStatus)
	g.GET("/encounters/range", h.ByDateRange)
	g.GET("/patients/:id/encounters", h.ByPatient)
	g.GET("/providers/:id/encounters", h.ByProvider)
}

func (h *Handler) Details(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.svc.Details(c.Request().Context(), id)
	return crud.One(c, d, err, toDetailsDTO)
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
	e, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	return crud.One(c, e, err, toEncounterDTO)
}

func (h *Handler) ByStatus(c echo.Context) error {
	items, err := h.svc.ByStatus(c.Request().Context(), c.Param("status"))
	return crud.List(c, items, err, toEncounterDTO)
}

func (h *Handler) ByDateRange(c echo.Context) error {
	from, okFrom, err := crud.QueryTime(c, "from")
	if err != nil {
		return err
	}
	to, okTo, err := crud.QueryTime(c, "to")
	if err != nil {
		return err
	}
	if !okFrom || !okTo {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to are required")
	}
	items, err := h.svc.ByDateRange(c.Request().Context(), from, to)
	return crud.List(c, items, err, toEncounterDTO)
}

func (h *Handler) ByPatient(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ByPatient(c.Request().Context(), id)
	return crud.List(c, items, err, toEncounterDTO)
}

func (h *Handler) ByProvider(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ByProvider(c.Request().Context(), id)
	return crud.List(c, items, err, toEncounterDTO)
}
