package careplan

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
	access := crud.Access{Read: auth.MedicalStaff, Write: auth.MedicalStaff, Delete: &admin}

	plans := &crud.Resource[CarePlan, CarePlanDTO]{
		Store:   h.svc.plans,
		Tx:      h.tx,
		ToDTO:   toCarePlanDTO,
		Apply:   applyCarePlanDTO,
		Prepare: h.svc.PreparePlan,
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
	plans.Mount(api, "/care-plans", access)

	activities := &crud.Resource[Activity, ActivityDTO]{
		Store:   h.svc.activities,
		Tx:      h.tx,
		ToDTO:   toActivityDTO,
		Apply:   applyActivityDTO,
		Prepare: h.svc.PrepareActivity,
		OrderBy: activityOrder,
	}
	activities.Mount(api, "/care-plan-activities", crud.Access{Read: auth.MedicalStaff, Write: auth.MedicalStaff})

	g := api.Group("", auth.RequirePolicy(auth.MedicalStaff))
	g.GET("/care-plans/active", h.Active)
	g.GET("/care-plans/:id/details", h.Details)
	g.GET("/care-plans/:id/activities", crud.ListBy("id", h.svc.Activities, toActivityDTO))
	g.POST("/care-plans/:id/activities", h.AddActivity)
	g.POST("/care-plan-activities/:id/complete", h.CompleteActivity)
	g.GET("/patients/:id/care-plans", crud.ListBy("id", h.svc.ByPatient, toCarePlanDTO))
	g.GET("/patients/:id/care-plans/active", crud.ListBy("id", h.svc.ActiveByPatient, toCarePlanDTO))
}

func (h *Handler) Active(c echo.Context) error {
	items, err := h.svc.Active(c.Request().Context())
	return crud.List(c, items, err, toCarePlanDTO)
}

func (h *Handler) Details(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.svc.WithActivities(c.Request().Context(), id)
	return crud.One(c, w, err, toWithActivitiesDTO)
}

func (h *Handler) AddActivity(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var dto ActivityDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var a Activity
	applyActivityDTO(&dto, &a)
	saved, err := h.svc.AddActivity(c.Request().Context(), id, &a)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toActivityDTO(saved))
}

func (h *Handler) CompleteActivity(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.CompleteActivity(c.Request().Context(), id)
	return crud.One(c, a, err, toActivityDTO)
}
