package scheduling

import (
	"net/http"
	"time"

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

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	appointments := &crud.Resource[Appointment, AppointmentDTO]{
		Store:   h.svc.appointments,
		Tx:      h.tx,
		ToDTO:   toAppointmentDTO,
		Apply:   applyAppointmentDTO,
		Prepare: h.svc.PrepareAppointment,
		OrderBy: "start_time DESC",
		Filter:  filterAppointments,
	}
	appointments.Mount(api, "/appointments", crud.Access{Read: auth.FrontDesk, Write: auth.FrontDesk})

	g := api.Group("", auth.RequirePolicy(auth.FrontDesk))
	g.GET("/appointments/range", h.ByDateRange)
	g.GET("/appointments/status/:status", h.ByStatus)
	g.PUT("/appointments/:id/status", h.SetStatus)
	g.GET("/patients/:id/appointments", h.ByPatient)
	g.GET("/patients/:id/appointments/upcoming", h.Upcoming)
	g.GET("/providers/:id/appointments", h.ByProvider)
}

// filterAppointments narrows the list endpoint by patientId, providerId and status.
func filterAppointments(c echo.Context, q *db.Query) error {
	if id, ok, err := crud.QueryID(c, "patientId"); err != nil {
		return err
	} else if ok {
		q.Eq("patient_id", id)
	}
	if id, ok, err := crud.QueryID(c, "providerId"); err != nil {
		return err
	} else if ok {
		q.Eq("provider_id", id)
	}
	if s := c.QueryParam("status"); s != "" {
		q.Eq("status", s)
	}
	return nil
}

func (h *Handler) ByPatient(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ByPatient(c.Request().Context(), id)
	return crud.List(c, items, err, toAppointmentDTO)
}

func (h *Handler) Upcoming(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.UpcomingForPatient(c.Request().Context(), id)
	return crud.List(c, items, err, toAppointmentDTO)
}

func (h *Handler) ByProvider(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ByProvider(c.Request().Context(), id)
	return crud.List(c, items, err, toAppointmentDTO)
}

// ByDateRange defaults to the next seven days when from or to is omitted.
func (h *Handler) ByDateRange(c echo.Context) error {
	from, ok, err := crud.QueryTime(c, "from")
	if err != nil {
		return err
	}
	if !ok {
		from = time.Now().UTC().Truncate(24 * time.Hour)
	}
	to, ok, err := crud.QueryTime(c, "to")
	if err != nil {
		return err
	}
	if !ok {
		to = from.Add(7 * 24 * time.Hour)
	}
	items, err := h.svc.ByDateRange(c.Request().Context(), from, to)
	return crud.List(c, items, err, toAppointmentDTO)
}

func (h *Handler) ByStatus(c echo.Context) error {
	items, err := h.svc.ByStatus(c.Request().Context(), c.Param("status"))
	return crud.List(c, items, err, toAppointmentDTO)
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
	a, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	return crud.One(c, a, err, toAppointmentDTO)
}
