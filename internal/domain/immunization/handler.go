package immunization

import (
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
	(&crud.Resource[Immunization, ImmunizationDTO]{
		Store:   h.svc.immunizations,
		Tx:      h.tx,
		ToDTO:   toImmunizationDTO,
		Apply:   applyImmunizationDTO,
		Prepare: h.svc.PrepareImmunization,
		OrderBy: "administration_date DESC",
		Filter: func(c echo.Context, q *db.Query) error {
			id, ok, err := crud.QueryID(c, "patientId")
			if ok {
				q.Eq("patient_id", id)
			}
			return err
		},
	}).Mount(api, "/immunizations", crud.Access{Read: auth.MedicalStaff, Write: auth.MedicalStaff, Delete: &admin})

	g := api.Group("", auth.RequirePolicy(auth.MedicalStaff))
	g.GET("/immunizations/due", h.Due)
	g.GET("/patients/:id/immunizations", crud.ListBy("id", h.svc.ByPatient, toImmunizationDTO))
}

// Due lists immunizations due by ?asOf= (default now).
func (h *Handler) Due(c echo.Context) error {
	asOf, _, err := crud.QueryTime(c, "asOf")
	if err != nil {
		return err
	}
	items, err := h.svc.Due(c.Request().Context(), asOf)
	return crud.List(c, items, err, toImmunizationDTO)
}
