package medication

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
	(&crud.Resource[Medication, MedicationDTO]{
		Store:   h.svc.medications,
		Tx:      h.tx,
		ToDTO:   toMedicationDTO,
		Apply:   applyMedicationDTO,
		Prepare: h.svc.PrepareMedication,
		OrderBy: "name ASC",
	}).Mount(api, "/medications", crud.Access{Read: auth.Authenticated, Write: auth.AdminOnly})

	admin := auth.AdminOnly
	(&crud.Resource[Prescription, PrescriptionDTO]{
		Store:   h.svc.prescriptions,
		Tx:      h.tx,
		ToDTO:   toPrescriptionDTO,
		Apply:   applyPrescriptionDTO,
		Prepare: h.svc.PreparePrescription,
		Created: h.svc.PrescriptionCreated,
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
	}).Mount(api, "/prescriptions", crud.Access{Read: auth.MedicalStaff, Write: auth.DoctorOnly, Delete: &admin})

	api.GET("/medications/search", h.Search, auth.RequirePolicy(auth.Authenticated))
	api.GET("/medications/active", h.Active, auth.RequirePolicy(auth.Authenticated))

	g := api.Group("", auth.RequirePolicy(auth.MedicalStaff))
	g.GET("/prescriptions/:id/details", h.Details)
	g.POST("/prescriptions/:id/discontinue", h.Discontinue, auth.RequirePolicy(auth.DoctorOnly))
	g.GET("/patients/:id/prescriptions", crud.ListBy("id", h.svc.ByPatient, toPrescriptionDTO))
	g.GET("/patients/:id/prescriptions/active", crud.ListBy("id", h.svc.ActiveByPatient, toPrescriptionDTO))
	g.GET("/providers/:id/prescriptions", crud.ListBy("id", h.svc.ByProvider, toPrescriptionDTO))
}

// Search matches ?term= against the catalog names.
func (h *Handler) Search(c echo.Context) error {
	term := c.QueryParam("term")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "term is required")
	}
	items, err := h.svc.SearchMedications(c.Request().Context(), term)
	return crud.List(c, items, err, toMedicationDTO)
}

func (h *Handler) Active(c echo.Context) error {
	items, err := h.svc.ActiveMedications(c.Request().Context())
	return crud.List(c, items, err, toMedicationDTO)
}

func (h *Handler) Details(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.svc.Details(c.Request().Context(), id)
	return crud.One(c, w, err, toPrescriptionDetailsDTO)
}

func (h *Handler) Discontinue(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.Discontinue(c.Request().Context(), id)
	return crud.One(c, p, err, toPrescriptionDTO)
}
