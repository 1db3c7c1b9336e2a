package billing

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
	billingOrFront := auth.Any(auth.BillingStaff, auth.FrontDesk)

	(&crud.Resource[Billing, BillingDTO]{
		Store:   h.svc.billings,
		Tx:      h.tx,
		ToDTO:   toBillingDTO,
		Apply:   applyBillingDTO,
		Prepare: h.svc.PrepareBilling,
		OrderBy: "billing_date DESC",
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
	}).Mount(api, "/billings", crud.Access{Read: auth.BillingStaff, Write: auth.BillingStaff, Delete: &admin})

	(&crud.Resource[Insurance, InsuranceDTO]{
		Store:   h.svc.insurances,
		Tx:      h.tx,
		ToDTO:   toInsuranceDTO,
		Apply:   applyInsuranceDTO,
		Prepare: h.svc.PrepareInsurance,
		OrderBy: "effective_date DESC",
	}).Mount(api, "/insurances", crud.Access{Read: billingOrFront, Write: billingOrFront, Delete: &admin})

	g := api.Group("", auth.RequirePolicy(auth.BillingStaff))
	g.GET("/billings/outstanding", h.Outstanding)
	g.GET("/billings/status/:status", h.ByStatus)
	g.GET("/billings/invoice/:number", h.ByInvoiceNumber)
	g.GET("/billings/:id/details", h.Details)
	g.GET("/billings/:id/items", crud.ListBy("id", h.svc.Items, toItemDTO))
	g.POST("/billings/:id/items", h.AddItem)
	g.DELETE("/billings/:id/items/:itemId", h.RemoveItem)
	g.POST("/billings/:id/payments", h.RecordPayment)
	g.GET("/patients/:id/billings", crud.ListBy("id", h.svc.ByPatient, toBillingDTO))

	ins := api.Group("", auth.RequirePolicy(billingOrFront))
	ins.GET("/patients/:id/insurances", crud.ListBy("id", h.svc.InsuranceByPatient, toInsuranceDTO))
	ins.GET("/patients/:id/insurances/active", h.ActiveInsurance)
}

func (h *Handler) Outstanding(c echo.Context) error {
	items, err := h.svc.Outstanding(c.Request().Context())
	return crud.List(c, items, err, toBillingDTO)
}

func (h *Handler) ByStatus(c echo.Context) error {
	items, err := h.svc.ByStatus(c.Request().Context(), c.Param("status"))
	return crud.List(c, items, err, toBillingDTO)
}

func (h *Handler) ByInvoiceNumber(c echo.Context) error {
	b, err := h.svc.ByInvoiceNumber(c.Request().Context(), c.Param("number"))
	return crud.One(c, b, err, toBillingDTO)
}

func (h *Handler) Details(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.svc.WithItems(c.Request().Context(), id)
	return crud.One(c, w, err, toWithItemsDTO)
}

func (h *Handler) AddItem(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var dto ItemDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var item Item
	applyItemDTO(&dto, &item)
	saved, err := h.svc.AddItem(c.Request().Context(), id, &item)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toItemDTO(saved))
}

func (h *Handler) RemoveItem(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := crud.ParseID(c, "itemId")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveItem(c.Request().Context(), id, itemID); err != nil {
		return crud.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RecordPayment(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.RecordPayment(c.Request().Context(), id, req.Amount)
	return crud.One(c, b, err, toBillingDTO)
}

func (h *Handler) ActiveInsurance(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	ins, err := h.svc.ActiveInsurance(c.Request().Context(), id)
	return crud.One(c, ins, err, toInsuranceDTO)
}
