package admin

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
	access := crud.Access{Read: auth.Authenticated, Write: auth.AdminOnly}

	locations := &crud.Resource[Location, LocationDTO]{
		Store:   h.svc.locations,
		Tx:      h.tx,
		ToDTO:   toLocationDTO,
		Apply:   applyLocationDTO,
		Prepare: h.svc.PrepareLocation,
		OrderBy: "name ASC",
	}
	locations.Mount(api, "/locations", access)
	api.GET("/locations/active", h.ActiveLocations)
	api.GET("/locations/type/:type", h.LocationsByType)

	departments := &crud.Resource[Department, DepartmentDTO]{
		Store:   h.svc.departments,
		Tx:      h.tx,
		ToDTO:   toDepartmentDTO,
		Apply:   applyDepartmentDTO,
		Prepare: h.svc.PrepareDepartment,
		OrderBy: "name ASC",
	}
	departments.Mount(api, "/departments", access)
	api.GET("/departments/active", h.ActiveDepartments)
	api.GET("/locations/:id/departments", h.DepartmentsByLocation)
}

func (h *Handler) ActiveLocations(c echo.Context) error {
	items, err := h.svc.ActiveLocations(c.Request().Context())
	return crud.List(c, items, err, toLocationDTO)
}

func (h *Handler) LocationsByType(c echo.Context) error {
	items, err := h.svc.LocationsByType(c.Request().Context(), c.Param("type"))
	return crud.List(c, items, err, toLocationDTO)
}

func (h *Handler) ActiveDepartments(c echo.Context) error {
	items, err := h.svc.ActiveDepartments(c.Request().Context())
	return crud.List(c, items, err, toDepartmentDTO)
}

func (h *Handler) DepartmentsByLocation(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.DepartmentsByLocation(c.Request().Context(), id)
	return crud.List(c, items, err, toDepartmentDTO)
}
