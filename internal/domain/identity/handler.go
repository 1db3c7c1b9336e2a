package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/pkg/pagination"
)

type Handler struct {
	svc   *Service
	authn *AuthService
	tx    db.Transactor
}

func NewHandler(svc *Service, authn *AuthService, tx db.Transactor) *Handler {
	return &Handler{svc: svc, authn: authn, tx: tx}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register, auth.RequirePolicy(auth.AdminOnly))
	api.GET("/auth/me", h.Me)

	admin := api.Group("", auth.RequirePolicy(auth.AdminOnly))
	admin.GET("/users", h.ListUsers)
	admin.POST("/users/:id/roles", h.AssignRole)
	admin.DELETE("/users/:id/roles/:role", h.RemoveRole)
	admin.POST("/users/:id/activate", h.ActivateUser)
	admin.POST("/users/:id/deactivate", h.DeactivateUser)
	admin.GET("/roles", h.ListRoles)

	frontDesk := api.Group("", auth.RequirePolicy(auth.Any(auth.FrontDesk, auth.BillingStaff, auth.LabStaff)))
	frontDesk.GET("/patients", h.ListPatients)
	frontDesk.GET("/patients/search", h.SearchPatients)
	frontDesk.GET("/patients/active", h.ActivePatients)
	frontDesk.GET("/patients/mrn/:mrn", h.GetPatientByMRN)
	frontDesk.GET("/patients/:id", h.GetPatient)

	register := api.Group("", auth.RequirePolicy(auth.FrontDesk))
	register.POST("/patients", h.RegisterPatient)
	register.PUT("/patients/:id", h.UpdatePatient)
	register.POST("/patients/:id/deactivate", h.DeactivatePatient)
	admin.DELETE("/patients/:id", h.DeletePatient)

	providers := &crud.Resource[Provider, ProviderDTO]{
		Store:   h.svc.providers,
		Tx:      h.tx,
		ToDTO:   toProviderDTO,
		Apply:   applyProviderDTO,
		Prepare: h.svc.PrepareProvider,
		OrderBy: "last_name ASC, first_name ASC",
	}
	providers.Mount(api, "/providers", crud.Access{Read: auth.Authenticated, Write: auth.AdminOnly})
	api.GET("/providers/active", h.ActiveProviders)
	api.GET("/providers/specialty/:specialty", h.ProvidersBySpecialty)
	api.GET("/providers/department/:departmentId", h.ProvidersByDepartment)
	api.GET("/providers/user/:userId", h.ProviderByUser)
}

// -- Auth --

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.authn.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if IsInvalidCredentials(err) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: sess.Token.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   sess.Token.ExpiresAt,
		ExpiresIn:   int64(h.authn.TokenTTL().Seconds()),
		User:        toUserDTO(sess.User, sess.Roles),
	})
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, roles, err := h.authn.Register(c.Request().Context(), req)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toUserDTO(u, roles))
}

func (h *Handler) Me(c echo.Context) error {
	uid, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	u, roles, err := h.authn.Me(c.Request().Context(), uid)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserDTO(u, roles))
}

func (h *Handler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.authn.ListUsers(ctx)
	if err != nil {
		return crud.HTTPError(err)
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		roles, err := h.authn.users.GetRoles(ctx, u.ID)
		if err != nil {
			return crud.HTTPError(err)
		}
		out = append(out, toUserDTO(u, roles))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) AssignRole(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var req roleChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	roles, err := h.authn.AssignRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"roles": roles})
}

func (h *Handler) RemoveRole(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	roles, err := h.authn.RemoveRole(c.Request().Context(), id, c.Param("role"))
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"roles": roles})
}

func (h *Handler) ActivateUser(c echo.Context) error   { return h.setUserActive(c, true) }
func (h *Handler) DeactivateUser(c echo.Context) error { return h.setUserActive(c, false) }

func (h *Handler) setUserActive(c echo.Context, active bool) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.authn.SetActive(c.Request().Context(), id, active)
	if err != nil {
		return crud.HTTPError(err)
	}
	roles, err := h.authn.users.GetRoles(c.Request().Context(), id)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserDTO(u, roles))
}

func (h *Handler) ListRoles(c echo.Context) error {
	roles, err := h.authn.ListRoles(c.Request().Context())
	return crud.List(c, roles, err, toRoleDTO)
}

// -- Patient --

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), pg.Page, pg.PageSize, c.QueryParam("search"))
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(crud.MapAll(items, toPatientDTO), total, pg))
}

func (h *Handler) SearchPatients(c echo.Context) error {
	items, err := h.svc.SearchPatients(c.Request().Context(), c.QueryParam("term"))
	return crud.List(c, items, err, toPatientDTO)
}

func (h *Handler) ActivePatients(c echo.Context) error {
	items, err := h.svc.GetActivePatients(c.Request().Context())
	return crud.List(c, items, err, toPatientDTO)
}

func (h *Handler) GetPatientByMRN(c echo.Context) error {
	p, err := h.svc.GetPatientByMRN(c.Request().Context(), c.Param("mrn"))
	return crud.One(c, p, err, toPatientDTO)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	pa, err := h.svc.GetPatientWithAddress(c.Request().Context(), id)
	return crud.One(c, pa, err, toPatientWithAddressDTO)
}

func (h *Handler) RegisterPatient(c echo.Context) error {
	var dto PatientDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var p Patient
	dto.applyTo(&p)
	var addr *Address
	if dto.Address != nil {
		addr = &Address{}
		dto.Address.applyTo(addr)
	}

	pa, err := h.svc.RegisterPatient(c.Request().Context(), &p, addr)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toPatientWithAddressDTO(pa))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	var dto PatientDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var addr *Address
	if dto.Address != nil {
		addr = &Address{}
		dto.Address.applyTo(addr)
	}

	pa, err := h.svc.UpdatePatient(c.Request().Context(), id, dto.applyTo, addr)
	if err != nil {
		return crud.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toPatientWithAddressDTO(pa))
}

func (h *Handler) DeactivatePatient(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.DeactivatePatient(c.Request().Context(), id)
	return crud.One(c, p, err, toPatientDTO)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return echo.NewHTTPError(http.StatusConflict,
				"patient has clinical records; deactivate instead").SetInternal(err)
		}
		return crud.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Provider --

func (h *Handler) ActiveProviders(c echo.Context) error {
	items, err := h.svc.ActiveProviders(c.Request().Context())
	return crud.List(c, items, err, toProviderDTO)
}

func (h *Handler) ProvidersBySpecialty(c echo.Context) error {
	items, err := h.svc.ProvidersBySpecialty(c.Request().Context(), c.Param("specialty"))
	return crud.List(c, items, err, toProviderDTO)
}

func (h *Handler) ProvidersByDepartment(c echo.Context) error {
	id, err := crud.ParseID(c, "departmentId")
	if err != nil {
		return err
	}
	items, err := h.svc.ProvidersByDepartment(c.Request().Context(), id)
	return crud.List(c, items, err, toProviderDTO)
}

func (h *Handler) ProviderByUser(c echo.Context) error {
	id, err := crud.ParseID(c, "userId")
	if err != nil {
		return err
	}
	p, err := h.svc.ProviderByUserID(c.Request().Context(), id)
	return crud.One(c, p, err, toProviderDTO)
}
