package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Seeded role names.
const (
	RoleAdministrator = "Administrator"
	RoleDoctor        = "Doctor"
	RoleNurse         = "Nurse"
	RoleLabTechnician = "LabTechnician"
	RoleBillingStaff  = "BillingStaff"
	RoleReceptionist  = "Receptionist"
)

// AllRoles lists the seeded roles in display order.
var AllRoles = []string{
	RoleAdministrator, RoleDoctor, RoleNurse, RoleLabTechnician, RoleBillingStaff, RoleReceptionist,
}

// Policy is a named set of roles, any of which satisfies it.
type Policy struct {
	Name  string
	Roles []string
}

var (
	AdminOnly    = Policy{Name: "AdminOnly", Roles: []string{RoleAdministrator}}
	MedicalStaff = Policy{Name: "MedicalStaff", Roles: []string{RoleDoctor, RoleNurse}}
	DoctorOnly   = Policy{Name: "DoctorOnly", Roles: []string{RoleDoctor}}
	LabStaff     = Policy{Name: "LabStaff", Roles: []string{RoleLabTechnician, RoleDoctor}}
	BillingStaff = Policy{Name: "BillingStaff", Roles: []string{RoleBillingStaff}}
	FrontDesk    = Policy{Name: "FrontDesk", Roles: []string{RoleReceptionist, RoleNurse, RoleDoctor}}
	// Authenticated admits any signed-in user.
	Authenticated = Policy{Name: "Authenticated"}
)

// Any merges policies into one admitting the union of their roles.
func Any(policies ...Policy) Policy {
	names := make([]string, 0, len(policies))
	seen := map[string]bool{}
	var roles []string
	for _, p := range policies {
		names = append(names, p.Name)
		for _, r := range p.Roles {
			if !seen[r] {
				seen[r] = true
				roles = append(roles, r)
			}
		}
	}
	return Policy{Name: strings.Join(names, "|"), Roles: roles}
}

// Allows reports whether a user with roles satisfies p. Administrator
// satisfies every policy.
func (p Policy) Allows(roles []string) bool {
	if len(p.Roles) == 0 {
		return true
	}
	for _, has := range roles {
		if has == RoleAdministrator {
			return true
		}
		for _, required := range p.Roles {
			if has == required {
				return true
			}
		}
	}
	return false
}

// RequirePolicy returns middleware that rejects users outside p with 403.
func RequirePolicy(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !p.Allows(RolesFromContext(c.Request().Context())) {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("required role: %s", strings.Join(p.Roles, " or ")))
			}
			return next(c)
		}
	}
}

// IsKnownRole reports whether name is one of the seeded roles.
func IsKnownRole(name string) bool {
	for _, r := range AllRoles {
		if r == name {
			return true
		}
	}
	return false
}
