package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runPolicy(t *testing.T, p Policy, roles []string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), 1, "u", roles))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return RequirePolicy(p)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
}

func TestPolicies(t *testing.T) {
	tests := []struct {
		policy Policy
		roles  []string
		want   bool
	}{
		{AdminOnly, []string{RoleAdministrator}, true},
		{AdminOnly, []string{RoleDoctor}, false},
		{MedicalStaff, []string{RoleNurse}, true},
		{MedicalStaff, []string{RoleDoctor}, true},
		{MedicalStaff, []string{RoleReceptionist}, false},
		{DoctorOnly, []string{RoleNurse}, false},
		{DoctorOnly, []string{RoleDoctor}, true},
		{LabStaff, []string{RoleLabTechnician}, true},
		{LabStaff, []string{RoleDoctor}, true},
		{LabStaff, []string{RoleNurse}, false},
		{BillingStaff, []string{RoleBillingStaff}, true},
		{BillingStaff, []string{RoleDoctor}, false},
		{FrontDesk, []string{RoleReceptionist}, true},
		{FrontDesk, []string{RoleLabTechnician}, false},
		{Authenticated, nil, true},
		{Any(FrontDesk, BillingStaff), []string{RoleBillingStaff}, true},
		{Any(FrontDesk, BillingStaff), []string{RoleLabTechnician}, false},
	}

	for _, tt := range tests {
		if got := tt.policy.Allows(tt.roles); got != tt.want {
			t.Errorf("%s.Allows(%v) = %v, want %v", tt.policy.Name, tt.roles, got, tt.want)
		}
	}
}

func TestAdministratorSatisfiesEveryPolicy(t *testing.T) {
	for _, p := range []Policy{AdminOnly, MedicalStaff, DoctorOnly, LabStaff, BillingStaff, FrontDesk} {
		if !p.Allows([]string{RoleAdministrator}) {
			t.Errorf("Administrator should satisfy %s", p.Name)
		}
	}
}

func TestRequirePolicy_Denied(t *testing.T) {
	err := runPolicy(t, DoctorOnly, []string{RoleBillingStaff})
	if err == nil {
		t.Fatal("expected error for unauthorized role")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequirePolicy_Allowed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), 1, "nurse", []string{RoleNurse}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequirePolicy(MedicalStaff)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestIsKnownRole(t *testing.T) {
	if !IsKnownRole("Receptionist") {
		t.Error("Receptionist should be a known role")
	}
	if IsKnownRole("admin") {
		t.Error("admin is not a seeded role")
	}
	if len(AllRoles) != 6 {
		t.Errorf("expected 6 seeded roles, got %d", len(AllRoles))
	}
}
