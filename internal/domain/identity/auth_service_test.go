package identity

import (
	"context"
	"testing"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

func registerUser(t *testing.T, f *fixture, username string, roles ...string) *User {
	t.Helper()
	u, _, err := f.authn.Register(context.Background(), RegisterRequest{
		Username:  username,
		Email:     username + "@example.org",
		Password:  "correct-horse",
		FirstName: "Test",
		LastName:  "User",
		Roles:     roles,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return u
}

func TestRegister_HashesPasswordAndAssignsRoles(t *testing.T) {
	f := newFixture()
	u := registerUser(t, f, "nurse1", auth.RoleNurse)

	if u.PasswordHash == "" || u.PasswordHash == "correct-horse" {
		t.Fatal("password must be stored as a hash")
	}
	roles, _ := f.users.GetRoles(context.Background(), u.ID)
	if len(roles) != 1 || roles[0] != auth.RoleNurse {
		t.Errorf("roles = %v", roles)
	}
}

func TestRegister_Validation(t *testing.T) {
	base := RegisterRequest{
		Username: "doc", Email: "doc@example.org", Password: "long-enough",
		FirstName: "A", LastName: "B",
	}
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing username", func(r *RegisterRequest) { r.Username = "" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"missing name", func(r *RegisterRequest) { r.LastName = "" }},
		{"unknown role", func(r *RegisterRequest) { r.Roles = []string{"Janitor"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := base
			tt.mutate(&req)
			if _, _, err := f.authn.Register(context.Background(), req); !crud.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateUsernameOrEmail(t *testing.T) {
	f := newFixture()
	registerUser(t, f, "doc")

	_, _, err := f.authn.Register(context.Background(), RegisterRequest{
		Username: "doc", Email: "other@example.org", Password: "long-enough", FirstName: "A", LastName: "B",
	})
	if !crud.IsValidation(err) {
		t.Errorf("duplicate username: got %v", err)
	}
	_, _, err = f.authn.Register(context.Background(), RegisterRequest{
		Username: "doc2", Email: "doc@example.org", Password: "long-enough", FirstName: "A", LastName: "B",
	})
	if !crud.IsValidation(err) {
		t.Errorf("duplicate email: got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := registerUser(t, f, "doc", auth.RoleDoctor)

	sess, err := f.authn.Login(ctx, " doc ", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token.AccessToken == "" {
		t.Error("expected a signed token")
	}
	if len(sess.Roles) != 1 || sess.Roles[0] != auth.RoleDoctor {
		t.Errorf("roles = %v", sess.Roles)
	}
	stored, _ := f.users.GetByID(ctx, u.ID)
	if stored.LastLoginDate == nil {
		t.Error("last login date should be recorded")
	}

	if _, err := f.authn.Login(ctx, "doc", "wrong-password"); !IsInvalidCredentials(err) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := f.authn.Login(ctx, "ghost", "correct-horse"); !IsInvalidCredentials(err) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := registerUser(t, f, "doc")
	if _, err := f.authn.SetActive(ctx, u.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := f.authn.Login(ctx, "doc", "correct-horse"); !IsInvalidCredentials(err) {
		t.Errorf("inactive user: got %v", err)
	}
}

func TestAssignAndRemoveRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := registerUser(t, f, "staff", auth.RoleReceptionist)

	roles, err := f.authn.AssignRole(ctx, u.ID, auth.RoleBillingStaff)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 2 {
		t.Errorf("roles after assign = %v", roles)
	}
	// Assigning a held role is a no-op.
	if roles, _ = f.authn.AssignRole(ctx, u.ID, auth.RoleBillingStaff); len(roles) != 2 {
		t.Errorf("roles after repeat assign = %v", roles)
	}

	roles, err = f.authn.RemoveRole(ctx, u.ID, auth.RoleReceptionist)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 1 || roles[0] != auth.RoleBillingStaff {
		t.Errorf("roles after remove = %v", roles)
	}

	if _, err := f.authn.AssignRole(ctx, u.ID, "Janitor"); !crud.IsValidation(err) {
		t.Errorf("unknown role: got %v", err)
	}
	if _, err := f.authn.AssignRole(ctx, 999, auth.RoleNurse); !db.IsNotFound(err) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestMe(t *testing.T) {
	f := newFixture()
	u := registerUser(t, f, "doc", auth.RoleDoctor)
	got, roles, err := f.authn.Me(context.Background(), u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "doc" || len(roles) != 1 {
		t.Errorf("Me = %+v %v", got, roles)
	}
}
