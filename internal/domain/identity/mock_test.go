package identity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/crud/crudtest"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

type mockPatientRepo struct {
	*crudtest.MemStore[Patient, *Patient]
	addresses *crudtest.MemStore[Address, *Address]
}

func matchesTerm(p *Patient, term string) bool {
	return strings.Contains(p.FirstName, term) ||
		strings.Contains(p.LastName, term) ||
		strings.Contains(db.Deref(p.Email), term)
}

func (m *mockPatientRepo) active(search string) []*Patient {
	out := m.Where(func(p *Patient) bool {
		return p.IsActive && (search == "" || matchesTerm(p, search))
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out
}

func (m *mockPatientRepo) GetAllWithPagination(_ context.Context, page, pageSize int, search string) ([]*Patient, error) {
	all := m.active(search)
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *mockPatientRepo) GetTotalCount(_ context.Context, search string) (int, error) {
	return len(m.active(search)), nil
}

func (m *mockPatientRepo) SearchPatients(_ context.Context, term string) ([]*Patient, error) {
	return m.Where(func(p *Patient) bool { return matchesTerm(p, term) }), nil
}

func (m *mockPatientRepo) GetWithAddress(ctx context.Context, id int64) (*PatientWithAddress, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &PatientWithAddress{Patient: p}
	if p.AddressID != nil {
		if out.Address, err = m.addresses.GetByID(ctx, *p.AddressID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *mockPatientRepo) GetActive(context.Context) ([]*Patient, error) {
	return m.active(""), nil
}

func (m *mockPatientRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	found := m.Where(func(p *Patient) bool { return p.MRN == mrn })
	if len(found) == 0 {
		return nil, fmt.Errorf("patient mrn %s: %w", mrn, db.ErrNotFound)
	}
	return found[0], nil
}

type mockProviderRepo struct {
	*crudtest.MemStore[Provider, *Provider]
}

func (m *mockProviderRepo) GetBySpecialty(_ context.Context, specialty string) ([]*Provider, error) {
	return m.Where(func(p *Provider) bool { return db.Deref(p.Specialty) == specialty }), nil
}

func (m *mockProviderRepo) GetByDepartment(_ context.Context, id int64) ([]*Provider, error) {
	return m.Where(func(p *Provider) bool { return p.DepartmentID != nil && *p.DepartmentID == id }), nil
}

func (m *mockProviderRepo) GetByUserID(_ context.Context, id int64) (*Provider, error) {
	found := m.Where(func(p *Provider) bool { return p.UserID != nil && *p.UserID == id })
	if len(found) == 0 {
		return nil, db.ErrNotFound
	}
	return found[0], nil
}

func (m *mockProviderRepo) GetActive(context.Context) ([]*Provider, error) {
	return m.Where(func(p *Provider) bool { return p.IsActive }), nil
}

type mockUserRepo struct {
	*crudtest.MemStore[User, *User]
	roles map[int64][]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{MemStore: crudtest.NewMemStore[User](), roles: map[int64][]string{}}
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	found := m.Where(func(u *User) bool { return u.Username == username })
	if len(found) == 0 {
		return nil, db.ErrNotFound
	}
	return found[0], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	found := m.Where(func(u *User) bool { return u.Email == email })
	if len(found) == 0 {
		return nil, db.ErrNotFound
	}
	return found[0], nil
}

func (m *mockUserRepo) GetRoles(_ context.Context, userID int64) ([]string, error) {
	out := append([]string(nil), m.roles[userID]...)
	sort.Strings(out)
	return out, nil
}

func (m *mockUserRepo) AddToRole(_ context.Context, userID int64, role string) error {
	for _, r := range m.roles[userID] {
		if r == role {
			return nil
		}
	}
	m.roles[userID] = append(m.roles[userID], role)
	return nil
}

func (m *mockUserRepo) RemoveFromRole(_ context.Context, userID int64, role string) error {
	kept := m.roles[userID][:0]
	for _, r := range m.roles[userID] {
		if r != role {
			kept = append(kept, r)
		}
	}
	m.roles[userID] = kept
	return nil
}

func (m *mockUserRepo) SetLastLogin(ctx context.Context, userID int64, at time.Time) error {
	u, err := m.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.LastLoginDate = &at
	_, err = m.Update(ctx, u)
	return err
}

type mockRoleRepo struct{}

func (mockRoleRepo) GetAll(context.Context) ([]*Role, error) {
	out := make([]*Role, 0, len(auth.AllRoles))
	for i, name := range auth.AllRoles {
		r := &Role{Name: name}
		r.ID = int64(i + 1)
		out = append(out, r)
	}
	return out, nil
}

func (r mockRoleRepo) GetByName(ctx context.Context, name string) (*Role, error) {
	all, _ := r.GetAll(ctx)
	for _, role := range all {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, db.ErrNotFound
}

type fixture struct {
	patients  *mockPatientRepo
	providers *mockProviderRepo
	users     *mockUserRepo
	events    *events.Recorder
	revoked   *revokedUsers
	svc       *Service
	authn     *AuthService
}

func newFixture() *fixture {
	addresses := crudtest.NewMemStore[Address]()
	f := &fixture{
		patients:  &mockPatientRepo{MemStore: crudtest.NewMemStore[Patient](), addresses: addresses},
		providers: &mockProviderRepo{MemStore: crudtest.NewMemStore[Provider]()},
		users:     newMockUserRepo(),
		events:    &events.Recorder{},
		revoked:   &revokedUsers{},
	}
	tx := db.NopTransactor{}
	f.svc = NewService(f.patients, f.providers, addresses, tx, events.NewEmitter(f.events, zerolog.Nop()))
	tokens := auth.NewTokenIssuer([]byte("test-signing-key-0123456789abcdef"), "emr", "", time.Hour)
	f.authn = NewAuthService(f.users, mockRoleRepo{}, tokens, f.revoked, tx)
	return f
}

type revokedUsers struct{ ids []string }

func (r *revokedUsers) RevokeAllForUser(userID string) { r.ids = append(r.ids, userID) }

func newPatient(first, last, mrn string) *Patient {
	return &Patient{
		FirstName:   first,
		LastName:    last,
		MRN:         mrn,
		Gender:      "Female",
		DateOfBirth: time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC),
	}
}
