package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/emr/emr/internal/platform/db"
)

// -- Address --

func NewAddressRepoPG(q db.Querier) AddressRepository {
	return db.NewRepository[Address](q)
}

// -- Patient --

var patientSearchColumns = []string{"first_name", "last_name", "email"}

type patientRepoPG struct {
	*db.Repository[Patient, *Patient]
	addresses *db.Repository[Address, *Address]
}

func NewPatientRepoPG(q db.Querier) PatientRepository {
	return &patientRepoPG{
		Repository: db.NewRepository[Patient](q),
		addresses:  db.NewRepository[Address](q),
	}
}

func activePatients(search string) *db.Query {
	return db.NewQuery().Eq("is_active", true).Contains(search, patientSearchColumns...)
}

func (r *patientRepoPG) GetAllWithPagination(ctx context.Context, page, pageSize int, search string) ([]*Patient, error) {
	q := activePatients(search).OrderBy("last_name ASC, first_name ASC, id ASC").Page(page, pageSize)
	return r.Find(ctx, q)
}

func (r *patientRepoPG) GetTotalCount(ctx context.Context, search string) (int, error) {
	return r.Count(ctx, activePatients(search))
}

func (r *patientRepoPG) SearchPatients(ctx context.Context, term string) ([]*Patient, error) {
	q := db.NewQuery().Contains(term, patientSearchColumns...).OrderBy("last_name ASC, first_name ASC")
	return r.Find(ctx, q)
}

func (r *patientRepoPG) GetWithAddress(ctx context.Context, id int64) (*PatientWithAddress, error) {
	var p *Patient
	var addrs []*Address
	l := db.NewLoader()
	db.QueueOne(l, r.Repository, db.NewQuery().Eq("id", id), &p)
	db.QueueMany(l, r.addresses, db.NewQuery().Raw("id = (SELECT address_id FROM patients WHERE id = ?)", id), &addrs)
	if err := l.Load(ctx, r.Querier()); err != nil {
		return nil, fmt.Errorf("get patient %d with address: %w", id, err)
	}
	out := &PatientWithAddress{Patient: p}
	if len(addrs) > 0 {
		out.Address = addrs[0]
	}
	return out, nil
}

func (r *patientRepoPG) GetActive(ctx context.Context) ([]*Patient, error) {
	return r.Find(ctx, db.NewQuery().Eq("is_active", true).OrderBy("last_name ASC, first_name ASC"))
}

func (r *patientRepoPG) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("mrn", mrn))
}

// -- Provider --

type providerRepoPG struct {
	*db.Repository[Provider, *Provider]
}

func NewProviderRepoPG(q db.Querier) ProviderRepository {
	return &providerRepoPG{db.NewRepository[Provider](q)}
}

func (r *providerRepoPG) GetBySpecialty(ctx context.Context, specialty string) ([]*Provider, error) {
	return r.Find(ctx, db.NewQuery().Eq("specialty", specialty).OrderBy("last_name ASC"))
}

func (r *providerRepoPG) GetByDepartment(ctx context.Context, departmentID int64) ([]*Provider, error) {
	return r.Find(ctx, db.NewQuery().Eq("department_id", departmentID).OrderBy("last_name ASC"))
}

func (r *providerRepoPG) GetByUserID(ctx context.Context, userID int64) (*Provider, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("user_id", userID))
}

func (r *providerRepoPG) GetActive(ctx context.Context) ([]*Provider, error) {
	return r.Find(ctx, db.NewQuery().Eq("is_active", true).OrderBy("last_name ASC"))
}

// -- User --

type userRepoPG struct {
	*db.Repository[User, *User]
}

func NewUserRepoPG(q db.Querier) UserRepository {
	return &userRepoPG{db.NewRepository[User](q)}
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("username", username))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("email", email))
}

func (r *userRepoPG) GetRoles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := db.Conn(ctx, r.Querier()).Query(ctx,
		`SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1 ORDER BY r.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("get roles for user %d: %w", userID, err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan roles for user %d: %w", userID, err)
	}
	return names, nil
}

func (r *userRepoPG) AddToRole(ctx context.Context, userID int64, role string) error {
	_, err := db.Conn(ctx, r.Querier()).Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id)
		 SELECT $1, id FROM roles WHERE name = $2
		 ON CONFLICT DO NOTHING`, userID, role)
	if err != nil {
		return fmt.Errorf("add user %d to role %s: %w", userID, role, err)
	}
	return nil
}

func (r *userRepoPG) RemoveFromRole(ctx context.Context, userID int64, role string) error {
	_, err := db.Conn(ctx, r.Querier()).Exec(ctx,
		`DELETE FROM user_roles
		 WHERE user_id = $1 AND role_id = (SELECT id FROM roles WHERE name = $2)`, userID, role)
	if err != nil {
		return fmt.Errorf("remove user %d from role %s: %w", userID, role, err)
	}
	return nil
}

func (r *userRepoPG) SetLastLogin(ctx context.Context, userID int64, at time.Time) error {
	tag, err := db.Conn(ctx, r.Querier()).Exec(ctx,
		`UPDATE users SET last_login_date = $1 WHERE id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("set last login for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set last login for user %d: %w", userID, db.ErrNotFound)
	}
	return nil
}

// -- Role --

type roleRepoPG struct {
	*db.Repository[Role, *Role]
}

func NewRoleRepoPG(q db.Querier) RoleRepository {
	return &roleRepoPG{db.NewRepository[Role](q)}
}

func (r *roleRepoPG) GetAll(ctx context.Context) ([]*Role, error) {
	return r.Find(ctx, db.NewQuery().OrderBy("name ASC"))
}

func (r *roleRepoPG) GetByName(ctx context.Context, name string) (*Role, error) {
	return r.FindOne(ctx, db.NewQuery().Eq("name", name))
}
