package identity

import (
	"context"
	"time"

	"github.com/emr/emr/internal/platform/crud"
)

type AddressRepository interface {
	crud.Store[Address]
}

type PatientRepository interface {
	crud.Store[Patient]
	// GetAllWithPagination returns one page of active patients ordered by
	// last name, optionally narrowed by search.
	GetAllWithPagination(ctx context.Context, page, pageSize int, search string) ([]*Patient, error)
	// GetTotalCount counts active patients matching search, without paging.
	GetTotalCount(ctx context.Context, search string) (int, error)
	// SearchPatients matches first name, last name or email, active or not.
	SearchPatients(ctx context.Context, term string) ([]*Patient, error)
	GetWithAddress(ctx context.Context, id int64) (*PatientWithAddress, error)
	GetActive(ctx context.Context) ([]*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
}

type ProviderRepository interface {
	crud.Store[Provider]
	GetBySpecialty(ctx context.Context, specialty string) ([]*Provider, error)
	GetByDepartment(ctx context.Context, departmentID int64) ([]*Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*Provider, error)
	GetActive(ctx context.Context) ([]*Provider, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Add(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetRoles(ctx context.Context, userID int64) ([]string, error)
	AddToRole(ctx context.Context, userID int64, role string) error
	RemoveFromRole(ctx context.Context, userID int64, role string) error
	SetLastLogin(ctx context.Context, userID int64, at time.Time) error
}

type RoleRepository interface {
	GetAll(ctx context.Context) ([]*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
}
