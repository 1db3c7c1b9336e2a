package identity

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type Address struct {
	db.Model
	Line1      string  `db:"line1"`
	Line2      *string `db:"line2"`
	City       string  `db:"city"`
	State      *string `db:"state"`
	PostalCode *string `db:"postal_code"`
	Country    string  `db:"country"`
}

func (Address) TableName() string { return "addresses" }

func (a *Address) Fields() []db.Field {
	return []db.Field{
		{Column: "line1", Value: a.Line1},
		{Column: "line2", Value: a.Line2},
		{Column: "city", Value: a.City},
		{Column: "state", Value: a.State},
		{Column: "postal_code", Value: a.PostalCode},
		{Column: "country", Value: a.Country},
	}
}

// Patient is the root most clinical records reference. Patients are
// deactivated, not deleted, once they have clinical history.
type Patient struct {
	db.Model
	FirstName             string    `db:"first_name"`
	LastName              string    `db:"last_name"`
	MiddleName            *string   `db:"middle_name"`
	DateOfBirth           time.Time `db:"date_of_birth"`
	Gender                string    `db:"gender"`
	Email                 *string   `db:"email"`
	Phone                 *string   `db:"phone"`
	MRN                   string    `db:"mrn"`
	SSNLast4              *string   `db:"ssn_last4"`
	MaritalStatus         *string   `db:"marital_status"`
	EmergencyContactName  *string   `db:"emergency_contact_name"`
	EmergencyContactPhone *string   `db:"emergency_contact_phone"`
	BloodType             *string   `db:"blood_type"`
	PreferredLanguage     *string   `db:"preferred_language"`
	AddressID             *int64    `db:"address_id"`
	IsActive              bool      `db:"is_active"`
}

func (Patient) TableName() string { return "patients" }

func (p *Patient) Fields() []db.Field {
	return []db.Field{
		{Column: "first_name", Value: p.FirstName},
		{Column: "last_name", Value: p.LastName},
		{Column: "middle_name", Value: p.MiddleName},
		{Column: "date_of_birth", Value: p.DateOfBirth},
		{Column: "gender", Value: p.Gender},
		{Column: "email", Value: p.Email},
		{Column: "phone", Value: p.Phone},
		{Column: "mrn", Value: p.MRN},
		{Column: "ssn_last4", Value: p.SSNLast4},
		{Column: "marital_status", Value: p.MaritalStatus},
		{Column: "emergency_contact_name", Value: p.EmergencyContactName},
		{Column: "emergency_contact_phone", Value: p.EmergencyContactPhone},
		{Column: "blood_type", Value: p.BloodType},
		{Column: "preferred_language", Value: p.PreferredLanguage},
		{Column: "address_id", Value: p.AddressID},
		{Column: "is_active", Value: p.IsActive},
	}
}

// PatientWithAddress is a patient and its optional address.
type PatientWithAddress struct {
	Patient *Patient
	Address *Address
}

type Provider struct {
	db.Model
	FirstName     string  `db:"first_name"`
	LastName      string  `db:"last_name"`
	Specialty     *string `db:"specialty"`
	LicenseNumber *string `db:"license_number"`
	NPI           *string `db:"npi"`
	Email         *string `db:"email"`
	Phone         *string `db:"phone"`
	UserID        *int64  `db:"user_id"`
	DepartmentID  *int64  `db:"department_id"`
	AddressID     *int64  `db:"address_id"`
	IsActive      bool    `db:"is_active"`
}

func (Provider) TableName() string { return "providers" }

func (p *Provider) Fields() []db.Field {
	return []db.Field{
		{Column: "first_name", Value: p.FirstName},
		{Column: "last_name", Value: p.LastName},
		{Column: "specialty", Value: p.Specialty},
		{Column: "license_number", Value: p.LicenseNumber},
		{Column: "npi", Value: p.NPI},
		{Column: "email", Value: p.Email},
		{Column: "phone", Value: p.Phone},
		{Column: "user_id", Value: p.UserID},
		{Column: "department_id", Value: p.DepartmentID},
		{Column: "address_id", Value: p.AddressID},
		{Column: "is_active", Value: p.IsActive},
	}
}

// User is a login identity. PasswordHash is a bcrypt hash and never leaves
// the service.
type User struct {
	db.Model
	Username      string     `db:"username"`
	Email         string     `db:"email"`
	PasswordHash  string     `db:"password_hash"`
	FirstName     string     `db:"first_name"`
	LastName      string     `db:"last_name"`
	AddressID     *int64     `db:"address_id"`
	IsActive      bool       `db:"is_active"`
	LastLoginDate *time.Time `db:"last_login_date"`
}

func (User) TableName() string { return "users" }

func (u *User) Fields() []db.Field {
	return []db.Field{
		{Column: "username", Value: u.Username},
		{Column: "email", Value: u.Email},
		{Column: "password_hash", Value: u.PasswordHash},
		{Column: "first_name", Value: u.FirstName},
		{Column: "last_name", Value: u.LastName},
		{Column: "address_id", Value: u.AddressID},
		{Column: "is_active", Value: u.IsActive},
		{Column: "last_login_date", Value: u.LastLoginDate},
	}
}

type Role struct {
	db.Model
	Name        string  `db:"name"`
	Description *string `db:"description"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) Fields() []db.Field {
	return []db.Field{
		{Column: "name", Value: r.Name},
		{Column: "description", Value: r.Description},
	}
}
