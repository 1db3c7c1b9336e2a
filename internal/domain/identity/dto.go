package identity

import (
	"time"

	"github.com/emr/emr/internal/platform/db"
)

type AddressDTO struct {
	ID         int64  `json:"id,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

func toAddressDTO(a *Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:         a.ID,
		Line1:      a.Line1,
		Line2:      db.Deref(a.Line2),
		City:       a.City,
		State:      db.Deref(a.State),
		PostalCode: db.Deref(a.PostalCode),
		Country:    a.Country,
	}
}

func (d *AddressDTO) applyTo(a *Address) {
	a.Line1 = d.Line1
	a.Line2 = db.NullIfEmpty(d.Line2)
	a.City = d.City
	a.State = db.NullIfEmpty(d.State)
	a.PostalCode = db.NullIfEmpty(d.PostalCode)
	a.Country = d.Country
}

type PatientDTO struct {
	ID                    int64       `json:"id"`
	FirstName             string      `json:"firstName"`
	LastName              string      `json:"lastName"`
	MiddleName            string      `json:"middleName,omitempty"`
	DateOfBirth           time.Time   `json:"dateOfBirth"`
	Gender                string      `json:"gender"`
	Email                 string      `json:"email,omitempty"`
	Phone                 string      `json:"phone,omitempty"`
	MRN                   string      `json:"mrn"`
	SSNLast4              string      `json:"ssnLast4,omitempty"`
	MaritalStatus         string      `json:"maritalStatus,omitempty"`
	EmergencyContactName  string      `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string      `json:"emergencyContactPhone,omitempty"`
	BloodType             string      `json:"bloodType,omitempty"`
	PreferredLanguage     string      `json:"preferredLanguage,omitempty"`
	AddressID             *int64      `json:"addressId,omitempty"`
	Address               *AddressDTO `json:"address,omitempty"`
	IsActive              bool        `json:"isActive"`
	CreatedDate           time.Time   `json:"createdDate"`
	ModifiedDate          *time.Time  `json:"modifiedDate,omitempty"`
}

func toPatientDTO(p *Patient) PatientDTO {
	return PatientDTO{
		ID:                    p.ID,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		MiddleName:            db.Deref(p.MiddleName),
		DateOfBirth:           p.DateOfBirth,
		Gender:                p.Gender,
		Email:                 db.Deref(p.Email),
		Phone:                 db.Deref(p.Phone),
		MRN:                   p.MRN,
		SSNLast4:              db.Deref(p.SSNLast4),
		MaritalStatus:         db.Deref(p.MaritalStatus),
		EmergencyContactName:  db.Deref(p.EmergencyContactName),
		EmergencyContactPhone: db.Deref(p.EmergencyContactPhone),
		BloodType:             db.Deref(p.BloodType),
		PreferredLanguage:     db.Deref(p.PreferredLanguage),
		AddressID:             p.AddressID,
		IsActive:              p.IsActive,
		CreatedDate:           p.CreatedDate,
		ModifiedDate:          p.ModifiedDate,
	}
}

func toPatientWithAddressDTO(pa *PatientWithAddress) PatientDTO {
	d := toPatientDTO(pa.Patient)
	d.Address = toAddressDTO(pa.Address)
	return d
}

// applyTo copies demographics. Address and IsActive are managed by the
// service (registration and deactivation).
func (d *PatientDTO) applyTo(p *Patient) {
	p.FirstName = d.FirstName
	p.LastName = d.LastName
	p.MiddleName = db.NullIfEmpty(d.MiddleName)
	p.DateOfBirth = d.DateOfBirth
	p.Gender = d.Gender
	p.Email = db.NullIfEmpty(d.Email)
	p.Phone = db.NullIfEmpty(d.Phone)
	p.MRN = d.MRN
	p.SSNLast4 = db.NullIfEmpty(d.SSNLast4)
	p.MaritalStatus = db.NullIfEmpty(d.MaritalStatus)
	p.EmergencyContactName = db.NullIfEmpty(d.EmergencyContactName)
	p.EmergencyContactPhone = db.NullIfEmpty(d.EmergencyContactPhone)
	p.BloodType = db.NullIfEmpty(d.BloodType)
	p.PreferredLanguage = db.NullIfEmpty(d.PreferredLanguage)
}

type ProviderDTO struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Specialty     string `json:"specialty,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	NPI           string `json:"npi,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	UserID        *int64 `json:"userId,omitempty"`
	DepartmentID  *int64 `json:"departmentId,omitempty"`
	AddressID     *int64 `json:"addressId,omitempty"`
	IsActive      bool   `json:"isActive"`
}

func toProviderDTO(p *Provider) ProviderDTO {
	return ProviderDTO{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Specialty:     db.Deref(p.Specialty),
		LicenseNumber: db.Deref(p.LicenseNumber),
		NPI:           db.Deref(p.NPI),
		Email:         db.Deref(p.Email),
		Phone:         db.Deref(p.Phone),
		UserID:        p.UserID,
		DepartmentID:  p.DepartmentID,
		AddressID:     p.AddressID,
		IsActive:      p.IsActive,
	}
}

func applyProviderDTO(d *ProviderDTO, p *Provider) {
	p.FirstName = d.FirstName
	p.LastName = d.LastName
	p.Specialty = db.NullIfEmpty(d.Specialty)
	p.LicenseNumber = db.NullIfEmpty(d.LicenseNumber)
	p.NPI = db.NullIfEmpty(d.NPI)
	p.Email = db.NullIfEmpty(d.Email)
	p.Phone = db.NullIfEmpty(d.Phone)
	p.UserID = d.UserID
	p.DepartmentID = d.DepartmentID
	p.AddressID = d.AddressID
	p.IsActive = d.IsActive
}

type UserDTO struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	IsActive      bool       `json:"isActive"`
	LastLoginDate *time.Time `json:"lastLoginDate,omitempty"`
	Roles         []string   `json:"roles"`
}

func toUserDTO(u *User, roles []string) UserDTO {
	if roles == nil {
		roles = []string{}
	}
	return UserDTO{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		IsActive:      u.IsActive,
		LastLoginDate: u.LastLoginDate,
		Roles:         roles,
	}
}

type RoleDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toRoleDTO(r *Role) RoleDTO {
	return RoleDTO{ID: r.ID, Name: r.Name, Description: db.Deref(r.Description)}
}

// RegisterRequest creates a user account.
type RegisterRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ExpiresIn   int64     `json:"expiresIn"`
	User        UserDTO   `json:"user"`
}

type roleChangeRequest struct {
	Role string `json:"role"`
}
