package identity

import (
	"context"
	"strings"
	"time"

	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
	"github.com/emr/emr/internal/platform/events"
)

var validGenders = map[string]bool{
	"Male": true, "Female": true, "Other": true, "Unknown": true,
}

type Service struct {
	patients  PatientRepository
	providers ProviderRepository
	addresses AddressRepository
	tx        db.Transactor
	events    *events.Emitter
	now       func() time.Time
}

func NewService(patients PatientRepository, providers ProviderRepository, addresses AddressRepository, tx db.Transactor, emitter *events.Emitter) *Service {
	return &Service{
		patients:  patients,
		providers: providers,
		addresses: addresses,
		tx:        tx,
		events:    emitter,
		now:       time.Now,
	}
}

// -- Patient --

func (s *Service) validatePatient(p *Patient) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return crud.Invalidf("firstName and lastName are required")
	}
	if p.MRN == "" {
		return crud.Invalidf("mrn is required")
	}
	if p.DateOfBirth.IsZero() {
		return crud.Invalidf("dateOfBirth is required")
	}
	if p.DateOfBirth.After(s.now()) {
		return crud.Invalidf("dateOfBirth cannot be in the future")
	}
	if !validGenders[p.Gender] {
		return crud.Invalidf("invalid gender: %s", p.Gender)
	}
	if ssn := db.Deref(p.SSNLast4); ssn != "" && !isDigits(ssn, 4) {
		return crud.Invalidf("ssnLast4 must be 4 digits")
	}
	return nil
}

func validateAddress(a *Address) error {
	if a.Line1 == "" || a.City == "" {
		return crud.Invalidf("address line1 and city are required")
	}
	if a.Country == "" {
		a.Country = "US"
	}
	return nil
}

// RegisterPatient stores p and its optional address in one unit of work.
func (s *Service) RegisterPatient(ctx context.Context, p *Patient, addr *Address) (*PatientWithAddress, error) {
	if err := s.validatePatient(p); err != nil {
		return nil, err
	}
	if addr != nil {
		if err := validateAddress(addr); err != nil {
			return nil, err
		}
	}
	p.IsActive = true

	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		if addr != nil {
			if _, err := s.addresses.Add(ctx, addr); err != nil {
				return err
			}
			p.AddressID = &addr.ID
		}
		if _, err := s.patients.Add(ctx, p); err != nil {
			return err
		}
		s.events.Emit(ctx, events.PatientRegistered, p.ID, map[string]string{"mrn": p.MRN})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &PatientWithAddress{Patient: p, Address: addr}, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientWithAddress(ctx context.Context, id int64) (*PatientWithAddress, error) {
	return s.patients.GetWithAddress(ctx, id)
}

func (s *Service) GetPatientByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.patients.GetByMRN(ctx, mrn)
}

// UpdatePatient applies change to the stored patient. A non-nil addr
// replaces the address fields, creating the address row if needed.
func (s *Service) UpdatePatient(ctx context.Context, id int64, change func(*Patient), addr *Address) (*PatientWithAddress, error) {
	var out *PatientWithAddress
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		p, err := s.patients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		change(p)
		if err := s.validatePatient(p); err != nil {
			return err
		}

		var saved *Address
		if addr != nil {
			if err := validateAddress(addr); err != nil {
				return err
			}
			if saved, err = s.saveAddress(ctx, p.AddressID, addr); err != nil {
				return err
			}
			p.AddressID = &saved.ID
		}
		if _, err := s.patients.Update(ctx, p); err != nil {
			return err
		}
		out = &PatientWithAddress{Patient: p, Address: saved}
		return nil
	})
	return out, err
}

func (s *Service) saveAddress(ctx context.Context, existingID *int64, addr *Address) (*Address, error) {
	if existingID == nil {
		return s.addresses.Add(ctx, addr)
	}
	cur, err := s.addresses.GetByID(ctx, *existingID)
	if err != nil {
		return nil, err
	}
	cur.Line1, cur.Line2, cur.City = addr.Line1, addr.Line2, addr.City
	cur.State, cur.PostalCode, cur.Country = addr.State, addr.PostalCode, addr.Country
	return s.addresses.Update(ctx, cur)
}

// DeactivatePatient clears is_active; clinical history is kept.
func (s *Service) DeactivatePatient(ctx context.Context, id int64) (*Patient, error) {
	var out *Patient
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		p, err := s.patients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsActive {
			out = p
			return nil
		}
		p.IsActive = false
		if out, err = s.patients.Update(ctx, p); err != nil {
			return err
		}
		s.events.Emit(ctx, events.PatientDeactivated, p.ID, nil)
		return nil
	})
	return out, err
}

// DeletePatient fails with a foreign key violation while restricted clinical
// records reference the patient.
func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	return s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		return s.patients.DeleteByID(ctx, id)
	})
}

// ListPatients returns a page of active patients and the matching total.
// The two reads are separate round trips.
func (s *Service) ListPatients(ctx context.Context, page, pageSize int, search string) ([]*Patient, int, error) {
	items, err := s.patients.GetAllWithPagination(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.patients.GetTotalCount(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) SearchPatients(ctx context.Context, term string) ([]*Patient, error) {
	if strings.TrimSpace(term) == "" {
		return nil, crud.Invalidf("search term is required")
	}
	return s.patients.SearchPatients(ctx, term)
}

func (s *Service) GetActivePatients(ctx context.Context) ([]*Patient, error) {
	return s.patients.GetActive(ctx)
}

// -- Provider --

func (s *Service) PrepareProvider(_ context.Context, p *Provider) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return crud.Invalidf("firstName and lastName are required")
	}
	if npi := db.Deref(p.NPI); npi != "" && !isDigits(npi, 10) {
		return crud.Invalidf("npi must be 10 digits")
	}
	return nil
}

func (s *Service) ProvidersBySpecialty(ctx context.Context, specialty string) ([]*Provider, error) {
	return s.providers.GetBySpecialty(ctx, specialty)
}

func (s *Service) ProvidersByDepartment(ctx context.Context, departmentID int64) ([]*Provider, error) {
	return s.providers.GetByDepartment(ctx, departmentID)
}

func (s *Service) ProviderByUserID(ctx context.Context, userID int64) (*Provider, error) {
	return s.providers.GetByUserID(ctx, userID)
}

func (s *Service) ActiveProviders(ctx context.Context) ([]*Provider, error) {
	return s.providers.GetActive(ctx)
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
