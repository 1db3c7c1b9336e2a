package identity

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

// TokenRevoker invalidates every token already issued to a user.
type TokenRevoker interface {
	RevokeAllForUser(userID string)
}

// AuthService owns user accounts, role membership and login.
type AuthService struct {
	users       UserRepository
	roles       RoleRepository
	tokens      *auth.TokenIssuer
	revocations TokenRevoker
	tx          db.Transactor
	now         func() time.Time
}

// NewAuthService wires the account store. revocations may be nil when no
// tokens are being served, as in the CLI.
func NewAuthService(users UserRepository, roles RoleRepository, tokens *auth.TokenIssuer, revocations TokenRevoker, tx db.Transactor) *AuthService {
	return &AuthService{users: users, roles: roles, tokens: tokens, revocations: revocations, tx: tx, now: time.Now}
}

// TokenTTL is the lifetime of tokens issued by Login.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// revokeTokens signs userID out everywhere once the unit of work commits, so
// tokens carrying stale roles or issued to a disabled account stop working.
func (s *AuthService) revokeTokens(ctx context.Context, userID int64) {
	if s.revocations == nil {
		return
	}
	db.AfterCommit(ctx, func(context.Context) {
		s.revocations.RevokeAllForUser(strconv.FormatInt(userID, 10))
	})
}

// Session is the result of a successful login.
type Session struct {
	User  *User
	Roles []string
	Token *auth.IssuedToken
}

// Login checks credentials and issues a token. Unknown users, wrong
// passwords and inactive accounts all return auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, auth.ErrInvalidCredentials
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, err
	}

	roles, err := s.users.GetRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.Issue(u.ID, u.Username, roles)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if err := s.users.SetLastLogin(ctx, u.ID, at); err != nil {
		return nil, err
	}
	u.LastLoginDate = &at
	return &Session{User: u, Roles: roles, Token: tok}, nil
}

// Register creates an active user with the given roles in one unit of work.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, []string, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		return nil, nil, crud.Invalidf("username and email are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, nil, crud.Invalidf("invalid email: %s", req.Email)
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, nil, crud.Invalidf("firstName and lastName are required")
	}
	if len(req.Password) < auth.MinPasswordLength {
		return nil, nil, crud.Invalidf("password must be at least %d characters", auth.MinPasswordLength)
	}
	for _, r := range req.Roles {
		if !auth.IsKnownRole(r) {
			return nil, nil, crud.Invalidf("unknown role: %s", r)
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}
	u := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}

	err = s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		if err := s.ensureAvailable(ctx, u.Username, u.Email); err != nil {
			return err
		}
		if _, err := s.users.Add(ctx, u); err != nil {
			return err
		}
		for _, r := range req.Roles {
			if err := s.users.AddToRole(ctx, u.ID, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return u, req.Roles, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return crud.Invalidf("username %s is taken", username)
	} else if !db.IsNotFound(err) {
		return err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return crud.Invalidf("email %s is already registered", email)
	} else if !db.IsNotFound(err) {
		return err
	}
	return nil
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID int64) (*User, []string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	roles, err := s.users.GetRoles(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return u, roles, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.GetAll(ctx)
}

func (s *AuthService) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.roles.GetAll(ctx)
}

// AssignRole adds userID to role; assigning a held role is a no-op.
func (s *AuthService) AssignRole(ctx context.Context, userID int64, role string) ([]string, error) {
	return s.changeRole(ctx, userID, role, s.users.AddToRole)
}

// RemoveRole drops userID from role and revokes the user's outstanding tokens.
func (s *AuthService) RemoveRole(ctx context.Context, userID int64, role string) ([]string, error) {
	return s.changeRole(ctx, userID, role, func(ctx context.Context, userID int64, role string) error {
		if err := s.users.RemoveFromRole(ctx, userID, role); err != nil {
			return err
		}
		s.revokeTokens(ctx, userID)
		return nil
	})
}

func (s *AuthService) changeRole(ctx context.Context, userID int64, role string, apply func(context.Context, int64, string) error) ([]string, error) {
	if !auth.IsKnownRole(role) {
		return nil, crud.Invalidf("unknown role: %s", role)
	}
	var roles []string
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return err
		}
		if _, err := s.roles.GetByName(ctx, role); err != nil {
			if db.IsNotFound(err) {
				return crud.Invalidf("role %s is not seeded; run migrations", role)
			}
			return err
		}
		if err := apply(ctx, userID, role); err != nil {
			return err
		}
		var err error
		roles, err = s.users.GetRoles(ctx, userID)
		return err
	})
	return roles, err
}

// SetActive enables or disables login for userID. Disabling also revokes
// every token the user holds.
func (s *AuthService) SetActive(ctx context.Context, userID int64, active bool) (*User, error) {
	var out *User
	err := s.tx.WithinUnitOfWork(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		u.IsActive = active
		if out, err = s.users.Update(ctx, u); err != nil {
			return err
		}
		if !active {
			s.revokeTokens(ctx, userID)
		}
		return nil
	})
	return out, err
}

// IsInvalidCredentials reports whether err is a failed login.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, auth.ErrInvalidCredentials)
}
