package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer_Issue(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer(testSigningKey, "emr-api", "emr-web", 8*time.Hour)
	issuer.now = func() time.Time { return fixed }

	tok, err := issuer.Issue(42, "drsmith", []string{RoleDoctor})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if !tok.ExpiresAt.Equal(fixed.Add(8 * time.Hour)) {
		t.Errorf("unexpected expiry %v", tok.ExpiresAt)
	}

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok.AccessToken, claims)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "42" || claims.Username != "drsmith" || claims.Issuer != "emr-api" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != "emr-web" {
		t.Errorf("unexpected audience %v", claims.Audience)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != RoleDoctor {
		t.Errorf("unexpected roles %v", claims.Roles)
	}
}

func TestTokenIssuer_UniqueIDs(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, "", "", time.Hour)
	a, _ := issuer.Issue(1, "a", nil)
	b, _ := issuer.Issue(1, "a", nil)
	if a.AccessToken == b.AccessToken {
		t.Error("expected distinct tokens")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}
	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("CheckPassword() with right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected error for short password")
	}
}
