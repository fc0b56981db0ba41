package jwt

import (
	"testing"
	"time"
)

func newTestService(t *testing.T, expiry time.Duration) *TokenService {
	t.Helper()
	km := NewKeyManager()
	if err := km.Initialize("", "", ""); err != nil {
		t.Fatalf("key init: %v", err)
	}
	return NewTokenService(km, TokenServiceConfig{
		Issuer:             "trackdeck",
		SessionTokenExpiry: expiry,
	})
}

func TestIssueAndValidateSessionToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.IssueSessionToken("user-1", "dev@example.com", "Dev")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := svc.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want user-1", userID)
	}

	claims, err := svc.GetSessionClaims(token)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims.Email != "dev@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestValidateSessionTokenFailures(t *testing.T) {
	svc := newTestService(t, time.Hour)

	if _, err := svc.ValidateSessionToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}

	// Token signed by a different key must not validate.
	other := newTestService(t, time.Hour)
	token, err := other.IssueSessionToken("user-1", "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateSessionToken(token); err == nil {
		t.Error("expected error for token signed with a foreign key")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	token, err := svc.IssueSessionToken("user-1", "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateSessionToken(token); err != ErrExpiredToken {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateWrongIssuer(t *testing.T) {
	km := NewKeyManager()
	if err := km.Initialize("", "", ""); err != nil {
		t.Fatalf("key init: %v", err)
	}
	issuerA := NewTokenService(km, TokenServiceConfig{Issuer: "a", SessionTokenExpiry: time.Hour})
	issuerB := NewTokenService(km, TokenServiceConfig{Issuer: "b", SessionTokenExpiry: time.Hour})

	token, err := issuerA.IssueSessionToken("user-1", "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuerB.ValidateSessionToken(token); err != ErrInvalidIssuer {
		t.Errorf("err = %v, want ErrInvalidIssuer", err)
	}
}
