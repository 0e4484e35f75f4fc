package auth

import (
	"testing"
	"time"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
)

func testUser() user.User {
	return user.User{
		ID:    "2",
		Email: "joao.silva@estudante.com",
		Role:  user.RoleStudent,
	}
}

func TestSessionToken_RoundTrip(t *testing.T) {
	m := NewManager("secret-1", time.Hour)

	token, err := m.GenerateSessionToken(testUser())

	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	claims, err := m.VerifySessionToken(token)

	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}

	if claims.UserID != "2" {
		t.Fatalf("expected sub 2, got %q", claims.UserID)
	}
	if claims.Email != "joao.silva@estudante.com" {
		t.Fatalf("unexpected email claim %q", claims.Email)
	}
	if claims.Role != "student" {
		t.Fatalf("unexpected role claim %q", claims.Role)
	}
	if claims.JTI == "" {
		t.Fatalf("expected a jti")
	}
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	m1 := NewManager("secret-1", time.Hour)
	m2 := NewManager("secret-2", time.Hour)

	token, err := m1.GenerateSessionToken(testUser())

	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	if _, err := m2.VerifySessionToken(token); err == nil {
		t.Fatalf("expected verification to fail with a different secret")
	}
}

func TestVerifySessionToken_Expired(t *testing.T) {
	m := NewManager("secret-1", -time.Minute)

	token, err := m.GenerateSessionToken(testUser())

	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	if _, err := m.VerifySessionToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifySessionToken_Garbage(t *testing.T) {
	m := NewManager("secret-1", time.Hour)

	if _, err := m.VerifySessionToken("not.a.token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
