package auth_test

import (
	"testing"
	"time"

	"github.com/geocoder89/employeehub/internal/auth"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := auth.NewManager("test-secret", time.Minute)

	token, err := m.GenerateToken("Admin", "jdoe")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.VerifyToken(token)

	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}

	if claims.Role != "Admin" || claims.Username != "jdoe" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if claims.JTI == "" {
		t.Errorf("expected a jti claim")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := auth.NewManager("secret-one", time.Minute)

	token, err := m.GenerateToken("Admin", "jdoe")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := auth.NewManager("secret-two", time.Minute)

	if _, err := other.VerifyToken(token); err == nil {
		t.Fatalf("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.GenerateToken("Admin", "jdoe")

	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.VerifyToken(token); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := auth.NewManager("test-secret", time.Minute)

	if _, err := m.VerifyToken("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to fail verification")
	}
}
