package security

import (
	"errors"
	"testing"
	"time"

	"github.com/fidelizaa/loyalty/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	storeID := uint64(5)
	token, err := GenerateToken("secret", 42, "owner@example.com", models.RoleStoreOwner, &storeID, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
	if claims.Email != "owner@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if claims.Role != models.RoleStoreOwner {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if claims.StoreID == nil || *claims.StoreID != storeID {
		t.Fatalf("unexpected store id: %v", claims.StoreID)
	}
}

func TestTokenAdminHasNoStore(t *testing.T) {
	token, err := GenerateToken("secret", 1, "admin@example.com", models.RoleSuperAdmin, nil, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.StoreID != nil {
		t.Fatalf("expected nil store id, got %v", *claims.StoreID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 42, "owner@example.com", models.RoleStoreOwner, nil, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("other", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", 42, "owner@example.com", models.RoleStoreOwner, nil, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("secret", token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
