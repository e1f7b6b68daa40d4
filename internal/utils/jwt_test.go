package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignJWTRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := SignJWT(secret, "user-123", 60)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token not valid")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		t.Fatalf("claims type %T", parsed.Claims)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("uid = %q, want user-123", claims.UserID)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("missing registered claims")
	}
}

func TestSignJWTWrongSecretRejected(t *testing.T) {
	token, err := SignJWT("secret-a", "user-123", 60)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && parsed.Valid {
		t.Fatal("token accepted with wrong secret")
	}
}
