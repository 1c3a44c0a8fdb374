package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestGenerateAndExtract(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	got, err := svc.ExtractUserID(token)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != userID {
		t.Fatalf("expected %s, got %s", userID, got)
	}
}

func TestExtractRejectsForeignSignature(t *testing.T) {
	token, err := NewJWTService("other", time.Hour).GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTService("secret", time.Hour).ExtractUserID(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractRejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute)
	token, err := svc.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ExtractUserID(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestExtractRejectsBadClaims(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	cases := map[string]jwt.MapClaims{
		"no user":      {"exp": time.Now().Add(time.Hour).Unix()},
		"not uuid":     {"user_id": "42", "exp": time.Now().Add(time.Hour).Unix()},
		"numeric user": {"user_id": 42, "exp": time.Now().Add(time.Hour).Unix()},
		"no exp":       {"user_id": uuid.NewString()},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			if _, err := svc.ExtractUserID(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
