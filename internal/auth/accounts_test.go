package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rajivgeraev/foodshare-api/internal/db/sqlite"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func newAccounts(t *testing.T) *Accounts {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(s.Close)
	return NewAccounts(s, PasswordPolicy{MinLength: 8}).WithCost(bcrypt.MinCost)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	accounts := newAccounts(t)

	user, err := accounts.Register(ctx, "  Alice@Example.com ", "bread2025", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "bread2025" {
		t.Fatalf("password must be stored hashed")
	}

	got, err := accounts.Authenticate(ctx, "alice@example.com", "bread2025")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("authenticated wrong user")
	}
}

func TestAuthenticateErrors(t *testing.T) {
	ctx := context.Background()
	accounts := newAccounts(t)
	if _, err := accounts.Register(ctx, "bob@example.com", "secret123", "Bob"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := accounts.Authenticate(ctx, "bob@example.com", "secret124"); !errors.Is(err, models.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := accounts.Authenticate(ctx, "nobody@example.com", "secret123"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	accounts := newAccounts(t)
	if _, err := accounts.Register(ctx, "carol@example.com", "secret123", "Carol"); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"duplicate", "CAROL@example.com", "another123", models.ErrDuplicateAccount},
		{"short password", "dave@example.com", "a1", models.ErrWeakCredential},
		{"letters only", "dave@example.com", "abcdefghij", models.ErrWeakCredential},
		{"digits only", "dave@example.com", "1234567890", models.ErrWeakCredential},
		{"bad email", "not-an-email", "secret123", models.ErrValidation},
		{"empty", "", "", models.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := accounts.Register(ctx, tc.email, tc.password, "x"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUpdateDisplayName(t *testing.T) {
	ctx := context.Background()
	accounts := newAccounts(t)
	user, err := accounts.Register(ctx, "erin@example.com", "secret123", "Erin")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := accounts.UpdateDisplayName(ctx, user.ID, "   "); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := accounts.UpdateDisplayName(ctx, user.ID, "Erin K"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := accounts.Lookup(ctx, user.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.DisplayName != "Erin K" {
		t.Fatalf("expected new name, got %q", got.DisplayName)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("a very long passphrase that is definitely longer than seventy two bytes 12345", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "a very long passphrase that is definitely longer than seventy two bytes 12345") {
		t.Fatalf("expected match")
	}
	if CheckPassword(hash, "a very long passphrase that is definitely longer than seventy two bytes 12346") {
		t.Fatalf("difference past 72 bytes must be detected")
	}
}
