package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// Accounts регистрирует и аутентифицирует пользователей
type Accounts struct {
	users  store.UserRepository
	policy PasswordPolicy
	cost   int
}

// NewAccounts создает сервис учетных записей
func NewAccounts(users store.UserRepository, policy PasswordPolicy) *Accounts {
	return &Accounts{users: users, policy: policy, cost: BcryptCost}
}

// WithCost меняет стоимость bcrypt (в тестах используется bcrypt.MinCost)
func (a *Accounts) WithCost(cost int) *Accounts {
	a.cost = cost
	return a
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает учетную запись
func (a *Accounts) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: заполните все поля", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: неверный формат email", models.ErrValidation)
	}
	if err := a.policy.Check(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password, a.cost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate проверяет пару email/пароль.
// Неизвестный email дает models.ErrNotFound, неверный пароль models.ErrInvalidCredential.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := a.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, prehash(password))
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, models.ErrInvalidCredential
	}
	return user, nil
}

// Lookup возвращает пользователя по ID
func (a *Accounts) Lookup(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return a.users.GetUserByID(ctx, id)
}

// UpdateDisplayName меняет отображаемое имя пользователя
func (a *Accounts) UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: введите новое имя", models.ErrValidation)
	}
	return a.users.UpdateDisplayName(ctx, id, name)
}
