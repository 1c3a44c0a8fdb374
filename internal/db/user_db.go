package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

const userColumns = `id, email, display_name, password_hash, avatar_url, created_at`

// CreateUser создает учетную запись. Уникальность email обеспечивает сама база
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`, user.ID, user.Email, user.DisplayName, user.PasswordHash, user.AvatarURL, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrDuplicateAccount
	}
	return nil
}

// GetUserByID получает пользователя по ID
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail получает пользователя по email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateDisplayName меняет отображаемое имя
func (s *Store) UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error {
	return s.updateUserField(ctx, `UPDATE users SET display_name = $1 WHERE id = $2`, name, id)
}

// UpdateAvatarURL перезаписывает ссылку на фото профиля
func (s *Store) UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) error {
	return s.updateUserField(ctx, `UPDATE users SET avatar_url = $1 WHERE id = $2`, url, id)
}

func (s *Store) updateUserField(ctx context.Context, query, value string, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: пользователь %s", models.ErrNotFound, id)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.AvatarURL, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: пользователь", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	return &user, nil
}
