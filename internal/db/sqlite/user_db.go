package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

const userColumns = `id, email, display_name, password_hash, avatar_url, created_at`

// CreateUser создает учетную запись; занятый email дает models.ErrDuplicateAccount
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	result, err := s.exec(ctx, `
		INSERT OR IGNORE INTO users (id, email, display_name, password_hash, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.DisplayName, user.PasswordHash, user.AvatarURL, toNanos(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrDuplicateAccount
	}
	return nil
}

// GetUserByID получает пользователя по ID
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail получает пользователя по email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// UpdateDisplayName меняет отображаемое имя
func (s *Store) UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error {
	return s.updateUserField(ctx, `UPDATE users SET display_name = ? WHERE id = ?`, name, id)
}

// UpdateAvatarURL перезаписывает ссылку на фото профиля
func (s *Store) UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) error {
	return s.updateUserField(ctx, `UPDATE users SET avatar_url = ? WHERE id = ?`, url, id)
}

func (s *Store) updateUserField(ctx context.Context, query, value string, id uuid.UUID) error {
	result, err := s.exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: пользователь %s", models.ErrNotFound, id)
	}
	return nil
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var createdAt int64
	err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.AvatarURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: пользователь", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	user.CreatedAt = fromNanos(createdAt)
	return &user, nil
}
