package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

// CreateAllergy сохраняет запись об аллергене
func (s *Store) CreateAllergy(ctx context.Context, name string) (*models.Allergy, error) {
	allergy := models.Allergy{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.exec(ctx, `INSERT INTO allergies (id, name, created_at) VALUES (?, ?, ?)`,
		allergy.ID, allergy.Name, toNanos(allergy.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения аллергена: %w", err)
	}
	return &allergy, nil
}

// ListAllergies возвращает все записи об аллергенах
func (s *Store) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM allergies ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса аллергенов: %w", err)
	}
	defer rows.Close()

	allergies := []models.Allergy{}
	for rows.Next() {
		var a models.Allergy
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования аллергена: %w", err)
		}
		a.CreatedAt = fromNanos(createdAt)
		allergies = append(allergies, a)
	}
	return allergies, rows.Err()
}
