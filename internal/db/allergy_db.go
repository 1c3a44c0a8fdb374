package db

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
	_, err := s.pool.Exec(ctx, `
		INSERT INTO allergies (id, name, created_at) VALUES ($1, $2, $3)
	`, allergy.ID, allergy.Name, allergy.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения аллергена: %w", err)
	}
	return &allergy, nil
}

// ListAllergies возвращает все записи об аллергенах
func (s *Store) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM allergies ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса аллергенов: %w", err)
	}
	defer rows.Close()

	allergies := []models.Allergy{}
	for rows.Next() {
		var a models.Allergy
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования аллергена: %w", err)
		}
		allergies = append(allergies, a)
	}
	return allergies, rows.Err()
}
