package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

const listingColumns = `id, user_id, title, description, category, other, ingredients,
	quantity, expiry_date, location, image_url, created_at`

// CreateListing сохраняет объявление и возвращает его новый ID
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) (uuid.UUID, error) {
	listing.ID = uuid.New()
	listing.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, listing.ID, listing.UserID, listing.Title, listing.Description, listing.Category,
		listing.Other, listing.Ingredients, listing.Quantity, listing.ExpiryDate.Time,
		listing.Location, listing.ImageURL, listing.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ошибка вставки объявления: %w", err)
	}
	return listing.ID, nil
}

// GetListing возвращает объявление по ID
func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	listing, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: объявление %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения объявления: %w", err)
	}
	return listing, nil
}

// ListByOwner возвращает объявления пользователя, сначала новые
func (s *Store) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	return s.queryListings(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, userID)
}

// DeleteListing удаляет объявление; отсутствие записи не считается ошибкой
func (s *Store) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("ошибка удаления объявления: %w", err)
	}
	return nil
}

// FilterListings выбирает объявления по категории, исключая те,
// в составе которых встречается аллерген (без учета регистра)
func (s *Store) FilterListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	var conditions []string
	var args []any

	if filter.ByCategory() {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Allergen != "" {
		args = append(args, filter.Allergen)
		conditions = append(conditions, fmt.Sprintf("strpos(lower(ingredients), lower($%d)) = 0", len(args)))
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	return s.queryListings(ctx, query, args...)
}

func (s *Store) queryListings(ctx context.Context, query string, args ...any) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса объявлений: %w", err)
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		listings = append(listings, *listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения объявлений: %w", err)
	}
	return listings, nil
}

func scanListing(row pgx.Row) (*models.Listing, error) {
	var listing models.Listing
	var expiry time.Time
	err := row.Scan(
		&listing.ID,
		&listing.UserID,
		&listing.Title,
		&listing.Description,
		&listing.Category,
		&listing.Other,
		&listing.Ingredients,
		&listing.Quantity,
		&expiry,
		&listing.Location,
		&listing.ImageURL,
		&listing.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	listing.ExpiryDate = models.NewDate(expiry)
	return &listing, nil
}
