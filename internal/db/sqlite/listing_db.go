package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

const listingColumns = `id, user_id, title, description, category, other, ingredients,
	quantity, expiry_date, location, image_url, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// CreateListing сохраняет объявление и возвращает его новый ID
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) (uuid.UUID, error) {
	listing.ID = uuid.New()
	listing.CreatedAt = time.Now().UTC()

	_, err := s.exec(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, listing.ID, listing.UserID, listing.Title, listing.Description, listing.Category,
		listing.Other, listing.Ingredients, listing.Quantity, listing.ExpiryDate.String(),
		listing.Location, listing.ImageURL, toNanos(listing.CreatedAt))
	if err != nil {
		return uuid.Nil, fmt.Errorf("ошибка вставки объявления: %w", err)
	}
	return listing.ID, nil
}

// GetListing возвращает объявление по ID
func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	listing, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
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
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`, userID)
}

// DeleteListing удаляет объявление; отсутствие записи не считается ошибкой
func (s *Store) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if _, err := s.exec(ctx, `DELETE FROM listings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("ошибка удаления объявления: %w", err)
	}
	return nil
}

// FilterListings выбирает объявления по категории, исключая те,
// в составе которых встречается аллерген. lower() в SQLite складывает только ASCII.
func (s *Store) FilterListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	var conditions []string
	var args []any

	if filter.ByCategory() {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Allergen != "" {
		conditions = append(conditions, "instr(lower(ingredients), lower(?)) = 0")
		args = append(args, filter.Allergen)
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	return s.queryListings(ctx, query, args...)
}

func (s *Store) queryListings(ctx context.Context, query string, args ...any) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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

func scanListing(row rowScanner) (*models.Listing, error) {
	var listing models.Listing
	var expiry string
	var createdAt int64
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
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	if listing.ExpiryDate, err = models.ParseDate(expiry); err != nil {
		return nil, err
	}
	listing.CreatedAt = fromNanos(createdAt)
	return &listing, nil
}
