package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryAll значение фильтра, означающее "любая категория"
const CategoryAll = "all"

// Listing представляет объявление о продукте
type Listing struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Other       string    `json:"other,omitempty"`
	Ingredients string    `json:"ingredients"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  Date      `json:"expiry_date"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Дополнительные поля для API
	UploadedBy *PublicUser `json:"uploaded_by,omitempty"`
}

// ListingFilter параметры выборки объявлений.
// Пустая категория или CategoryAll не ограничивает выборку,
// пустой Allergen не исключает ничего.
type ListingFilter struct {
	Category string
	Allergen string
}

// ByCategory сообщает, нужно ли фильтровать по категории
func (f ListingFilter) ByCategory() bool {
	return f.Category != "" && f.Category != CategoryAll
}

// Allergy запись об аллергене без владельца
type Allergy struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
