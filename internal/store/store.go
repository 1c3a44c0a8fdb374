// Package store описывает контракты хранилищ, общие для Postgres и SQLite.
package store

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

// UserRepository хранит учетные записи
type UserRepository interface {
	// CreateUser сохраняет пользователя; models.ErrDuplicateAccount, если email занят
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) error
}

// ListingRepository хранит объявления
type ListingRepository interface {
	CreateListing(ctx context.Context, listing *models.Listing) (uuid.UUID, error)
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Listing, error)
	// DeleteListing идемпотентно удаляет объявление
	DeleteListing(ctx context.Context, id uuid.UUID) error
	FilterListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
}

// ChatRepository хранит комнаты и историю сообщений
type ChatRepository interface {
	// GetOrCreateRoom возвращает комнату пары пользователей и признак того, что она создана сейчас
	GetOrCreateRoom(ctx context.Context, a, b uuid.UUID) (*models.ChatRoom, bool, error)
	GetRoom(ctx context.Context, id string) (*models.ChatRoom, error)
	ListRooms(ctx context.Context, userID uuid.UUID) ([]models.ChatRoom, error)
	AppendMessage(ctx context.Context, roomID string, senderID uuid.UUID, body string) (*models.Message, error)
	// ListMessages лениво перечисляет сообщения по возрастанию времени.
	// Каждый проход заново выполняет запрос.
	ListMessages(ctx context.Context, roomID string) iter.Seq2[models.Message, error]
}

// AllergyRepository хранит записи об аллергенах
type AllergyRepository interface {
	CreateAllergy(ctx context.Context, name string) (*models.Allergy, error)
	ListAllergies(ctx context.Context) ([]models.Allergy, error)
}

// Store объединяет все репозитории одного бэкенда
type Store interface {
	UserRepository
	ListingRepository
	ChatRepository
	AllergyRepository
	Close()
}

// CollectMessages собирает последовательность сообщений в срез
func CollectMessages(seq iter.Seq2[models.Message, error]) ([]models.Message, error) {
	messages := []models.Message{}
	for msg, err := range seq {
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// QueryTimeout ограничение на один запрос к хранилищу
const QueryTimeout = 5 * time.Second

// GetContext возвращает контекст с таймаутом для запросов к базе данных
func GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), QueryTimeout)
}

// ValidatePair проверяет пару участников комнаты
func ValidatePair(a, b uuid.UUID) error {
	if a == uuid.Nil || b == uuid.Nil {
		return fmt.Errorf("%w: не указан участник чата", models.ErrValidation)
	}
	if a == b {
		return fmt.Errorf("%w: нельзя создать чат с самим собой", models.ErrValidation)
	}
	return nil
}

// ValidateMessage проверяет сообщение до записи
func ValidateMessage(roomID string, senderID uuid.UUID, body string) error {
	switch {
	case roomID == "":
		return fmt.Errorf("%w: не указан ID чата", models.ErrValidation)
	case senderID == uuid.Nil:
		return fmt.Errorf("%w: не указан отправитель", models.ErrValidation)
	case strings.TrimSpace(body) == "":
		return fmt.Errorf("%w: текст сообщения не может быть пустым", models.ErrValidation)
	}
	return nil
}
