package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет зарегистрированного пользователя
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser минимальная информация о пользователе для чужих глаз
type PublicUser struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
}

// Public возвращает представление пользователя без email
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}
