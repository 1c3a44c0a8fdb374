package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomSeparator разделитель идентификаторов участников в ID комнаты
const RoomSeparator = "_"

// ChatRoom представляет чат между двумя пользователями
type ChatRoom struct {
	ID        string    `json:"id"`
	UserA     uuid.UUID `json:"user_a"`
	UserB     uuid.UUID `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для API
	Peer *PublicUser `json:"peer,omitempty"`
}

// Message представляет сообщение в чате
type Message struct {
	ID        uuid.UUID `json:"id"`
	RoomID    string    `json:"room_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomKey возвращает канонический ID комнаты для неупорядоченной пары пользователей
// и участников в том же порядке, в котором они входят в ключ.
func RoomKey(a, b uuid.UUID) (key string, first, second uuid.UUID) {
	sa, sb := a.String(), b.String()
	if sb < sa {
		a, b = b, a
		sa, sb = sb, sa
	}
	return sa + RoomSeparator + sb, a, b
}

// HasMember проверяет, участвует ли пользователь в комнате
func (r *ChatRoom) HasMember(userID uuid.UUID) bool {
	return r.UserA == userID || r.UserB == userID
}

// PeerOf возвращает собеседника пользователя
func (r *ChatRoom) PeerOf(userID uuid.UUID) uuid.UUID {
	if r.UserA == userID {
		return r.UserB
	}
	return r.UserA
}
