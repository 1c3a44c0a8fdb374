package db

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

// GetOrCreateRoom возвращает комнату пары пользователей, создавая ее при первом обращении.
// Конкурентные вызовы сходятся к одной записи благодаря первичному ключу.
func (s *Store) GetOrCreateRoom(ctx context.Context, a, b uuid.UUID) (*models.ChatRoom, bool, error) {
	if err := store.ValidatePair(a, b); err != nil {
		return nil, false, err
	}
	key, first, second := models.RoomKey(a, b)

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO chat_rooms (id, user_a, user_b, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, key, first, second, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("ошибка создания чата: %w", err)
	}

	room, err := s.GetRoom(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return room, tag.RowsAffected() == 1, nil
}

// GetRoom возвращает комнату по ID
func (s *Store) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_a, user_b, created_at FROM chat_rooms WHERE id = $1
	`, id).Scan(&room.ID, &room.UserA, &room.UserB, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: чат %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чата: %w", err)
	}
	return &room, nil
}

// ListRooms возвращает чаты пользователя, сначала новые
func (s *Store) ListRooms(ctx context.Context, userID uuid.UUID) ([]models.ChatRoom, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_a, user_b, created_at FROM chat_rooms
		WHERE user_a = $1 OR user_b = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса чатов: %w", err)
	}
	defer rows.Close()

	rooms := []models.ChatRoom{}
	for rows.Next() {
		var room models.ChatRoom
		if err := rows.Scan(&room.ID, &room.UserA, &room.UserB, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования чата: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// AppendMessage сохраняет сообщение. Время назначается сервером и не меньше
// времени последнего сообщения в комнате.
func (s *Store) AppendMessage(ctx context.Context, roomID string, senderID uuid.UUID, body string) (*models.Message, error) {
	if err := store.ValidateMessage(roomID, senderID, body); err != nil {
		return nil, err
	}
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:       uuid.New(),
		RoomID:   roomID,
		SenderID: senderID,
		Body:     body,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (id, room_id, sender_id, body, created_at)
		SELECT $1, $2, $3, $4, GREATEST($5::timestamptz,
			COALESCE((SELECT MAX(created_at) FROM messages WHERE room_id = $2), $5::timestamptz))
		RETURNING created_at
	`, msg.ID, roomID, senderID, body, time.Now().UTC()).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения сообщения: %w", err)
	}
	return &msg, nil
}

// ListMessages перечисляет сообщения комнаты по возрастанию времени
func (s *Store) ListMessages(ctx context.Context, roomID string) iter.Seq2[models.Message, error] {
	return func(yield func(models.Message, error) bool) {
		rows, err := s.pool.Query(ctx, `
			SELECT id, room_id, sender_id, body, created_at
			FROM messages
			WHERE room_id = $1
			ORDER BY created_at ASC, seq ASC
		`, roomID)
		if err != nil {
			yield(models.Message{}, fmt.Errorf("ошибка запроса сообщений: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var msg models.Message
			if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.SenderID, &msg.Body, &msg.CreatedAt); err != nil {
				yield(models.Message{}, fmt.Errorf("ошибка сканирования сообщения: %w", err))
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Message{}, err)
		}
	}
}
