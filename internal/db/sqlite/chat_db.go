package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

// GetOrCreateRoom возвращает комнату пары пользователей, создавая ее при первом обращении
func (s *Store) GetOrCreateRoom(ctx context.Context, a, b uuid.UUID) (*models.ChatRoom, bool, error) {
	if err := store.ValidatePair(a, b); err != nil {
		return nil, false, err
	}
	key, first, second := models.RoomKey(a, b)

	result, err := s.exec(ctx, `
		INSERT OR IGNORE INTO chat_rooms (id, user_a, user_b, created_at) VALUES (?, ?, ?, ?)
	`, key, first, second, toNanos(time.Now()))
	if err != nil {
		return nil, false, fmt.Errorf("ошибка создания чата: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	room, err := s.GetRoom(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return room, affected == 1, nil
}

// GetRoom возвращает комнату по ID
func (s *Store) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_a, user_b, created_at FROM chat_rooms WHERE id = ?`, id)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: чат %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чата: %w", err)
	}
	return room, nil
}

// ListRooms возвращает чаты пользователя, сначала новые
func (s *Store) ListRooms(ctx context.Context, userID uuid.UUID) ([]models.ChatRoom, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_a, user_b, created_at FROM chat_rooms
		WHERE user_a = ? OR user_b = ?
		ORDER BY created_at DESC
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса чатов: %w", err)
	}
	defer rows.Close()

	rooms := []models.ChatRoom{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования чата: %w", err)
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

// AppendMessage сохраняет сообщение; время не меньше времени последнего сообщения комнаты
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

	s.mu.Lock()
	defer s.mu.Unlock()

	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (id, room_id, sender_id, body, created_at)
		SELECT ?, ?, ?, ?, MAX(?, COALESCE((SELECT MAX(created_at) FROM messages WHERE room_id = ?), 0))
		RETURNING created_at
	`, msg.ID, roomID, senderID, body, toNanos(time.Now()), roomID).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения сообщения: %w", err)
	}
	msg.CreatedAt = fromNanos(createdAt)
	return &msg, nil
}

// ListMessages перечисляет сообщения комнаты по возрастанию времени
func (s *Store) ListMessages(ctx context.Context, roomID string) iter.Seq2[models.Message, error] {
	return func(yield func(models.Message, error) bool) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, room_id, sender_id, body, created_at
			FROM messages
			WHERE room_id = ?
			ORDER BY created_at ASC, seq ASC
		`, roomID)
		if err != nil {
			yield(models.Message{}, fmt.Errorf("ошибка запроса сообщений: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var msg models.Message
			var createdAt int64
			if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.SenderID, &msg.Body, &createdAt); err != nil {
				yield(models.Message{}, fmt.Errorf("ошибка сканирования сообщения: %w", err))
				return
			}
			msg.CreatedAt = fromNanos(createdAt)
			if !yield(msg, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Message{}, err)
		}
	}
}

func scanRoom(row rowScanner) (*models.ChatRoom, error) {
	var room models.ChatRoom
	var createdAt int64
	if err := row.Scan(&room.ID, &room.UserA, &room.UserB, &createdAt); err != nil {
		return nil, err
	}
	room.CreatedAt = fromNanos(createdAt)
	return &room, nil
}
