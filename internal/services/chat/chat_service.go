package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/rajivgeraev/foodshare-api/internal/middleware"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

// ChatService представляет сервис для работы с чатами
type ChatService struct {
	chats    store.ChatRepository
	users    store.UserRepository
	listings store.ListingRepository
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(chats store.ChatRepository, users store.UserRepository, listings store.ListingRepository) *ChatService {
	return &ChatService{
		chats:    chats,
		users:    users,
		listings: listings,
	}
}

// CreateChatRequest тело запроса создания чата.
// Собеседника можно указать напрямую или через объявление.
type CreateChatRequest struct {
	UserID    string `json:"user_id" form:"user_id"`
	ListingID string `json:"listing_id" form:"listing_id"`
}

// SendMessageRequest тело запроса отправки сообщения
type SendMessageRequest struct {
	Body string `json:"body" form:"body"`
}

// GetChats возвращает список чатов пользователя с информацией о собеседнике
func (s *ChatService) GetChats(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	rooms, err := s.chats.ListRooms(ctx, userID)
	if err != nil {
		return err
	}

	for i := range rooms {
		if err := s.attachPeer(ctx, &rooms[i], userID); err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{
		"chats": rooms,
		"count": len(rooms),
	})
}

// CreateChat возвращает чат с пользователем, создавая его при первом обращении
func (s *ChatService) CreateChat(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	var req CreateChatRequest
	if err := c.Bind().Body(&req); err != nil {
		return fmt.Errorf("%w: неверный формат данных", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	receiverID, err := s.resolveReceiver(ctx, req)
	if err != nil {
		return err
	}

	room, created, err := s.chats.GetOrCreateRoom(ctx, userID, receiverID)
	if err != nil {
		return err
	}
	if err := s.attachPeer(ctx, room, userID); err != nil {
		return err
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
		log.Infof("Создан чат %s", room.ID)
	}
	return c.Status(status).JSON(fiber.Map{
		"chat":    room,
		"created": created,
	})
}

// GetChatMessages возвращает историю сообщений чата по возрастанию времени
func (s *ChatService) GetChatMessages(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	room, err := s.memberRoom(ctx, c.Params("id"), userID)
	if err != nil {
		return err
	}

	messages, err := store.CollectMessages(s.chats.ListMessages(ctx, room.ID))
	if err != nil {
		return err
	}
	if err := s.attachPeer(ctx, room, userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"chat":     room,
		"messages": messages,
	})
}

// SendMessage добавляет сообщение в чат от имени текущего пользователя
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	var req SendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return fmt.Errorf("%w: неверный формат данных", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	room, err := s.memberRoom(ctx, c.Params("id"), userID)
	if err != nil {
		return err
	}

	msg, err := s.chats.AppendMessage(ctx, room.ID, userID, req.Body)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": msg})
}

// resolveReceiver определяет собеседника: по user_id или по автору объявления
func (s *ChatService) resolveReceiver(ctx context.Context, req CreateChatRequest) (uuid.UUID, error) {
	if listingID := strings.TrimSpace(req.ListingID); listingID != "" {
		id, err := uuid.Parse(listingID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: неверный ID объявления", models.ErrValidation)
		}
		listing, err := s.listings.GetListing(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		return listing.UserID, nil
	}

	id, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: укажите собеседника", models.ErrValidation)
	}
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// memberRoom загружает чат и проверяет, что пользователь в нем участвует
func (s *ChatService) memberRoom(ctx context.Context, roomID string, userID uuid.UUID) (*models.ChatRoom, error) {
	room, err := s.chats.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(userID) {
		return nil, fmt.Errorf("%w: вы не участник этого чата", models.ErrForbidden)
	}
	return room, nil
}

// attachPeer добавляет в чат публичные данные собеседника
func (s *ChatService) attachPeer(ctx context.Context, room *models.ChatRoom, userID uuid.UUID) error {
	peer, err := s.users.GetUserByID(ctx, room.PeerOf(userID))
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	public := peer.Public()
	room.Peer = &public
	return nil
}
