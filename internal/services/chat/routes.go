package chat

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API чатов
func (s *ChatService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Группа для API чатов
	api := app.Group("/api/chats")

	// Все маршруты чатов требуют авторизации
	api.Use(authMiddleware)

	api.Get("/", s.GetChats)
	api.Post("/", s.CreateChat)

	api.Get("/:id/messages", s.GetChatMessages)
	api.Post("/:id/messages", s.SendMessage)
}
