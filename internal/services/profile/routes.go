package profile

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты профиля
func (s *ProfileService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	app.Get("/api/users/:id", s.GetPublicUser)

	protected := app.Group("/api/profile")
	protected.Use(authMiddleware)

	protected.Get("/", s.GetProfile)
	protected.Put("/name", s.UpdateName)
	protected.Post("/picture", s.UploadPicture)
}
