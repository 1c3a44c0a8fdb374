package listing

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API объявлений.
// Просмотр ленты публичный, остальное требует авторизации.
func (s *ListingService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Публичный маршрут регистрируется раньше middleware группы
	app.Get("/api/listings", s.GetListings)

	// Группа для API объявлений
	api := app.Group("/api/listings")

	// Защищенные маршруты (требуют авторизации)
	api.Use(authMiddleware)

	api.Post("/", s.CreateListing)

	// /my регистрируется раньше /:id
	api.Get("/my", s.GetMyListings)
	api.Get("/:id", s.GetListing)

	api.Delete("/:id", s.DeleteListing)
	// Форма без JavaScript не умеет DELETE
	api.Post("/:id/delete", s.DeleteListing)
}
