// Package server собирает Fiber-приложение из сервисов.
package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/foodshare-api/internal/auth"
	"github.com/rajivgeraev/foodshare-api/internal/config"
	"github.com/rajivgeraev/foodshare-api/internal/middleware"
	"github.com/rajivgeraev/foodshare-api/internal/services/allergy"
	authservice "github.com/rajivgeraev/foodshare-api/internal/services/auth"
	"github.com/rajivgeraev/foodshare-api/internal/services/chat"
	"github.com/rajivgeraev/foodshare-api/internal/services/listing"
	"github.com/rajivgeraev/foodshare-api/internal/services/media"
	"github.com/rajivgeraev/foodshare-api/internal/services/profile"
	"github.com/rajivgeraev/foodshare-api/internal/store"
	"github.com/rajivgeraev/foodshare-api/internal/utils"
)

// formOverhead запас на текстовые поля формы сверх размера файла
const formOverhead = 1 << 20

// Deps внешние зависимости приложения
type Deps struct {
	Config  *config.Config
	Store   store.Store
	Objects media.ObjectStore
	// Local раздает файлы, если изображения хранятся на диске
	Local *media.LocalStore
	// BcryptCost 0 означает auth.BcryptCost
	BcryptCost int
	// AccessLog включает логирование запросов
	AccessLog bool
}

// NewApp создаёт экземпляр Fiber со всеми маршрутами
func NewApp(deps Deps) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      "FoodShare API",
		ErrorHandler: ErrorHandler,
		BodyLimit:    cfg.MaxUploadBytes + formOverhead,
	})

	// Добавляем middleware
	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Создаём сервисы
	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	accounts := auth.NewAccounts(deps.Store, auth.PasswordPolicy{MinLength: cfg.PasswordMinLen})
	if deps.BcryptCost != 0 {
		accounts.WithCost(deps.BcryptCost)
	}
	mediaService := media.NewMediaService(deps.Objects)

	authService := authservice.NewAuthService(accounts, jwtService, !cfg.IsDevelopment())
	listingService := listing.NewListingService(deps.Store, deps.Store, mediaService)
	chatService := chat.NewChatService(deps.Store, deps.Store, deps.Store)
	profileService := profile.NewProfileService(accounts, deps.Store, mediaService)
	allergyService := allergy.NewAllergyService(deps.Store)

	// Настраиваем middleware для аутентификации
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService())

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	listingService.SetupRoutes(app, authMiddleware)
	chatService.SetupRoutes(app, authMiddleware)
	profileService.SetupRoutes(app, authMiddleware)
	allergyService.SetupRoutes(app)
	if deps.Local != nil {
		deps.Local.SetupRoutes(app)
	}

	return app
}

// corsConfig разрешает cookie только для явно перечисленных источников
func corsConfig(origins []string) cors.Config {
	wildcard := len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
	if wildcard {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: !wildcard,
	}
}
