package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/foodshare-api/internal/utils"
)

// SessionCookie имя cookie с JWT сессии
const SessionCookie = "session"

const userIDKey = "userID"

// AuthMiddleware создаёт middleware для проверки JWT.
// Токен берется из заголовка Authorization: Bearer или из cookie сессии.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)

		if authHeader := c.Get("Authorization"); authHeader != "" {
			// Проверяем Bearer токен
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid authorization header format",
					"code":  "unauthorized",
				})
			}
			tokenString = parts[1]
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Необходимо войти в систему",
				"code":  "unauthorized",
			})
		}

		userID, err := jwtService.ExtractUserID(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
				"code":  "unauthorized",
			})
		}

		// Добавляем userID в контекст
		c.Locals(userIDKey, userID)

		return c.Next()
	}
}

// UserID возвращает ID текущего пользователя, установленный AuthMiddleware
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals(userIDKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}
