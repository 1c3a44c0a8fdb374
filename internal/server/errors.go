package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

type errorKind struct {
	target  error
	status  int
	code    string
	message string // пустое сообщение означает "взять текст ошибки"
}

var errorKinds = []errorKind{
	{models.ErrValidation, fiber.StatusBadRequest, "validation", ""},
	{models.ErrWeakCredential, fiber.StatusBadRequest, "weak_credential", ""},
	{models.ErrDuplicateAccount, fiber.StatusConflict, "duplicate_account", "Email уже зарегистрирован"},
	{models.ErrInvalidCredential, fiber.StatusUnauthorized, "invalid_credential", "Неверный email или пароль"},
	{models.ErrNotFound, fiber.StatusNotFound, "not_found", ""},
	{models.ErrForbidden, fiber.StatusForbidden, "forbidden", ""},
	{models.ErrUnsupportedMediaType, fiber.StatusUnsupportedMediaType, "unsupported_media_type", ""},
}

// ErrorHandler единственное место, где ошибки превращаются в HTTP-ответы.
// Клиент по полю code отличает ошибку во входных данных от сбоя сервера.
func ErrorHandler(c fiber.Ctx, err error) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.target) {
			message := kind.message
			if message == "" {
				message = userMessage(err, kind.target)
			}
			return c.Status(kind.status).JSON(fiber.Map{"error": message, "code": kind.code})
		}
	}

	// Проверяем, является ли ошибка из Fiber
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "code": "http"})
	}

	log.Errorf("Необработанная ошибка %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Внутренняя ошибка сервера",
		"code":  "internal",
	})
}

// userMessage отрезает от текста ошибки технический префикс сентинела
func userMessage(err, target error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, target.Error()+": "); ok {
		return rest
	}
	return msg
}
