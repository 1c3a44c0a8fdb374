package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"github.com/rajivgeraev/foodshare-api/internal/auth"
	"github.com/rajivgeraev/foodshare-api/internal/middleware"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/store"
	"github.com/rajivgeraev/foodshare-api/internal/utils"
)

// AuthService – структура для обработки регистрации и входа
type AuthService struct {
	accounts     *auth.Accounts
	jwtService   *utils.JWTService
	secureCookie bool
}

// NewAuthService – конструктор AuthService
func NewAuthService(accounts *auth.Accounts, jwtService *utils.JWTService, secureCookie bool) *AuthService {
	return &AuthService{
		accounts:     accounts,
		jwtService:   jwtService,
		secureCookie: secureCookie,
	}
}

// GetJWTService возвращает сервис токенов для AuthMiddleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// RegisterRequest тело запроса регистрации
type RegisterRequest struct {
	Email        string `json:"email" form:"email"`
	Password     string `json:"password" form:"password"`
	Confirmation string `json:"confirmation" form:"confirmation"`
	Name         string `json:"name" form:"name"`
}

// LoginRequest тело запроса входа
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RegisterHandler создает учетную запись и сразу открывает сессию
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var req RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return fmt.Errorf("%w: неверный формат данных", models.ErrValidation)
	}
	if req.Password != req.Confirmation {
		return fmt.Errorf("%w: пароли не совпадают", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	user, err := s.accounts.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	log.Infof("Зарегистрирован пользователь %s", user.ID)
	return s.startSession(c, fiber.StatusCreated, user)
}

// LoginHandler проверяет email и пароль и выдает JWT.
// Неизвестный email и неверный пароль дают одинаковый ответ.
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var req LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return fmt.Errorf("%w: неверный формат данных", models.ErrValidation)
	}
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: введите email и пароль", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	user, err := s.accounts.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, models.ErrNotFound) {
		err = models.ErrInvalidCredential
	}
	if err != nil {
		return err
	}

	return s.startSession(c, fiber.StatusOK, user)
}

// LogoutHandler удаляет cookie сессии
func (s *AuthService) LogoutHandler(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"success": true})
}

// startSession генерирует JWT, ставит его в cookie и возвращает в теле ответа
func (s *AuthService) startSession(c fiber.Ctx, status int, user *models.User) error {
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return fmt.Errorf("ошибка генерации токена: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.jwtService.TTL()),
		HTTPOnly: true,
		Secure:   s.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
