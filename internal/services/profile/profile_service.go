package profile

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/rajivgeraev/foodshare-api/internal/auth"
	"github.com/rajivgeraev/foodshare-api/internal/middleware"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/services/media"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

// ProfileService отдает и меняет профиль пользователя
type ProfileService struct {
	accounts *auth.Accounts
	users    store.UserRepository
	media    *media.MediaService
}

// NewProfileService создает новый экземпляр ProfileService
func NewProfileService(accounts *auth.Accounts, users store.UserRepository, mediaService *media.MediaService) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		users:    users,
		media:    mediaService,
	}
}

// UpdateNameRequest тело запроса смены имени
type UpdateNameRequest struct {
	Name string `json:"name" form:"name"`
}

// GetProfile возвращает данные текущего пользователя
func (s *ProfileService) GetProfile(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	user, err := s.accounts.Lookup(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateName меняет отображаемое имя
func (s *ProfileService) UpdateName(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	var req UpdateNameRequest
	if err := c.Bind().Body(&req); err != nil {
		return fmt.Errorf("%w: неверный формат данных", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	if err := s.accounts.UpdateDisplayName(ctx, userID, req.Name); err != nil {
		return err
	}
	user, err := s.accounts.Lookup(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// UploadPicture загружает аватар и заменяет прежний
func (s *ProfileService) UploadPicture(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	file, err := c.FormFile("picture")
	if err != nil {
		return fmt.Errorf("%w: выберите файл изображения", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	url, err := s.media.UploadFile(ctx, media.FolderProfilePictures, file)
	if err != nil {
		return err
	}
	if err := s.users.UpdateAvatarURL(ctx, userID, url); err != nil {
		return err
	}

	log.Infof("Обновлен аватар пользователя %s", userID)
	return c.JSON(fiber.Map{"success": true, "avatar_url": url})
}

// GetPublicUser возвращает имя и аватар любого пользователя
func (s *ProfileService) GetPublicUser(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fmt.Errorf("%w: неверный формат ID", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	user, err := s.accounts.Lookup(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user.Public()})
}
