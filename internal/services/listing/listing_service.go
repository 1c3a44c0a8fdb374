package listing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/rajivgeraev/foodshare-api/internal/middleware"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/services/media"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

// CategoryOther категория, для которой обязательно поле other
const CategoryOther = "other"

// ListingService представляет сервис для работы с объявлениями
type ListingService struct {
	listings store.ListingRepository
	users    store.UserRepository
	media    *media.MediaService
}

// NewListingService создает новый экземпляр ListingService
func NewListingService(listings store.ListingRepository, users store.UserRepository, mediaService *media.MediaService) *ListingService {
	return &ListingService{
		listings: listings,
		users:    users,
		media:    mediaService,
	}
}

// CreateListing обрабатывает создание нового объявления.
// Принимает multipart или urlencoded форму, поле image необязательно.
func (s *ListingService) CreateListing(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	listing, err := listingFromForm(c)
	if err != nil {
		return err
	}
	listing.UserID = userID

	ctx, cancel := store.GetContext()
	defer cancel()

	// Изображение загружаем до записи объявления, URL задается один раз
	if file, err := c.FormFile("image"); err == nil {
		url, err := s.media.UploadFile(ctx, media.FolderListings, file)
		if err != nil {
			return err
		}
		listing.ImageURL = url
	}

	id, err := s.listings.CreateListing(ctx, listing)
	if err != nil {
		if listing.ImageURL != "" {
			log.Errorf("Объявление не сохранено, изображение осталось без объявления: %s", listing.ImageURL)
		}
		return err
	}

	log.Infof("Создано объявление %s пользователем %s", id, userID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"listing": listing,
	})
}

// GetListings возвращает объявления с фильтрами по категории и аллергену
func (s *ListingService) GetListings(c fiber.Ctx) error {
	filter := models.ListingFilter{
		Category: c.Query("category", models.CategoryAll),
		Allergen: strings.TrimSpace(c.Query("allergen")),
	}
	if filter.Allergen == "" {
		filter.Allergen = strings.TrimSpace(c.Query("allergy"))
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	listings, err := s.listings.FilterListings(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing возвращает одно объявление вместе с именем автора
func (s *ListingService) GetListing(c fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	listing, err := s.listings.GetListing(ctx, id)
	if err != nil {
		return err
	}

	owner, err := s.users.GetUserByID(ctx, listing.UserID)
	switch {
	case err == nil:
		public := owner.Public()
		listing.UploadedBy = &public
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	return c.JSON(fiber.Map{"listing": listing})
}

// GetMyListings возвращает объявления текущего пользователя
func (s *ListingService) GetMyListings(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	listings, err := s.listings.ListByOwner(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"count":    len(listings),
	})
}

// DeleteListing удаляет объявление, если его автор текущий пользователь
func (s *ListingService) DeleteListing(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не авторизован")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	if err := s.DeleteOwned(ctx, id, userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteOwned удаляет объявление владельца.
// Чужое объявление дает models.ErrForbidden, отсутствующее удаляется молча.
func (s *ListingService) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	listing, err := s.listings.GetListing(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if listing.UserID != ownerID {
		return fmt.Errorf("%w: можно удалять только свои объявления", models.ErrForbidden)
	}

	if err := s.listings.DeleteListing(ctx, id); err != nil {
		return err
	}
	log.Infof("Удалено объявление %s", id)
	return nil
}

// listingFromForm собирает и проверяет объявление из полей формы
func listingFromForm(c fiber.Ctx) (*models.Listing, error) {
	field := func(key string) string {
		return strings.TrimSpace(c.FormValue(key))
	}

	listing := &models.Listing{
		Title:       field("title"),
		Description: field("description"),
		Category:    field("category"),
		Other:       field("other"),
		Ingredients: field("ingredients"),
		Location:    field("location"),
	}

	if listing.Title == "" || listing.Description == "" || listing.Location == "" {
		return nil, fmt.Errorf("%w: заполните все обязательные поля", models.ErrValidation)
	}
	if listing.Category == "" || listing.Category == models.CategoryAll {
		return nil, fmt.Errorf("%w: выберите категорию", models.ErrValidation)
	}
	if listing.Category == CategoryOther && listing.Other == "" {
		return nil, fmt.Errorf("%w: укажите свою категорию", models.ErrValidation)
	}

	quantity, err := strconv.Atoi(field("quantity"))
	if err != nil || quantity < 1 {
		return nil, fmt.Errorf("%w: количество должно быть положительным целым числом", models.ErrValidation)
	}
	listing.Quantity = quantity

	expiry, err := models.ParseDate(field("expiry_date"))
	if err != nil {
		return nil, err
	}
	listing.ExpiryDate = expiry

	return listing, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: неверный формат ID", models.ErrValidation)
	}
	return id, nil
}
