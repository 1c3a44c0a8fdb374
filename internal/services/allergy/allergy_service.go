package allergy

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

// AllergyService хранит общий справочник аллергенов
type AllergyService struct {
	allergies store.AllergyRepository
}

// NewAllergyService создает новый экземпляр AllergyService
func NewAllergyService(allergies store.AllergyRepository) *AllergyService {
	return &AllergyService{allergies: allergies}
}

// CreateAllergyRequest тело запроса добавления аллергена
type CreateAllergyRequest struct {
	Name string `json:"name" form:"name"`
}

// GetAllergies возвращает все записи
func (s *AllergyService) GetAllergies(c fiber.Ctx) error {
	ctx, cancel := store.GetContext()
	defer cancel()

	allergies, err := s.allergies.ListAllergies(ctx)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"allergies": allergies, "count": len(allergies)})
}

// CreateAllergy добавляет запись без владельца
func (s *AllergyService) CreateAllergy(c fiber.Ctx) error {
	var req CreateAllergyRequest
	if err := c.Bind().Body(&req); err != nil {
		return fmt.Errorf("%w: неверный формат данных", models.ErrValidation)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: введите название аллергена", models.ErrValidation)
	}

	ctx, cancel := store.GetContext()
	defer cancel()

	allergy, err := s.allergies.CreateAllergy(ctx, name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"allergy": allergy})
}

// SetupRoutes настраивает маршруты справочника аллергенов
func (s *AllergyService) SetupRoutes(app *fiber.App) {
	app.Get("/api/allergies", s.GetAllergies)
	app.Post("/api/allergies", s.CreateAllergy)
}
