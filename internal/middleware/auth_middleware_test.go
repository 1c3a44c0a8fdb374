package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/foodshare-api/internal/utils"
)

func newProtectedApp(jwtService *utils.JWTService) *fiber.App {
	app := fiber.New()
	protected := app.Group("/")
	protected.Use(AuthMiddleware(jwtService))
	protected.Get("/me", func(c fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(userID.String())
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := utils.NewJWTService("middleware-secret", time.Hour)
	app := newProtectedApp(jwtService)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID)
	if err != nil {
		t.Fatal(err)
	}
	otherToken, err := utils.NewJWTService("other-secret", time.Hour).GenerateToken(userID)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := utils.NewJWTService("middleware-secret", -time.Minute).GenerateToken(userID)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
	}{
		{name: "no credentials", wantStatus: fiber.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + token, wantStatus: fiber.StatusOK},
		{name: "cookie", cookie: token, wantStatus: fiber.StatusOK},
		{name: "malformed header", header: "Token " + token, wantStatus: fiber.StatusUnauthorized},
		{name: "foreign signature", header: "Bearer " + otherToken, wantStatus: fiber.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: fiber.StatusUnauthorized},
		{name: "header wins over cookie", header: "Bearer " + otherToken, cookie: token, wantStatus: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", SessionCookie+"="+tt.cookie)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != userID.String() {
					t.Errorf("user id = %s, want %s", body, userID)
				}
			}
		})
	}
}
