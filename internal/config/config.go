package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config структура конфигурации
type Config struct {
	Port             string
	AppEnv           string
	JWTSecret        string
	SessionTTL       time.Duration
	DBDriver         string
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	SQLitePath       string
	CloudinaryConfig CloudinaryConfig
	UploadDir        string
	PublicBaseURL    string
	PasswordMinLen   int
	MaxUploadBytes   int
	CORSOrigins      []string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
}

// Enabled сообщает, настроен ли Cloudinary
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// LoadConfig загружает переменные из .env и окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "foodshare_user"),
		Password: getEnv("PGPASSWORD", "foodshare_pass"),
		Name:     getEnv("PGDATABASE", "foodshare"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// DATABASE_URL имеет приоритет над отдельными PG* переменными
	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode))

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("неверное значение SESSION_TTL: %w", err)
	}
	minLen, err := strconv.Atoi(getEnv("PASSWORD_MIN_LENGTH", "8"))
	if err != nil || minLen < 1 {
		return nil, fmt.Errorf("неверное значение PASSWORD_MIN_LENGTH")
	}
	maxUpload, err := strconv.Atoi(getEnv("MAX_UPLOAD_BYTES", strconv.Itoa(5<<20)))
	if err != nil || maxUpload < 1 {
		return nil, fmt.Errorf("неверное значение MAX_UPLOAD_BYTES")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "production"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		SessionTTL:     sessionTTL,
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabaseURL:    dbURL,
		DatabaseConfig: dbConfig,
		SQLitePath:     getEnv("SQLITE_PATH", "foodshare.db"),
		CloudinaryConfig: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "foodshare"),
		},
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		PasswordMinLen: minLen,
		MaxUploadBytes: maxUpload,
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("не задана обязательная переменная окружения JWT_SECRET")
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		return fmt.Errorf("неизвестный DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// IsDevelopment сообщает, запущено ли приложение в режиме разработки
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
