package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3/log"

	"github.com/rajivgeraev/foodshare-api/internal/config"
	"github.com/rajivgeraev/foodshare-api/internal/db"
	"github.com/rajivgeraev/foodshare-api/internal/db/sqlite"
	"github.com/rajivgeraev/foodshare-api/internal/server"
	"github.com/rajivgeraev/foodshare-api/internal/services/cloudinary"
	"github.com/rajivgeraev/foodshare-api/internal/services/media"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}

	// Инициализируем базу данных
	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer st.Close()

	deps := server.Deps{
		Config:    cfg,
		Store:     st,
		AccessLog: true,
	}

	// Cloudinary, если настроен, иначе локальный каталог
	if cfg.CloudinaryConfig.Enabled() {
		cld, err := cloudinary.NewCloudinaryService(cfg.CloudinaryConfig)
		if err != nil {
			log.Fatalf("❌ Ошибка инициализации Cloudinary: %v", err)
		}
		deps.Objects = cld
		log.Info("✅ Изображения сохраняются в Cloudinary")
	} else {
		local, err := media.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("❌ Ошибка инициализации хранилища файлов: %v", err)
		}
		deps.Objects = local
		deps.Local = local
		log.Infof("✅ Изображения сохраняются в каталог %s", cfg.UploadDir)
	}

	app := server.NewApp(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Останавливаем сервер...")
		if err := app.Shutdown(); err != nil {
			log.Errorf("Ошибка остановки сервера: %v", err)
		}
	}()

	// Запускаем сервер
	log.Infof("✅ FoodShare API запущен на порту %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Errorf("❌ Ошибка сервера: %v", err)
	}
}

// openStore открывает хранилище выбранного драйвера
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		ctx, cancel := store.GetContext()
		defer cancel()
		return db.InitDB(ctx, cfg.DatabaseURL)
	default:
		return sqlite.Open(cfg.SQLitePath)
	}
}
