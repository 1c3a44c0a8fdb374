// Package media отвечает за загрузку изображений в объектное хранилище.
package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
)

// Папки объектного хранилища
const (
	FolderListings        = "listings"
	FolderProfilePictures = "profile_pictures"
)

// allowedContentTypes допустимые типы изображений и расширения для них
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore хранит бинарные объекты и возвращает URL для их получения
type ObjectStore interface {
	Put(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error)
}

// MediaService проверяет и сохраняет загружаемые изображения
type MediaService struct {
	store ObjectStore
}

// NewMediaService создает сервис загрузки изображений
func NewMediaService(store ObjectStore) *MediaService {
	return &MediaService{store: store}
}

// ExtensionFor возвращает расширение файла для допустимого типа изображения
func ExtensionFor(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	ext, ok := allowedContentTypes[strings.ToLower(mediaType)]
	return ext, ok
}

// Upload сохраняет изображение под случайным именем и возвращает его URL.
// Недопустимый тип отклоняется до обращения к хранилищу.
func (s *MediaService) Upload(ctx context.Context, folder, contentType string, r io.Reader) (string, error) {
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("%w: допустимы только JPEG, PNG, GIF или WebP", models.ErrUnsupportedMediaType)
	}

	name := uuid.NewString() + ext
	url, err := s.store.Put(ctx, folder, name, contentType, r)
	if err != nil {
		log.Errorf("Ошибка загрузки изображения %s/%s: %v", folder, name, err)
		return "", fmt.Errorf("ошибка загрузки изображения: %w", err)
	}

	log.Infof("Изображение загружено: %s/%s", folder, name)
	return url, nil
}

// UploadFile сохраняет файл из multipart-формы
func (s *MediaService) UploadFile(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if _, ok := ExtensionFor(contentType); !ok {
		return "", fmt.Errorf("%w: допустимы только JPEG, PNG, GIF или WebP", models.ErrUnsupportedMediaType)
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: не удалось прочитать файл", models.ErrValidation)
	}
	defer f.Close()

	return s.Upload(ctx, folder, contentType, f)
}
