package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rajivgeraev/foodshare-api/internal/config"
)

// CloudinaryService сохраняет изображения в Cloudinary
type CloudinaryService struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg config.CloudinaryConfig) (*CloudinaryService, error) {
	if !cfg.Enabled() {
		return nil, errors.New("cloudinary не настроен")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Cloudinary: %w", err)
	}

	return &CloudinaryService{
		cld:          cld,
		uploadFolder: cfg.UploadFolder,
	}, nil
}

// Put загружает изображение и возвращает его HTTPS URL.
// Имя файла без расширения становится public_id.
func (s *CloudinaryService) Put(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	publicID := strings.TrimSuffix(name, path.Ext(name))

	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID,
		Folder:   path.Join(s.uploadFolder, folder),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки в Cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}

	return resp.SecureURL, nil
}
