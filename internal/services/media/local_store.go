package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gofiber/fiber/v3"
)

// UploadsPrefix путь, по которому LocalStore раздает файлы
const UploadsPrefix = "/uploads"

var (
	folderPattern = regexp.MustCompile(`^[a-z_]+$`)
	namePattern   = regexp.MustCompile(`^[0-9a-f-]{36}\.(jpg|png|gif|webp)$`)
)

// LocalStore хранит объекты в каталоге на диске
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore создает хранилище в каталоге root.
// baseURL добавляется перед /uploads в возвращаемых ссылках (может быть пустым).
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога загрузок: %w", err)
	}
	return &LocalStore{root: root, baseURL: baseURL}, nil
}

// Put записывает объект на диск
func (s *LocalStore) Put(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	if !folderPattern.MatchString(folder) || !namePattern.MatchString(name) {
		return "", fmt.Errorf("недопустимый путь объекта %s/%s", folder, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%s/%s/%s", s.baseURL, UploadsPrefix, folder, name), nil
}

// ServeFile отдает сохраненный файл
func (s *LocalStore) ServeFile(c fiber.Ctx) error {
	folder, name := c.Params("folder"), c.Params("name")
	if !folderPattern.MatchString(folder) || !namePattern.MatchString(name) {
		return fiber.ErrNotFound
	}

	path := filepath.Join(s.root, folder, name)
	if _, err := os.Stat(path); err != nil {
		return fiber.ErrNotFound
	}
	return c.SendFile(path)
}

// SetupRoutes регистрирует раздачу загруженных файлов
func (s *LocalStore) SetupRoutes(app *fiber.App) {
	app.Get(UploadsPrefix+"/:folder/:name", s.ServeFile)
}
