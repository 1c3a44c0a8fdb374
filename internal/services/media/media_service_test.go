package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rajivgeraev/foodshare-api/internal/models"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStore) Put(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[folder+"/"+name] = data
	return "mem://" + folder + "/" + name, nil
}

func TestUploadAcceptsAllowedTypes(t *testing.T) {
	store := &memoryStore{}
	svc := NewMediaService(store)

	for contentType, ext := range map[string]string{
		"image/jpeg":                 ".jpg",
		"image/png":                  ".png",
		"image/gif":                  ".gif",
		"image/webp":                 ".webp",
		"IMAGE/PNG; charset=binary": ".png",
	} {
		url, err := svc.Upload(context.Background(), FolderListings, contentType, strings.NewReader("img"))
		if err != nil {
			t.Fatalf("%s: %v", contentType, err)
		}
		if !strings.HasPrefix(url, "mem://listings/") || !strings.HasSuffix(url, ext) {
			t.Fatalf("%s: unexpected url %s", contentType, url)
		}
	}
	if len(store.objects) != 5 {
		t.Fatalf("expected 5 objects, got %d", len(store.objects))
	}
}

func TestUploadRejectsOtherTypesWithoutWriting(t *testing.T) {
	store := &memoryStore{}
	svc := NewMediaService(store)

	for _, contentType := range []string{"text/plain", "image/svg+xml", "application/octet-stream", "", "image/"} {
		_, err := svc.Upload(context.Background(), FolderProfilePictures, contentType, strings.NewReader("x"))
		if !errors.Is(err, models.ErrUnsupportedMediaType) {
			t.Fatalf("%q: expected ErrUnsupportedMediaType, got %v", contentType, err)
		}
	}
	if len(store.objects) != 0 {
		t.Fatalf("rejected uploads must not reach the store, got %d objects", len(store.objects))
	}
}

func TestUploadNamesAreRandom(t *testing.T) {
	store := &memoryStore{}
	svc := NewMediaService(store)

	first, err := svc.Upload(context.Background(), FolderListings, "image/png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	second, err := svc.Upload(context.Background(), FolderListings, "image/png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct names, got %s twice", first)
	}
}

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:8080")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	name := "0f8fad5b-d9cb-469f-a165-70867728950e.png"
	url, err := store.Put(context.Background(), FolderListings, name, "image/png", bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "http://localhost:8080/uploads/listings/"+name {
		t.Fatalf("unexpected url %s", url)
	}

	data, err := os.ReadFile(filepath.Join(root, FolderListings, name))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content %q", data)
	}

	for _, bad := range [][2]string{{"../etc", name}, {FolderListings, "../../passwd"}, {FolderListings, "photo.png"}} {
		if _, err := store.Put(context.Background(), bad[0], bad[1], "image/png", strings.NewReader("x")); err == nil {
			t.Fatalf("expected rejection of %s/%s", bad[0], bad[1])
		}
	}
}
