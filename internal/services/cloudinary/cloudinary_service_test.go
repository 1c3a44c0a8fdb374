package cloudinary

import (
	"testing"

	"github.com/rajivgeraev/foodshare-api/internal/config"
)

func TestNewCloudinaryServiceRequiresCredentials(t *testing.T) {
	if _, err := NewCloudinaryService(config.CloudinaryConfig{CloudName: "demo"}); err == nil {
		t.Fatalf("expected error without api key and secret")
	}
}

func TestNewCloudinaryService(t *testing.T) {
	svc, err := NewCloudinaryService(config.CloudinaryConfig{
		CloudName:    "demo",
		APIKey:       "key",
		APISecret:    "secret",
		UploadFolder: "foodshare",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.uploadFolder != "foodshare" {
		t.Fatalf("unexpected folder %q", svc.uploadFolder)
	}
}
