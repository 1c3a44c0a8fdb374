package db

import (
	"context"
	"os"
	"testing"

	"github.com/rajivgeraev/foodshare-api/internal/store"
	"github.com/rajivgeraev/foodshare-api/internal/store/storetest"
)

// Тесты Postgres выполняются только при заданном TEST_DATABASE_URL
func TestStoreContract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		t.Helper()
		s, err := InitDB(context.Background(), url)
		if err != nil {
			t.Fatalf("init db: %v", err)
		}
		_, err = s.pool.Exec(context.Background(),
			`TRUNCATE messages, chat_rooms, listings, allergies, users RESTART IDENTITY CASCADE`)
		if err != nil {
			t.Fatalf("truncate: %v", err)
		}
		t.Cleanup(s.Close)
		return s
	})
}
