// Package sqlite реализует хранилище поверх встроенной базы SQLite (один файл на диске).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3/log"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// Store реализует store.Store поверх файла SQLite.
// Запись сериализуется mu: SQLite в любом случае допускает одного писателя,
// а так конкурентные запросы не получают SQLITE_BUSY.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open открывает (или создает) базу и применяет миграции.
// Прагмы передаются через DSN, чтобы они действовали на каждое соединение пула.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}

	// SQLite допускает одного писателя, лишние соединения только усиливают блокировки
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка миграции SQLite: %w", err)
	}

	log.Infof("✅ База SQLite открыта: %s", path)
	return &Store{db: db}, nil
}

// Close закрывает базу
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("версия схемы %d новее поддерживаемой %d", version, currentSchemaVersion)
	}
	if version == currentSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Время хранится в наносекундах Unix, даты в виде YYYY-MM-DD
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	avatar_url    TEXT NOT NULL DEFAULT '',
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS listings (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES users(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	other       TEXT NOT NULL DEFAULT '',
	ingredients TEXT NOT NULL DEFAULT '',
	quantity    INTEGER NOT NULL CHECK (quantity >= 0),
	expiry_date TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS listings_user_id_idx ON listings (user_id);
CREATE INDEX IF NOT EXISTS listings_category_idx ON listings (category);

CREATE TABLE IF NOT EXISTS chat_rooms (
	id         TEXT PRIMARY KEY,
	user_a     TEXT NOT NULL REFERENCES users(id),
	user_b     TEXT NOT NULL REFERENCES users(id),
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	room_id    TEXT NOT NULL REFERENCES chat_rooms(id),
	sender_id  TEXT NOT NULL REFERENCES users(id),
	body       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS messages_room_idx ON messages (room_id, created_at, seq);

CREATE TABLE IF NOT EXISTS allergies (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep +
		"_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// exec выполняет изменяющий запрос под блокировкой писателя
func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.ExecContext(ctx, query, args...)
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
