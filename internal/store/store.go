package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver, file-based default
)

// Store is the relational cache for channels, videos and their statistics.
// It is constructed once in main and injected; tests open an isolated
// in-memory database each.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database named by databaseURL and ensures the schema
// exists. A postgres:// URL selects the Postgres driver; anything else is
// treated as a SQLite file path.
func Open(databaseURL string) (*Store, error) {
	driver, dsn := resolveDriver(databaseURL)
	log.Printf("Connecting to %s database", driver)

	if driver == "sqlite3" {
		path := strings.SplitN(dsn, "?", 2)[0]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %v", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		// The foreign_keys pragma is per-connection; pin the pool to one
		// so cascades hold on every statement.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection. Tests use this with sqlmock.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db, driver: db.DriverName()}
}

func resolveDriver(databaseURL string) (driver, dsn string) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return "postgres", databaseURL
	}
	dsn = databaseURL
	if !strings.Contains(dsn, "_foreign_keys=") {
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
	}
	return "sqlite3", dsn
}

// createTables creates the necessary tables if they don't exist
func (s *Store) createTables() error {
	surrogateKey := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "postgres" {
		surrogateKey = "BIGSERIAL PRIMARY KEY"
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS channels (
			channel_id TEXT PRIMARY KEY,
			channel_name TEXT NOT NULL,
			custom_url TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMP,
			subscriber_count BIGINT NOT NULL DEFAULT 0,
			video_count BIGINT NOT NULL DEFAULT 0,
			view_count BIGINT NOT NULL DEFAULT 0,
			thumbnail_url TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS videos (
			video_id TEXT PRIMARY KEY,
			channel_id TEXT NOT NULL REFERENCES channels(channel_id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMP,
			duration_seconds BIGINT NOT NULL DEFAULT 0,
			thumbnail_url TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMP NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS video_statistics (
			id %s,
			video_id TEXT NOT NULL REFERENCES videos(video_id) ON DELETE CASCADE,
			view_count BIGINT NOT NULL DEFAULT 0,
			like_count BIGINT NOT NULL DEFAULT 0,
			comment_count BIGINT NOT NULL DEFAULT 0,
			fetched_at TIMESTAMP NOT NULL
		)`, surrogateKey),
		`CREATE INDEX IF NOT EXISTS idx_videos_channel_id ON videos(channel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_video_statistics_video_id ON video_statistics(video_id, fetched_at)`,
	}

	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
