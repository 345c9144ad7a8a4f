package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Config selects and locates the database
type Config struct {
	Type string // "sqlite" (default) or "postgres"
	Path string // SQLite file path, ":memory:" for a throwaway database
	URL  string // Postgres connection string
}

// Connect opens the database and initializes the schema
func Connect(config Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch config.Type {
	case TypePostgres:
		if config.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres")
		}
		db, err = sqlx.Connect("postgres", config.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	case TypeSQLite, "":
		path := config.Path
		if path == "" {
			path = filepath.Join("data", "fransbot.db")
		}
		if path != ":memory:" {
			// Create data directory if it doesn't exist
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}

		db, err = sqlx.Connect("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}

		// SQLite doesn't support multiple writers, and :memory: must stay on one connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		return nil, fmt.Errorf("unsupported database type %q", config.Type)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		id = "BIGSERIAL PRIMARY KEY"
	}

	// Create items table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id ` + id + `,
			position INTEGER NOT NULL,
			sentence TEXT NOT NULL,
			answer TEXT NOT NULL,
			tense TEXT NOT NULL,
			lemma TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}

	// Create users table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id ` + id + `,
			telegram_id BIGINT UNIQUE NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			lemma TEXT NOT NULL DEFAULT '',
			tenses TEXT NOT NULL DEFAULT '',
			notification_enabled BOOLEAN NOT NULL DEFAULT true,
			notification_hour INTEGER NOT NULL DEFAULT 9,
			last_active TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	// Create attempts table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS attempts (
			id ` + id + `,
			user_id BIGINT NOT NULL,
			session_id TEXT NOT NULL,
			sentence TEXT NOT NULL,
			answer TEXT NOT NULL,
			tense TEXT NOT NULL,
			lemma TEXT NOT NULL,
			given TEXT NOT NULL DEFAULT '',
			correct BOOLEAN NOT NULL,
			attempted_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create attempts table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, attempted_at)`)
	if err != nil {
		return fmt.Errorf("failed to create attempts index: %w", err)
	}

	return nil
}
