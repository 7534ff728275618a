package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ian97531/boombox/internal/app/repository"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS episodes (
		episode_key       TEXT PRIMARY KEY,
		podcast_slug      TEXT NOT NULL,
		episode_slug      TEXT NOT NULL DEFAULT '',
		publish_timestamp INTEGER NOT NULL,
		title             TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL,
		error_message     TEXT NOT NULL DEFAULT '',
		word_count        INTEGER NOT NULL DEFAULT 0,
		created_at        INTEGER NOT NULL,
		updated_at        INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_podcast ON episodes (podcast_slug, publish_timestamp)`,
	`CREATE TABLE IF NOT EXISTS statements (
		id          TEXT PRIMARY KEY,
		episode_key TEXT NOT NULL,
		speaker     INTEGER NOT NULL,
		start_time  REAL NOT NULL,
		end_time    REAL NOT NULL,
		words       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_statements_episode ON statements (episode_key, end_time)`,
}

// SQLiteDB stores episodes and statements in a local SQLite file
type SQLiteDB struct {
	*repository.CommonDB
	db *sql.DB
}

var _ repository.EpisodeDAO = (*SQLiteDB)(nil)

// NewSQLiteDB opens (creating if needed) the database at dbPath
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a shared cache with several writers returns SQLITE_LOCKED
	db.SetMaxOpenConns(1)

	return &SQLiteDB{
		CommonDB: repository.NewCommonDB(db, "sqlite3", schema),
		db:       db,
	}, nil
}
