package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/ian97531/boombox/internal/app/repository"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS episodes (
		episode_key       TEXT PRIMARY KEY,
		podcast_slug      TEXT NOT NULL,
		episode_slug      TEXT NOT NULL DEFAULT '',
		publish_timestamp BIGINT NOT NULL,
		title             TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL,
		error_message     TEXT NOT NULL DEFAULT '',
		word_count        INTEGER NOT NULL DEFAULT 0,
		created_at        BIGINT NOT NULL,
		updated_at        BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_podcast ON episodes (podcast_slug, publish_timestamp)`,
	`CREATE TABLE IF NOT EXISTS statements (
		id          TEXT PRIMARY KEY,
		episode_key TEXT NOT NULL,
		speaker     INTEGER NOT NULL,
		start_time  DOUBLE PRECISION NOT NULL,
		end_time    DOUBLE PRECISION NOT NULL,
		words       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_statements_episode ON statements (episode_key, end_time)`,
}

// PostgresDB stores episodes and statements in PostgreSQL
type PostgresDB struct {
	*repository.CommonDB
	db *sql.DB
}

var _ repository.EpisodeDAO = (*PostgresDB)(nil)

// NewPostgresDB opens a PostgreSQL connection. The connection is established lazily.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newPostgresDB(db), nil
}

func newPostgresDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{
		CommonDB: repository.NewCommonDB(db, "postgres", schema),
		db:       db,
	}
}
