package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
)

// CommonDB provides shared database functionality
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
	schema       []string
	now          func() time.Time
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance. schema holds the dialect's DDL statements.
func NewCommonDB(db *sql.DB, driverName string, schema []string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
		schema:       schema,
		now:          time.Now,
	}
}

func (c *CommonDB) params(n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = c.placeholders(i + 1)
	}
	return out
}

// Migrate creates the tables if they do not exist
func (c *CommonDB) Migrate(ctx context.Context) error {
	for _, stmt := range c.schema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrapf(apperrors.ErrQueryFailed, "migrate: %v", err)
		}
	}
	return nil
}

// SaveEpisode inserts an episode or updates its mutable columns
func (c *CommonDB) SaveEpisode(ctx context.Context, episode model.Episode) error {
	now := c.now().Unix()
	query := fmt.Sprintf(
		`INSERT INTO episodes (
			episode_key, podcast_slug, episode_slug, publish_timestamp,
			title, status, error_message, word_count, created_at, updated_at
		) VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		ON CONFLICT (episode_key) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			error_message = excluded.error_message,
			word_count = excluded.word_count,
			updated_at = excluded.updated_at`,
		c.params(10)...,
	)

	_, err := c.db.ExecContext(ctx, query,
		episode.Ref.Key(), episode.Ref.PodcastSlug, episode.Ref.EpisodeSlug, episode.Ref.PublishTimestamp,
		episode.Title, episode.Status, episode.ErrorMessage, episode.WordCount, now, now,
	)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInsertFailed, "episode %s: %v", episode.Ref.Key(), err)
	}
	return nil
}

const episodeColumns = `podcast_slug, episode_slug, publish_timestamp, title, status,
		error_message, word_count, created_at, updated_at`

func scanEpisode(scan func(dest ...interface{}) error) (model.Episode, error) {
	var e model.Episode
	var createdAt, updatedAt int64
	err := scan(
		&e.Ref.PodcastSlug,
		&e.Ref.EpisodeSlug,
		&e.Ref.PublishTimestamp,
		&e.Title,
		&e.Status,
		&e.ErrorMessage,
		&e.WordCount,
		&createdAt,
		&updatedAt,
	)
	e.CreatedAt = time.Unix(createdAt, 0)
	e.UpdatedAt = time.Unix(updatedAt, 0)
	return e, err
}

// GetEpisode retrieves one episode by key
func (c *CommonDB) GetEpisode(ctx context.Context, episodeKey string) (*model.Episode, error) {
	query := fmt.Sprintf(`SELECT %s FROM episodes WHERE episode_key = %s`, episodeColumns, c.placeholders(1))

	e, err := scanEpisode(c.db.QueryRowContext(ctx, query, episodeKey).Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("episode", episodeKey)
	}
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "episode %s: %v", episodeKey, err)
	}
	return &e, nil
}

// ListEpisodes lists the most recently published episodes, optionally of one podcast
func (c *CommonDB) ListEpisodes(ctx context.Context, podcastSlug string, limit int) ([]model.Episode, error) {
	var rows *sql.Rows
	var err error
	if podcastSlug == "" {
		query := fmt.Sprintf(`SELECT %s FROM episodes ORDER BY publish_timestamp DESC LIMIT %s`,
			episodeColumns, c.placeholders(1))
		rows, err = c.db.QueryContext(ctx, query, limit)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM episodes WHERE podcast_slug = %s ORDER BY publish_timestamp DESC LIMIT %s`,
			episodeColumns, c.placeholders(1), c.placeholders(2))
		rows, err = c.db.QueryContext(ctx, query, podcastSlug, limit)
	}
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "list episodes: %v", err)
	}
	defer rows.Close()

	var episodes []model.Episode
	for rows.Next() {
		e, err := scanEpisode(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrScanFailed, "episode: %v", err)
		}
		episodes = append(episodes, e)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "rows error: %v", err)
	}
	return episodes, nil
}

// UpdateStatus records the processing state of an episode
func (c *CommonDB) UpdateStatus(ctx context.Context, episodeKey, status, errorMessage string) error {
	query := fmt.Sprintf(
		`UPDATE episodes SET status = %s, error_message = %s, updated_at = %s WHERE episode_key = %s`,
		c.params(4)...,
	)

	res, err := c.db.ExecContext(ctx, query, status, errorMessage, c.now().Unix(), episodeKey)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrQueryFailed, "update episode %s: %v", episodeKey, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrQueryFailed, "update episode %s: %v", episodeKey, err)
	}
	if n == 0 {
		return apperrors.NotFound("episode", episodeKey)
	}
	return nil
}

// ReplaceStatements deletes the statements of an episode and inserts the new set
func (c *CommonDB) ReplaceStatements(ctx context.Context, episodeKey string, statements []model.Statement) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInsertFailed, "begin: %v", err)
	}
	defer tx.Rollback()

	deleteQuery := fmt.Sprintf(`DELETE FROM statements WHERE episode_key = %s`, c.placeholders(1))
	if _, err := tx.ExecContext(ctx, deleteQuery, episodeKey); err != nil {
		return apperrors.Wrapf(apperrors.ErrInsertFailed, "clear statements of %s: %v", episodeKey, err)
	}

	insertQuery := fmt.Sprintf(
		`INSERT INTO statements (id, episode_key, speaker, start_time, end_time, words)
		 VALUES (%s, %s, %s, %s, %s, %s)`,
		c.params(6)...,
	)
	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInsertFailed, "prepare: %v", err)
	}
	defer stmt.Close()

	for _, s := range statements {
		words, err := json.Marshal(s.Words)
		if err != nil {
			return apperrors.Wrapf(apperrors.ErrInsertFailed, "encode statement %s: %v", s.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, s.ID, episodeKey, s.Speaker, s.StartTime, s.EndTime, string(words)); err != nil {
			return apperrors.Wrapf(apperrors.ErrInsertFailed, "statement %s: %v", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrapf(apperrors.ErrInsertFailed, "commit: %v", err)
	}
	return nil
}

// GetStatements returns up to limit statements of an episode ending at or after startTime
func (c *CommonDB) GetStatements(ctx context.Context, episodeKey string, startTime float64, limit int) ([]model.Statement, error) {
	query := fmt.Sprintf(
		`SELECT id, episode_key, speaker, start_time, end_time, words
		 FROM statements
		 WHERE episode_key = %s AND end_time >= %s
		 ORDER BY start_time
		 LIMIT %s`,
		c.params(3)...,
	)

	rows, err := c.db.QueryContext(ctx, query, episodeKey, startTime, limit)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "statements of %s: %v", episodeKey, err)
	}
	defer rows.Close()

	statements := make([]model.Statement, 0)
	for rows.Next() {
		var s model.Statement
		var words string
		if err := rows.Scan(&s.ID, &s.EpisodeKey, &s.Speaker, &s.StartTime, &s.EndTime, &words); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrScanFailed, "statement: %v", err)
		}
		if err := json.Unmarshal([]byte(words), &s.Words); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrScanFailed, "statement %s words: %v", s.ID, err)
		}
		statements = append(statements, s)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "rows error: %v", err)
	}
	return statements, nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
