package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestSQLiteEpisodeLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ref := model.EpisodeRef{PodcastSlug: "podcast", EpisodeSlug: "pilot", PublishTimestamp: 1500000000}

	require.NoError(t, db.SaveEpisode(ctx, model.Episode{Ref: ref, Title: "Pilot", Status: model.StatusPending}))
	require.NoError(t, db.SaveEpisode(ctx, model.Episode{Ref: ref, Title: "Pilot (remastered)", Status: model.StatusStitched, WordCount: 10}))

	episode, err := db.GetEpisode(ctx, ref.Key())
	require.NoError(t, err)
	assert.Equal(t, ref, episode.Ref)
	assert.Equal(t, "Pilot (remastered)", episode.Title)
	assert.Equal(t, model.StatusStitched, episode.Status)
	assert.Equal(t, 10, episode.WordCount)

	require.NoError(t, db.UpdateStatus(ctx, ref.Key(), model.StatusFailed, "unalignable overlap"))
	episode, err = db.GetEpisode(ctx, ref.Key())
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, episode.Status)
	assert.Equal(t, "unalignable overlap", episode.ErrorMessage)

	err = db.UpdateStatus(ctx, "missing_1", model.StatusComplete, "")
	assert.True(t, errors.Is(err, apperrors.ErrObjectNotFound))

	_, err = db.GetEpisode(ctx, "missing_1")
	assert.True(t, errors.Is(err, apperrors.ErrObjectNotFound))
}

func TestSQLiteListEpisodes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i, slug := range []string{"one", "two", "three"} {
		ref := model.EpisodeRef{PodcastSlug: "podcast", EpisodeSlug: slug, PublishTimestamp: int64(i + 1)}
		require.NoError(t, db.SaveEpisode(ctx, model.Episode{Ref: ref, Status: model.StatusPending}))
	}
	other := model.EpisodeRef{PodcastSlug: "other", EpisodeSlug: "x", PublishTimestamp: 99}
	require.NoError(t, db.SaveEpisode(ctx, model.Episode{Ref: other, Status: model.StatusPending}))

	episodes, err := db.ListEpisodes(ctx, "podcast", 2)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "three", episodes[0].Ref.EpisodeSlug)
	assert.Equal(t, "two", episodes[1].Ref.EpisodeSlug)

	all, err := db.ListEpisodes(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "other", all[0].Ref.PodcastSlug)
}

func TestSQLiteStatements(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	statements := []model.Statement{
		{ID: "a", Speaker: 0, StartTime: 0, EndTime: 10, Words: []model.StatementWord{{Content: "First.", StartTime: 0, EndTime: 10}}},
		{ID: "b", Speaker: 1, StartTime: 10, EndTime: 20, Words: []model.StatementWord{{Content: "Second.", StartTime: 10, EndTime: 20}}},
		{ID: "c", Speaker: 0, StartTime: 20, EndTime: 30, Words: []model.StatementWord{{Content: "Third.", StartTime: 20, EndTime: 30}}},
	}
	require.NoError(t, db.ReplaceStatements(ctx, "podcast_1", statements))

	got, err := db.GetStatements(ctx, "podcast_1", 15, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "podcast_1", got[0].EpisodeKey)
	assert.Equal(t, "Second.", got[0].Text())

	got, err = db.GetStatements(ctx, "podcast_1", 0, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	// replacing drops the previous set
	require.NoError(t, db.ReplaceStatements(ctx, "podcast_1", statements[:1]))
	got, err = db.GetStatements(ctx, "podcast_1", 0, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = db.GetStatements(ctx, "unknown_1", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Migrate(context.Background()))
}
