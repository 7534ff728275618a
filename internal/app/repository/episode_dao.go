package repository

import (
	"context"

	"github.com/ian97531/boombox/internal/app/model"
)

// EpisodeDAO persists episodes and the statements derived from their transcripts
type EpisodeDAO interface {
	Close() error

	Migrate(ctx context.Context) error

	SaveEpisode(ctx context.Context, episode model.Episode) error

	GetEpisode(ctx context.Context, episodeKey string) (*model.Episode, error)

	ListEpisodes(ctx context.Context, podcastSlug string, limit int) ([]model.Episode, error)

	UpdateStatus(ctx context.Context, episodeKey, status, errorMessage string) error

	// ReplaceStatements swaps all statements of an episode in one transaction.
	ReplaceStatements(ctx context.Context, episodeKey string, statements []model.Statement) error

	// GetStatements returns statements ending at or after startTime, in order.
	GetStatements(ctx context.Context, episodeKey string, startTime float64, limit int) ([]model.Statement, error)
}
