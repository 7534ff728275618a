package dto

import (
	"time"

	"github.com/samber/lo"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/transcript"
)

// StatementsRequest represents the request body for grouping a transcript into statements
type StatementsRequest struct {
	EpisodeKey string            `json:"episode_key" binding:"required"`
	Items      []transcript.Item `json:"items" binding:"required"`
}

// Validate checks item timing
func (r *StatementsRequest) Validate() error {
	return validateItems("items", r.Items)
}

// StatementResponse is a statement with its text joined
type StatementResponse struct {
	model.Statement
	Text string `json:"text"`
}

// StatementsResponse represents a list of statements
type StatementsResponse struct {
	Statements []StatementResponse `json:"statements"`
	Count      int                 `json:"count"`
}

// NewStatementsResponse converts statements to their response form
func NewStatementsResponse(statements []model.Statement) StatementsResponse {
	out := lo.Map(statements, func(s model.Statement, _ int) StatementResponse {
		return StatementResponse{Statement: s, Text: s.Text()}
	})
	return StatementsResponse{Statements: out, Count: len(out)}
}

// StatementsQuery represents query parameters for reading an episode's statements
type StatementsQuery struct {
	Start  float64 `form:"start" binding:"gte=0"`
	Limit  int     `form:"limit" binding:"omitempty,min=1,max=1000"`
	Format string  `form:"format" binding:"omitempty,oneof=json xlsx"`
}

// ListEpisodesQuery represents query parameters for listing episodes
type ListEpisodesQuery struct {
	Podcast string `form:"podcast"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// EpisodeResponse represents an episode in API responses
type EpisodeResponse struct {
	Key              string    `json:"key"`
	PodcastSlug      string    `json:"podcast_slug"`
	EpisodeSlug      string    `json:"episode_slug"`
	PublishTimestamp int64     `json:"publish_timestamp"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	WordCount        int       `json:"word_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEpisodeResponse converts an episode to its response form
func NewEpisodeResponse(e model.Episode) EpisodeResponse {
	return EpisodeResponse{
		Key:              e.Ref.Key(),
		PodcastSlug:      e.Ref.PodcastSlug,
		EpisodeSlug:      e.Ref.EpisodeSlug,
		PublishTimestamp: e.Ref.PublishTimestamp,
		Title:            e.Title,
		Status:           e.Status,
		ErrorMessage:     e.ErrorMessage,
		WordCount:        e.WordCount,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ListEpisodesResponse represents a list of episodes
type ListEpisodesResponse struct {
	Episodes []EpisodeResponse `json:"episodes"`
	Count    int               `json:"count"`
}

// ProcessEpisodeRequest starts the processing workflow for an episode
type ProcessEpisodeRequest struct {
	Episode  model.EpisodeRef    `json:"episode"`
	Title    string              `json:"title"`
	Segments map[string][]string `json:"segments" binding:"required"`
}

// Validate requires an identified episode and segments from both providers
func (r *ProcessEpisodeRequest) Validate() error {
	if r.Episode.PodcastSlug == "" {
		return apperrors.RequiredField("episode.podcast_slug")
	}
	if r.Episode.PublishTimestamp <= 0 {
		return apperrors.InvalidField("episode.publish_timestamp", "must be positive")
	}
	for _, provider := range []string{model.ProviderWatson, model.ProviderAWS} {
		if len(r.Segments[provider]) == 0 {
			return apperrors.RequiredField("segments." + provider)
		}
	}
	return nil
}

// ProcessEpisodeResponse identifies the started workflow
type ProcessEpisodeResponse struct {
	EpisodeKey string `json:"episode_key"`
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}
