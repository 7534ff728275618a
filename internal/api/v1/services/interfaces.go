package services

import (
	"context"

	"github.com/ian97531/boombox/internal/api/v1/dto"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/temporal/workflows"
)

// TranscriptService defines the interface for stateless transcript operations
type TranscriptService interface {
	Normalize(ctx context.Context, provider string, payload []byte) (*dto.NormalizeResponse, error)
	Merge(ctx context.Context, req *dto.MergeRequest) (*dto.TranscriptResponse, error)
	Stitch(ctx context.Context, req *dto.StitchRequest) (*dto.StitchResponse, error)
	Statements(ctx context.Context, req *dto.StatementsRequest) (*dto.StatementsResponse, error)
}

// EpisodeService defines the interface for stored episodes
type EpisodeService interface {
	ListEpisodes(ctx context.Context, query dto.ListEpisodesQuery) (*dto.ListEpisodesResponse, error)
	GetEpisode(ctx context.Context, key string) (*dto.EpisodeResponse, error)
	GetStatements(ctx context.Context, key string, query dto.StatementsQuery) ([]model.Statement, error)
	ProcessEpisode(ctx context.Context, req *dto.ProcessEpisodeRequest) (*dto.ProcessEpisodeResponse, error)
}

// WorkflowStarter starts episode workflows
type WorkflowStarter interface {
	StartEpisode(ctx context.Context, req workflows.EpisodeWorkflowRequest) (workflowID, runID string, err error)
}
