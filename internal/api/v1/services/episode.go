package services

import (
	"context"

	"go.temporal.io/sdk/client"

	"github.com/ian97531/boombox/internal/api/errors"
	"github.com/ian97531/boombox/internal/api/v1/dto"
	appconfig "github.com/ian97531/boombox/internal/app/config"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/repository"
	"github.com/ian97531/boombox/internal/app/temporal/pkg/common"
	"github.com/ian97531/boombox/internal/app/temporal/workflows"
)

const (
	defaultEpisodeLimit   = 50
	defaultStatementLimit = 200
)

// EpisodeServiceImpl implements EpisodeService
type EpisodeServiceImpl struct {
	repo    repository.EpisodeDAO
	starter WorkflowStarter
}

// NewEpisodeService creates a new episode service. starter may be nil, in which case
// ProcessEpisode reports the workflow engine as unavailable.
func NewEpisodeService(repo repository.EpisodeDAO, starter WorkflowStarter) EpisodeService {
	return &EpisodeServiceImpl{
		repo:    repo,
		starter: starter,
	}
}

// ListEpisodes returns episodes, newest first
func (s *EpisodeServiceImpl) ListEpisodes(ctx context.Context, query dto.ListEpisodesQuery) (*dto.ListEpisodesResponse, error) {
	if query.Limit == 0 {
		query.Limit = defaultEpisodeLimit
	}

	episodes, err := s.repo.ListEpisodes(ctx, query.Podcast, query.Limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListEpisodesResponse{Episodes: make([]dto.EpisodeResponse, 0, len(episodes))}
	for _, e := range episodes {
		resp.Episodes = append(resp.Episodes, dto.NewEpisodeResponse(e))
	}
	resp.Count = len(resp.Episodes)
	return resp, nil
}

// GetEpisode returns one episode
func (s *EpisodeServiceImpl) GetEpisode(ctx context.Context, key string) (*dto.EpisodeResponse, error) {
	episode, err := s.repo.GetEpisode(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEpisodeResponse(*episode)
	return &resp, nil
}

// GetStatements returns the stored statements of an episode from query.Start on
func (s *EpisodeServiceImpl) GetStatements(ctx context.Context, key string, query dto.StatementsQuery) ([]model.Statement, error) {
	if _, err := s.repo.GetEpisode(ctx, key); err != nil {
		return nil, err
	}
	if query.Limit == 0 {
		query.Limit = defaultStatementLimit
	}
	return s.repo.GetStatements(ctx, key, query.Start, query.Limit)
}

// ProcessEpisode starts the episode workflow
func (s *EpisodeServiceImpl) ProcessEpisode(ctx context.Context, req *dto.ProcessEpisodeRequest) (*dto.ProcessEpisodeResponse, error) {
	if s.starter == nil {
		return nil, errors.NewServiceUnavailableError("workflow engine is not configured")
	}

	workflowID, runID, err := s.starter.StartEpisode(ctx, workflows.EpisodeWorkflowRequest{
		Episode:  req.Episode,
		Title:    req.Title,
		Segments: req.Segments,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProcessEpisodeResponse{
		EpisodeKey: req.Episode.Key(),
		WorkflowID: workflowID,
		RunID:      runID,
	}, nil
}

// TemporalStarter starts episode workflows on a Temporal cluster
type TemporalStarter struct {
	client client.Client
	config appconfig.TemporalConfig
}

// NewTemporalStarter creates a starter using the configured task queue and limits
func NewTemporalStarter(c client.Client, config appconfig.TemporalConfig) *TemporalStarter {
	return &TemporalStarter{client: c, config: config}
}

// StartEpisode implements WorkflowStarter
func (s *TemporalStarter) StartEpisode(ctx context.Context, req workflows.EpisodeWorkflowRequest) (string, string, error) {
	run, err := common.StartEpisodeWorkflow(ctx, s.client, s.config, req)
	if err != nil {
		return "", "", err
	}
	return run.GetID(), run.GetRunID(), nil
}
