package common

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	appconfig "github.com/ian97531/boombox/internal/app/config"
	"github.com/ian97531/boombox/internal/app/logging"
	"github.com/ian97531/boombox/internal/app/temporal/workflows"
)

// NewTemporalClient creates a new Temporal client with the given configuration
func NewTemporalClient(config appconfig.TemporalConfig, logger *zap.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  config.HostPort,
		Namespace: config.Namespace,
		Logger:    logging.NewTemporalLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}

// StartEpisodeWorkflow starts the episode workflow, applying the configured activity limits
func StartEpisodeWorkflow(ctx context.Context, c client.Client, config appconfig.TemporalConfig, req workflows.EpisodeWorkflowRequest) (client.WorkflowRun, error) {
	if req.ActivityTimeout == 0 {
		req.ActivityTimeout = config.ActivityTimeout
	}
	if req.MaxAttempts == 0 {
		req.MaxAttempts = config.MaxAttempts
	}

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        workflows.WorkflowID(req.Episode),
		TaskQueue: config.TaskQueue,
	}, workflows.EpisodeWorkflow, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow for %s: %w", req.Episode.Key(), err)
	}
	return run, nil
}
