package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/pipeline"
	"github.com/ian97531/boombox/internal/app/temporal/activities"
)

const (
	DefaultActivityTimeout = 10 * time.Minute
	DefaultMaxAttempts     = 3
)

// EpisodeWorkflowRequest names the raw segments of every provider for one episode
type EpisodeWorkflowRequest struct {
	Episode  model.EpisodeRef    `json:"episode"`
	Title    string              `json:"title"`
	Segments map[string][]string `json:"segments"`

	ActivityTimeout time.Duration `json:"activity_timeout,omitempty"`
	MaxAttempts     int32         `json:"max_attempts,omitempty"`
}

// EpisodeWorkflowResult summarises a processed episode
type EpisodeWorkflowResult struct {
	EpisodeKey     string        `json:"episode_key"`
	Items          int           `json:"items"`
	Statements     int           `json:"statements"`
	ProcessingTime time.Duration `json:"processing_time"`
	Error          string        `json:"error,omitempty"`
}

// WorkflowID is the id an episode's workflow runs under, so one episode runs at most once at a time.
func WorkflowID(ep model.EpisodeRef) string {
	return "episode-" + ep.Key()
}

func activityOptions(req EpisodeWorkflowRequest) workflow.ActivityOptions {
	timeout := req.ActivityTimeout
	if timeout <= 0 {
		timeout = DefaultActivityTimeout
	}
	attempts := req.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        time.Minute,
			MaximumAttempts:        attempts,
			NonRetryableErrorTypes: []string{activities.DataErrorType},
		},
	}
}

// EpisodeWorkflow normalises every segment, stitches each provider, merges the providers
// and stores the resulting statements. Segments and providers run in parallel.
func EpisodeWorkflow(ctx workflow.Context, req EpisodeWorkflowRequest) (EpisodeWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting episode workflow", "episode", req.Episode.Key())

	startTime := workflow.Now(ctx)
	ctx = workflow.WithActivityOptions(ctx, activityOptions(req))
	result := EpisodeWorkflowResult{EpisodeKey: req.Episode.Key()}

	fail := func(err error) (EpisodeWorkflowResult, error) {
		logger.Error("Episode workflow failed", "episode", req.Episode.Key(), "error", err)
		result.Error = err.Error()
		_ = workflow.ExecuteActivity(ctx, "MarkEpisodeFailed", activities.FailureRequest{
			Episode: req.Episode,
			Message: err.Error(),
		}).Get(ctx, nil)
		return result, err
	}

	for _, provider := range pipeline.Providers {
		if len(req.Segments[provider]) == 0 {
			return result, temporal.NewNonRetryableApplicationError(
				"no segments for "+provider, activities.DataErrorType, nil)
		}
	}

	err := workflow.ExecuteActivity(ctx, "RegisterEpisode", activities.RegisterRequest{
		Episode: req.Episode,
		Title:   req.Title,
	}).Get(ctx, nil)
	if err != nil {
		return fail(err)
	}

	type pending struct {
		provider string
		future   workflow.Future
	}

	var normalizing []pending
	for _, provider := range pipeline.Providers {
		keys := req.Segments[provider]
		for _, key := range keys {
			normalizing = append(normalizing, pending{
				provider: provider,
				future: workflow.ExecuteActivity(ctx, "NormalizeSegment", activities.SegmentRequest{
					Episode:    req.Episode,
					Provider:   provider,
					SegmentKey: key,
					Expected:   len(keys),
				}),
			})
		}
	}

	complete := map[string]bool{}
	for _, p := range normalizing {
		var segment activities.SegmentResult
		if err := p.future.Get(ctx, &segment); err != nil {
			return fail(err)
		}
		complete[p.provider] = complete[p.provider] || segment.Complete
	}
	for _, provider := range pipeline.Providers {
		if !complete[provider] {
			return fail(apperrors.Newf("%s segments incomplete", provider))
		}
	}

	var stitching []pending
	for _, provider := range pipeline.Providers {
		stitching = append(stitching, pending{
			provider: provider,
			future: workflow.ExecuteActivity(ctx, "StitchProvider", activities.StitchRequest{
				Episode:     req.Episode,
				Provider:    provider,
				SegmentKeys: req.Segments[provider],
			}),
		})
	}

	ready := false
	for _, p := range stitching {
		var stitched activities.StitchResult
		if err := p.future.Get(ctx, &stitched); err != nil {
			return fail(err)
		}
		logger.Info("Provider stitched", "episode", req.Episode.Key(), "provider", p.provider, "items", stitched.Items)
		ready = ready || stitched.Ready
	}
	if !ready {
		return fail(apperrors.New("not every provider was stitched"))
	}

	if err := workflow.ExecuteActivity(ctx, "MergeProviders", req.Episode).Get(ctx, &result.Items); err != nil {
		return fail(err)
	}
	if err := workflow.ExecuteActivity(ctx, "InsertStatements", req.Episode).Get(ctx, &result.Statements); err != nil {
		return fail(err)
	}

	result.ProcessingTime = workflow.Now(ctx).Sub(startTime)
	logger.Info("Episode workflow completed",
		"episode", req.Episode.Key(),
		"items", result.Items,
		"statements", result.Statements,
		"duration", result.ProcessingTime)
	return result, nil
}
