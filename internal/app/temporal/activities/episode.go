package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/gate"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/pipeline"
)

// DataErrorType marks failures caused by transcript content. They are never retried.
const DataErrorType = "TranscriptDataError"

// RegisterRequest starts tracking an episode
type RegisterRequest struct {
	Episode model.EpisodeRef `json:"episode"`
	Title   string           `json:"title"`
}

// SegmentRequest names one provider segment to normalise
type SegmentRequest struct {
	Episode    model.EpisodeRef `json:"episode"`
	Provider   string           `json:"provider"`
	SegmentKey string           `json:"segment_key"`
	Expected   int              `json:"expected"`
}

// SegmentResult reports a normalised segment and whether it was the provider's last
type SegmentResult struct {
	Words       int  `json:"words"`
	Punctuation int  `json:"punctuation"`
	Complete    bool `json:"complete"`
}

// StitchRequest names the segments of one provider. Empty SegmentKeys stitches every
// normalised segment found in storage.
type StitchRequest struct {
	Episode     model.EpisodeRef `json:"episode"`
	Provider    string           `json:"provider"`
	SegmentKeys []string         `json:"segment_keys"`
}

// StitchResult reports a stitched provider transcript and whether every provider is now stitched
type StitchResult struct {
	Items int  `json:"items"`
	Ready bool `json:"ready"`
}

// FailureRequest records why an episode failed
type FailureRequest struct {
	Episode model.EpisodeRef `json:"episode"`
	Message string           `json:"message"`
}

// EpisodeActivities exposes the pipeline stages as Temporal activities
type EpisodeActivities struct {
	processor *pipeline.Processor
	gate      gate.Gate
}

func NewEpisodeActivities(processor *pipeline.Processor, g gate.Gate) *EpisodeActivities {
	return &EpisodeActivities{processor: processor, gate: g}
}

// activityError stops retries for errors no retry can fix.
func activityError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsDataError(err) {
		return temporal.NewNonRetryableApplicationError(err.Error(), DataErrorType, err)
	}
	return err
}

// RegisterEpisode records the episode as pending and clears its gate
func (a *EpisodeActivities) RegisterEpisode(ctx context.Context, req RegisterRequest) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Registering episode", "episode", req.Episode.Key())

	if err := a.processor.Register(ctx, req.Episode, req.Title); err != nil {
		return err
	}
	return a.gate.Reset(ctx, req.Episode.Key())
}

// NormalizeSegment normalises one raw provider segment
func (a *EpisodeActivities) NormalizeSegment(ctx context.Context, req SegmentRequest) (SegmentResult, error) {
	logger := activity.GetLogger(ctx)

	result, err := a.processor.NormalizeSegment(ctx, req.Provider, req.SegmentKey)
	if err != nil {
		logger.Error("Failed to normalize segment", "segment", req.SegmentKey, "provider", req.Provider, "error", err)
		return SegmentResult{}, activityError(err)
	}

	complete, err := a.gate.RecordSegment(ctx, req.Episode.Key(), req.Provider, req.SegmentKey, req.Expected)
	if err != nil {
		return SegmentResult{}, err
	}

	return SegmentResult{
		Words:       result.Stats.Words,
		Punctuation: result.Stats.Punctuation,
		Complete:    complete,
	}, nil
}

// StitchProvider stitches the normalised segments of one provider
func (a *EpisodeActivities) StitchProvider(ctx context.Context, req StitchRequest) (StitchResult, error) {
	logger := activity.GetLogger(ctx)
	activity.RecordHeartbeat(ctx, fmt.Sprintf("stitching %s", req.Provider))

	keys := req.SegmentKeys
	if len(keys) == 0 {
		var err error
		if keys, err = a.processor.SegmentKeys(ctx, req.Episode, req.Provider); err != nil {
			return StitchResult{}, err
		}
	}

	stitched, err := a.processor.StitchProvider(ctx, req.Episode, req.Provider, keys)
	if err != nil {
		logger.Error("Failed to stitch provider transcript", "episode", req.Episode.Key(), "provider", req.Provider, "error", err)
		return StitchResult{}, activityError(err)
	}

	ready, err := a.gate.RecordProvider(ctx, req.Episode.Key(), req.Provider)
	if err != nil {
		return StitchResult{}, err
	}
	return StitchResult{Items: stitched.Len(), Ready: ready}, nil
}

// MergeProviders merges the stitched transcripts of both providers
func (a *EpisodeActivities) MergeProviders(ctx context.Context, ep model.EpisodeRef) (int, error) {
	activity.RecordHeartbeat(ctx, "merging")

	merged, err := a.processor.MergeProviders(ctx, ep)
	if err != nil {
		activity.GetLogger(ctx).Error("Failed to merge transcripts", "episode", ep.Key(), "error", err)
		return 0, activityError(err)
	}
	return merged.Len(), nil
}

// InsertStatements stores the statements of the merged transcript
func (a *EpisodeActivities) InsertStatements(ctx context.Context, ep model.EpisodeRef) (int, error) {
	statements, err := a.processor.InsertStatements(ctx, ep)
	if err != nil {
		return 0, activityError(err)
	}
	return len(statements), nil
}

// MarkEpisodeFailed records a workflow failure on the episode
func (a *EpisodeActivities) MarkEpisodeFailed(ctx context.Context, req FailureRequest) error {
	a.processor.MarkFailed(ctx, req.Episode, apperrors.New(req.Message))
	return nil
}
