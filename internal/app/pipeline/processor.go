// Package pipeline moves an episode's transcripts through normalisation, stitching,
// merging and statement extraction, reading and writing every stage in object storage.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/gate"
	"github.com/ian97531/boombox/internal/app/logging"
	"github.com/ian97531/boombox/internal/app/metrics"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/normalize"
	"github.com/ian97531/boombox/internal/app/repository"
	"github.com/ian97531/boombox/internal/app/statement"
	"github.com/ian97531/boombox/internal/app/storage"
	"github.com/ian97531/boombox/internal/app/transcript"
)

// Processor runs pipeline stages against an object store and an episode repository.
type Processor struct {
	store       storage.ObjectStore
	normalizers *normalize.Registry
	dao         repository.EpisodeDAO
	gate        gate.Gate
	metrics     *metrics.Metrics
	opts        transcript.Options
	logger      *zap.Logger
	progress    *ProgressManager
}

func NewProcessor(
	store storage.ObjectStore,
	normalizers *normalize.Registry,
	dao repository.EpisodeDAO,
	g gate.Gate,
	m *metrics.Metrics,
	opts transcript.Options,
	logger *zap.Logger,
) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		store:       store,
		normalizers: normalizers,
		dao:         dao,
		gate:        g,
		metrics:     m,
		opts:        opts,
		logger:      logger,
	}
}

// WithProgress draws progress bars during ProcessEpisode.
func (p *Processor) WithProgress(pm *ProgressManager) *Processor {
	p.progress = pm
	return p
}

// Options returns the engine options the processor aligns with.
func (p *Processor) Options() transcript.Options {
	return p.opts
}

// NormalizeSegment converts the raw output of provider for one segment and stores the items.
func (p *Processor) NormalizeSegment(ctx context.Context, provider, segmentKey string) (result *normalize.Result, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(metrics.OpNormalize, provider, started, itemCount(result), err)
	}()

	if _, err := model.ParseKey(segmentKey); err != nil {
		return nil, err
	}
	normalizer, err := p.normalizers.Get(provider)
	if err != nil {
		return nil, err
	}

	raw, err := p.store.Get(ctx, RawKey(provider, segmentKey))
	if err != nil {
		return nil, err
	}
	result, err = normalizer.Normalize(raw)
	if err != nil {
		return nil, apperrors.Wrapf(err, "normalize %s", segmentKey)
	}
	if err := storage.PutJSON(ctx, p.store, NormalizedKey(provider, segmentKey), result.Items); err != nil {
		return nil, err
	}

	p.logger.Debug("normalized segment",
		zap.String("provider", provider),
		zap.String("segment", segmentKey),
		zap.Int("words", result.Stats.Words),
		zap.Int("punctuation", result.Stats.Punctuation),
	)
	return result, nil
}

func itemCount(result *normalize.Result) int {
	if result == nil {
		return 0
	}
	return len(result.Items)
}

// SegmentKeys lists the normalised segments of an episode for provider.
func (p *Processor) SegmentKeys(ctx context.Context, ep model.EpisodeRef, provider string) ([]string, error) {
	keys, err := p.store.List(ctx, NormalizedPrefix(provider, ep))
	if err != nil {
		return nil, err
	}
	namespace := NormalizedKey(provider, "")
	return lo.Map(keys, func(key string, _ int) string {
		return storage.TrimNamespace(namespace, key)
	}), nil
}

// RawSegmentKeys lists the segments of an episode that provider has delivered.
func (p *Processor) RawSegmentKeys(ctx context.Context, ep model.EpisodeRef, provider string) ([]string, error) {
	keys, err := p.store.List(ctx, RawKey(provider, ep.ObjectKey(""))+"/")
	if err != nil {
		return nil, err
	}
	namespace := RawKey(provider, "")
	return lo.Map(keys, func(key string, _ int) string {
		return storage.TrimNamespace(namespace, key)
	}), nil
}

// DiscoverSegments maps every provider to the raw segments stored for an episode.
func (p *Processor) DiscoverSegments(ctx context.Context, ep model.EpisodeRef) (map[string][]string, error) {
	segments := make(map[string][]string, len(Providers))
	for _, provider := range Providers {
		keys, err := p.RawSegmentKeys(ctx, ep, provider)
		if err != nil {
			return nil, err
		}
		segments[provider] = keys
	}
	return segments, nil
}

// LoadSegments reads normalised segments, placing each at the offset encoded in its key.
func (p *Processor) LoadSegments(ctx context.Context, provider string, segmentKeys []string) ([]*transcript.Transcript, error) {
	segments := make([]*transcript.Transcript, 0, len(segmentKeys))
	for _, key := range segmentKeys {
		info, err := model.ParseKey(key)
		if err != nil {
			return nil, err
		}
		var items []transcript.Item
		if err := storage.GetJSON(ctx, p.store, NormalizedKey(provider, key), &items); err != nil {
			return nil, err
		}
		segments = append(segments, transcript.New(items, info.Offset()))
	}
	return segments, nil
}

// StitchProvider joins the normalised segments of one provider into a single transcript.
func (p *Processor) StitchProvider(ctx context.Context, ep model.EpisodeRef, provider string, segmentKeys []string) (stitched *transcript.Transcript, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(metrics.OpStitch, provider, started, transcriptLen(stitched), err)
	}()

	segments, err := p.LoadSegments(ctx, provider, segmentKeys)
	if err != nil {
		return nil, err
	}

	stitched, seams, err := transcript.StitchSeams(segments, p.opts)
	if err != nil {
		return nil, apperrors.Wrapf(err, "stitch %s transcript of %s", provider, ep.Key())
	}
	if err := storage.PutJSON(ctx, p.store, ProviderKey(provider, ep), stitched.Items()); err != nil {
		return nil, err
	}

	relabelled := lo.CountBy(seams, func(s transcript.Seam) bool { return !s.Speakers.IsIdentity() })
	p.logger.Info("stitched provider transcript",
		append(logging.Episode(ep.Key(), provider),
			zap.Int("segments", len(segments)),
			zap.Int("relabelled_seams", relabelled),
			zap.Int("items", stitched.Len()),
			zap.Duration("duration", time.Since(started)),
		)...,
	)
	return stitched, nil
}

func transcriptLen(t *transcript.Transcript) int {
	if t == nil {
		return 0
	}
	return t.Len()
}

// MergeProviders reconciles the stitched transcripts of both providers.
func (p *Processor) MergeProviders(ctx context.Context, ep model.EpisodeRef) (merged *transcript.Transcript, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(metrics.OpMerge, "", started, transcriptLen(merged), err)
	}()

	sides := make([]*transcript.Transcript, len(Providers))
	for i, provider := range Providers {
		var items []transcript.Item
		if err := storage.GetJSON(ctx, p.store, ProviderKey(provider, ep), &items); err != nil {
			return nil, err
		}
		sides[i] = transcript.New(items, 0)
	}

	merged, err = transcript.Merge(sides[0], sides[1], p.opts)
	if err != nil {
		return nil, apperrors.Wrapf(err, "merge transcripts of %s", ep.Key())
	}
	if err := storage.PutJSON(ctx, p.store, CombinedKey(ep), merged.Items()); err != nil {
		return nil, err
	}

	p.logger.Info("merged provider transcripts",
		append(logging.Episode(ep.Key(), ""),
			zap.Int("left_items", sides[0].Len()),
			zap.Int("right_items", sides[1].Len()),
			zap.Int("items", merged.Len()),
			zap.Duration("duration", time.Since(started)),
		)...,
	)
	return merged, nil
}

// InsertStatements builds statements from the combined transcript and replaces the
// episode's stored statements.
func (p *Processor) InsertStatements(ctx context.Context, ep model.EpisodeRef) (statements []model.Statement, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(metrics.OpStatements, "", started, len(statements), err)
	}()

	var items []transcript.Item
	if err := storage.GetJSON(ctx, p.store, CombinedKey(ep), &items); err != nil {
		return nil, err
	}

	statements = statement.Build(ep.Key(), items)
	if err := p.dao.ReplaceStatements(ctx, ep.Key(), statements); err != nil {
		return nil, err
	}

	episode, err := p.episode(ctx, ep)
	if err != nil {
		return nil, err
	}
	episode.Status = model.StatusComplete
	episode.ErrorMessage = ""
	episode.WordCount = len(items)
	if err := p.dao.SaveEpisode(ctx, *episode); err != nil {
		return nil, err
	}

	p.logger.Info("inserted statements",
		append(logging.Episode(ep.Key(), ""), zap.Int("statements", len(statements)))...)
	return statements, nil
}

// episode loads the stored episode or starts a new pending one.
func (p *Processor) episode(ctx context.Context, ep model.EpisodeRef) (*model.Episode, error) {
	episode, err := p.dao.GetEpisode(ctx, ep.Key())
	if apperrors.Is(err, apperrors.ErrObjectNotFound) {
		return &model.Episode{Ref: ep, Status: model.StatusPending}, nil
	}
	return episode, err
}

// Register records a pending episode, keeping the title of an existing one when title is empty.
func (p *Processor) Register(ctx context.Context, ep model.EpisodeRef, title string) error {
	episode, err := p.episode(ctx, ep)
	if err != nil {
		return err
	}
	if title != "" {
		episode.Title = title
	}
	episode.Status = model.StatusPending
	episode.ErrorMessage = ""
	return p.dao.SaveEpisode(ctx, *episode)
}

// MarkFailed records err on the episode. A failure to record is logged, not returned.
func (p *Processor) MarkFailed(ctx context.Context, ep model.EpisodeRef, cause error) {
	if err := p.dao.UpdateStatus(ctx, ep.Key(), model.StatusFailed, cause.Error()); err != nil {
		p.logger.Error("failed to record episode failure",
			append(logging.Episode(ep.Key(), ""), zap.Error(err))...)
	}
}

// ProcessEpisode runs every stage for an episode. segments maps each provider to its
// segment keys; both providers are required.
func (p *Processor) ProcessEpisode(ctx context.Context, ep model.EpisodeRef, segments map[string][]string) ([]model.Statement, error) {
	for _, provider := range Providers {
		if len(segments[provider]) == 0 {
			return nil, apperrors.RequiredField(fmt.Sprintf("segments for %s", provider))
		}
	}

	if err := p.Register(ctx, ep, ""); err != nil {
		return nil, err
	}
	if err := p.gate.Reset(ctx, ep.Key()); err != nil {
		return nil, err
	}

	statements, err := p.process(ctx, ep, segments)
	if err != nil {
		p.MarkFailed(ctx, ep, err)
		p.logger.Error("episode failed", append(logging.Episode(ep.Key(), ""), zap.Error(err))...)
		return nil, err
	}
	return statements, nil
}

func (p *Processor) process(ctx context.Context, ep model.EpisodeRef, segments map[string][]string) ([]model.Statement, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		errs  []error
		ready bool
	)

	for _, provider := range Providers {
		wg.Add(1)
		go func(provider string) {
			defer wg.Done()
			done, err := p.processProvider(ctx, ep, provider, segments[provider])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			ready = ready || done
		}(provider)
	}
	wg.Wait()

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return nil, errs[0]
	}
	if !ready {
		return nil, apperrors.Newf("episode %s: not every provider was stitched", ep.Key())
	}
	if err := p.dao.UpdateStatus(ctx, ep.Key(), model.StatusStitched, ""); err != nil {
		return nil, err
	}

	if _, err := p.MergeProviders(ctx, ep); err != nil {
		return nil, err
	}
	if err := p.dao.UpdateStatus(ctx, ep.Key(), model.StatusMerged, ""); err != nil {
		return nil, err
	}
	return p.InsertStatements(ctx, ep)
}

// processProvider normalises and stitches one provider's segments. It reports whether
// this provider was the last one the episode waited for.
func (p *Processor) processProvider(ctx context.Context, ep model.EpisodeRef, provider string, segmentKeys []string) (bool, error) {
	bar := p.progress.CreateBar(len(segmentKeys)+1, fmt.Sprintf("%s %s", ep.Key(), provider))

	complete := false
	for _, key := range segmentKeys {
		if _, err := p.NormalizeSegment(ctx, provider, key); err != nil {
			bar.Abort()
			return false, err
		}
		done, err := p.gate.RecordSegment(ctx, ep.Key(), provider, key, len(segmentKeys))
		if err != nil {
			bar.Abort()
			return false, err
		}
		complete = done
		bar.Increment()
	}
	if !complete {
		bar.Abort()
		return false, apperrors.Newf("episode %s: %s segments incomplete", ep.Key(), provider)
	}

	if _, err := p.StitchProvider(ctx, ep, provider, segmentKeys); err != nil {
		bar.Abort()
		return false, err
	}
	bar.Complete()

	return p.gate.RecordProvider(ctx, ep.Key(), provider)
}
