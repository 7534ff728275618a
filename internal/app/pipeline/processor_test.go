package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/gate"
	"github.com/ian97531/boombox/internal/app/metrics"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/normalize"
	"github.com/ian97531/boombox/internal/app/storage"
	"github.com/ian97531/boombox/internal/app/testutil"
	"github.com/ian97531/boombox/internal/app/transcript"
)

type fixture struct {
	processor *Processor
	store     *storage.MemoryStore
	dao       *testutil.MockEpisodeDAO
	keys      map[string][]string
}

func newFixture(t *testing.T, words []testutil.FixtureWord) *fixture {
	store := storage.NewMemoryStore()
	dao := testutil.NewMockEpisodeDAO()
	segments := testutil.SplitSegments(words, 40, 25)
	keys := testutil.SeedRawSegments(t, store, testutil.TestEpisode, segments, RawKey)

	p := NewProcessor(store, normalize.NewRegistry(), dao, gate.NewMemoryGate(Providers),
		metrics.New(), transcript.DefaultOptions(), zaptest.NewLogger(t))
	return &fixture{processor: p, store: store, dao: dao, keys: keys}
}

func TestKeys(t *testing.T) {
	ep := testutil.TestEpisode
	segment := ep.SegmentKey("json", 1800)

	assert.Equal(t, "raw/aws/hello-internet/1530000000_h-i-100/1800.json", RawKey(model.ProviderAWS, segment))
	assert.Equal(t, "normalized/watson/hello-internet/1530000000_h-i-100/1800.json", NormalizedKey(model.ProviderWatson, segment))
	assert.Equal(t, "normalized/aws/hello-internet/1530000000_h-i-100/", NormalizedPrefix(model.ProviderAWS, ep))
	assert.Equal(t, "aws/hello-internet_1530000000.json", ProviderKey(model.ProviderAWS, ep))
	assert.Equal(t, "combined/hello-internet_1530000000.json", CombinedKey(ep))
}

func TestNormalizeSegment(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(65))
	ctx := context.Background()
	key := f.keys[model.ProviderAWS][1]

	result, err := f.processor.NormalizeSegment(ctx, model.ProviderAWS, key)
	require.NoError(t, err)
	assert.Equal(t, 40, result.Stats.Words)

	var items []transcript.Item
	require.NoError(t, storage.GetJSON(ctx, f.store, NormalizedKey(model.ProviderAWS, key), &items))
	require.Len(t, items, 40)
	assert.Equal(t, "w25", items[0].Word)
	assert.InDelta(t, 0.0, items[0].StartTime, 1e-9, "normalised items keep segment-relative times")

	keys, err := f.processor.SegmentKeys(ctx, testutil.TestEpisode, model.ProviderAWS)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestNormalizeSegmentErrors(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(65))
	ctx := context.Background()

	_, err := f.processor.NormalizeSegment(ctx, "google", f.keys[model.ProviderAWS][0])
	assert.Error(t, err)

	_, err = f.processor.NormalizeSegment(ctx, model.ProviderAWS, "not-a-key")
	assert.Error(t, err)

	missing := testutil.TestEpisode.SegmentKey("json", 9999)
	_, err = f.processor.NormalizeSegment(ctx, model.ProviderAWS, missing)
	assert.True(t, errors.Is(err, apperrors.ErrObjectNotFound))

	bad := testutil.TestEpisode.SegmentKey("json", 50)
	require.NoError(t, f.store.Put(ctx, RawKey(model.ProviderAWS, bad), []byte("{"), "application/json"))
	_, err = f.processor.NormalizeSegment(ctx, model.ProviderAWS, bad)
	assert.True(t, apperrors.IsDataError(err))
}

func TestProcessEpisode(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(65))
	ctx := context.Background()
	ep := testutil.TestEpisode

	statements, err := f.processor.ProcessEpisode(ctx, ep, f.keys)
	require.NoError(t, err)

	for _, provider := range Providers {
		var items []transcript.Item
		require.NoError(t, storage.GetJSON(ctx, f.store, ProviderKey(provider, ep), &items))
		require.Len(t, items, 65, provider)
		assert.Equal(t, "w64", items[64].Word)
		assert.InDelta(t, 64.0, items[64].StartTime, 1e-9)
	}

	var combined []transcript.Item
	require.NoError(t, storage.GetJSON(ctx, f.store, CombinedKey(ep), &combined))
	assert.Len(t, combined, 65)

	require.Len(t, statements, 13)
	assert.Equal(t, "W0 w1 w2 w3 w4.", statements[0].Text())
	assert.Equal(t, 0, statements[0].Speaker)
	assert.Equal(t, 1, statements[1].Speaker)

	episode, err := f.dao.GetEpisode(ctx, ep.Key())
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, episode.Status)
	assert.Equal(t, 65, episode.WordCount)

	stored, err := f.dao.GetStatements(ctx, ep.Key(), 60, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, statements[12].ID, stored[0].ID)
}

func TestProcessEpisodeIsRepeatable(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(65))
	ctx := context.Background()

	first, err := f.processor.ProcessEpisode(ctx, testutil.TestEpisode, f.keys)
	require.NoError(t, err)
	second, err := f.processor.ProcessEpisode(ctx, testutil.TestEpisode, f.keys)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}

func TestProcessEpisodeRecordsFailure(t *testing.T) {
	words := testutil.EpisodeWords(65)
	f := newFixture(t, words)
	ctx := context.Background()
	ep := testutil.TestEpisode

	// the second watson segment shares no words with the first
	late := f.keys[model.ProviderWatson][1]
	unrelated := make([]testutil.FixtureWord, 40)
	for i := range unrelated {
		unrelated[i] = testutil.FixtureWord{Content: "zz", Start: float64(i), End: float64(i) + 0.9, Confidence: 0.5}
	}
	require.NoError(t, f.store.Put(ctx, RawKey(model.ProviderWatson, late), testutil.WatsonPayload(unrelated), "application/json"))

	_, err := f.processor.ProcessEpisode(ctx, ep, f.keys)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnalignableOverlap))

	var seamErr *transcript.SeamError
	require.True(t, errors.As(err, &seamErr))
	assert.Equal(t, 25.0, seamErr.RightOffset)
	assert.Contains(t, err.Error(), ep.Key())

	episode, err := f.dao.GetEpisode(ctx, ep.Key())
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, episode.Status)
	assert.NotEmpty(t, episode.ErrorMessage)

	exists, err := f.store.Exists(ctx, CombinedKey(ep))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProcessEpisodeRequiresBothProviders(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(65))

	_, err := f.processor.ProcessEpisode(context.Background(), testutil.TestEpisode,
		map[string][]string{model.ProviderAWS: f.keys[model.ProviderAWS]})
	require.Error(t, err)
	assert.Equal(t, 0, f.dao.Calls("SaveEpisode"))
}

func TestInsertStatementsKeepsTitle(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(10))
	ctx := context.Background()
	ep := testutil.TestEpisode

	require.NoError(t, f.processor.Register(ctx, ep, "H.I. #100"))
	items := transcript.New(nil, 0)
	require.NoError(t, storage.PutJSON(ctx, f.store, CombinedKey(ep), items.Items()))

	statements, err := f.processor.InsertStatements(ctx, ep)
	require.NoError(t, err)
	assert.Empty(t, statements)

	episode, err := f.dao.GetEpisode(ctx, ep.Key())
	require.NoError(t, err)
	assert.Equal(t, "H.I. #100", episode.Title)
	assert.Equal(t, model.StatusComplete, episode.Status)
}

func TestInsertStatementsRepositoryFailure(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(10))
	ctx := context.Background()
	ep := testutil.TestEpisode
	require.NoError(t, storage.PutJSON(ctx, f.store, CombinedKey(ep), []transcript.Item{}))

	f.dao.SetError("ReplaceStatements", errors.New("database is locked"))
	_, err := f.processor.InsertStatements(ctx, ep)
	assert.EqualError(t, err, "database is locked")
}

func TestProgressDisabled(t *testing.T) {
	pm := NewProgressManager(ProgressConfig{Enabled: false})
	bar := pm.CreateBar(3, "aws")
	assert.NotPanics(t, func() {
		bar.Increment()
		bar.Complete()
		bar.Abort()
		pm.Wait()
	})

	var nilManager *ProgressManager
	assert.NotPanics(t, func() { nilManager.CreateBar(1, "x").Increment() })
}

func TestProgressEnabled(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManager(ProgressConfig{Enabled: true, Writer: &buf})
	bar := pm.CreateBar(2, "watson")
	bar.Increment()
	bar.Increment()
	bar.Complete()
	pm.Wait()

	assert.False(t, IsTTY(&buf))
}

func TestDiscoverSegments(t *testing.T) {
	f := newFixture(t, testutil.EpisodeWords(65))
	ctx := context.Background()

	segments, err := f.processor.DiscoverSegments(ctx, testutil.TestEpisode)
	require.NoError(t, err)
	assert.Equal(t, f.keys, segments)

	other := model.EpisodeRef{PodcastSlug: "hello-internet", EpisodeSlug: "h-i-101", PublishTimestamp: 1540000000}
	segments, err = f.processor.DiscoverSegments(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, segments[model.ProviderAWS])
	assert.Empty(t, segments[model.ProviderWatson])
}
