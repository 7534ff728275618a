package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seq builds items one second apart, each 0.9s long, starting at start.
func seq(start float64, speaker int, confidence float64, words ...string) []Item {
	items := make([]Item, len(words))
	for i, w := range words {
		items[i] = Item{
			Word:       w,
			Confidence: confidence,
			StartTime:  start + float64(i),
			EndTime:    start + float64(i) + 0.9,
			Speaker:    Speaker(speaker),
		}
	}
	return items
}

func TestTranscriptReadAndPeek(t *testing.T) {
	tr := New(seq(0, 0, 0.9, "a", "b", "c"), 0)

	assert.Equal(t, []string{"a", "b"}, wordsOf(tr.Peek(2)))
	assert.Equal(t, 0, tr.Position())

	assert.Equal(t, []string{"a", "b"}, wordsOf(tr.Read(2)))
	assert.Equal(t, 1, tr.Remaining())

	assert.Equal(t, []string{"c"}, wordsOf(tr.Read(5)), "short read at end of stream")
	assert.Empty(t, tr.Read(1))
	assert.Empty(t, tr.Peek(1))

	tr.Reset()
	assert.Equal(t, 3, tr.Remaining())
}

func TestNewAppliesOffsetOnce(t *testing.T) {
	source := seq(0, 0, 0.9, "a", "b")
	tr := New(source, 120)

	require.Equal(t, 2, tr.Len())
	assert.InDelta(t, 120.0, tr.Items()[0].StartTime, 1e-9)
	assert.InDelta(t, 121.9, tr.Items()[1].EndTime, 1e-9)
	assert.Equal(t, 120.0, tr.Offset())

	// the caller's items are untouched
	assert.InDelta(t, 0.0, source[0].StartTime, 1e-9)
	*tr.Items()[0].Speaker = 7
	assert.Equal(t, 0, *source[0].Speaker)
}

func TestItemSpeakerHelpers(t *testing.T) {
	item := Item{Word: "Hello"}
	assert.False(t, item.HasSpeaker())
	assert.Equal(t, -1, item.SpeakerID())

	item = item.WithSpeaker(1)
	assert.True(t, item.HasSpeaker())
	assert.Equal(t, 1, item.SpeakerID())
	assert.True(t, item.SameWord(Item{Word: "hELLO"}))
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.Overlap = 0
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.LookaheadSeconds = -1
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.MaxWindow = 64
	assert.Error(t, bad.Validate())

	assert.Equal(t, DefaultOptions(), Options{}.withDefaults())
}

func wordsOf(items []Item) []string {
	words := make([]string, len(items))
	for i, item := range items {
		words[i] = item.Word
	}
	return words
}
