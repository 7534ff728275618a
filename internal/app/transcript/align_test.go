package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

func item(word string, confidence, start, end float64, speaker int) Item {
	return Item{Word: word, Confidence: confidence, StartTime: start, EndTime: end, Speaker: Speaker(speaker)}
}

func TestMergeIdenticalTranscripts(t *testing.T) {
	left := New([]Item{
		item("the", 0.9, 0.0, 0.2, 0),
		item("cat", 0.9, 0.2, 0.5, 0),
	}, 0)
	right := New([]Item{
		item("the", 0.9, 0.0, 0.2, 0),
		item("cat", 0.9, 0.2, 0.5, 0),
	}, 0)

	merged, err := Merge(left, right, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, left.Items(), merged.Items())
	assert.Equal(t, 2, merged.Len())
}

func TestMergeWithItself(t *testing.T) {
	tr := New(seq(3, 1, 0.8, "so", "what", "did", "you", "think"), 0)

	merged, err := Merge(tr, tr, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, tr.Items(), merged.Items())
	assert.Equal(t, 0, tr.Position(), "input cursor is untouched")
}

func TestMergeKeepsHigherConfidenceWindow(t *testing.T) {
	left := New([]Item{
		item("the", 0.9, 0.0, 0.2, 0),
		item("cat", 0.9, 0.2, 0.5, 0),
	}, 0)
	right := New([]Item{
		item("th", 0.4, 0.0, 0.1, 1),
		item("ecat", 0.4, 0.1, 0.5, 1),
	}, 0)

	merged, err := Merge(left, right, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, []string{"the", "cat"}, merged.Words())
	assert.Equal(t, 0, merged.Items()[0].SpeakerID())
	assert.Equal(t, 0, merged.Items()[1].SpeakerID())
}

func TestMergeKeepsLoserThatReproducesWinner(t *testing.T) {
	left := New([]Item{
		item("the", 0.5, 1.0, 1.2, 0),
		item("cat", 0.5, 1.2, 1.5, 0),
		item("sat", 0.9, 1.5, 1.8, 0),
	}, 0)
	right := New([]Item{
		item("cat", 0.9, 1.0, 1.5, 1),
		item("sat", 0.9, 1.5, 1.8, 1),
	}, 0)

	merged, err := Merge(left, right, DefaultOptions())
	require.NoError(t, err)

	// right wins on confidence but left carries the same words with finer segmentation
	assert.Equal(t, []string{"the", "cat", "sat"}, merged.Words())
	for _, it := range merged.Items() {
		assert.Equal(t, 1, it.SpeakerID(), "speaker comes from the winning window")
	}
}

func TestMergeDrainsRemainder(t *testing.T) {
	left := New(seq(0, 0, 0.9, "one", "two"), 0)
	right := New(seq(0, 0, 0.9, "one", "two", "three", "four"), 0)

	merged, err := Merge(left, right, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four"}, merged.Words())

	merged, err = Merge(right, left, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four"}, merged.Words())
}

func TestMergeExhaustedSearch(t *testing.T) {
	t.Run("before any output", func(t *testing.T) {
		left := New([]Item{item("hello", 0.9, 0, 0.5, 0)}, 0)
		right := New([]Item{item("goodbye", 0.9, 0, 0.6, 1)}, 0)

		_, err := Merge(left, right, DefaultOptions())
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrExhaustedSearch))
	})

	t.Run("after output drains both remainders", func(t *testing.T) {
		left := New([]Item{
			item("the", 0.9, 0.0, 0.2, 0),
			item("cat", 0.9, 0.2, 0.5, 0),
		}, 0)
		right := New([]Item{
			item("the", 0.9, 0.0, 0.2, 0),
			item("dog", 0.8, 0.2, 0.5, 1),
			item("barked", 0.8, 0.5, 0.9, 1),
		}, 0)

		merged, err := Merge(left, right, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"the", "cat", "dog", "barked"}, merged.Words())
		assert.Equal(t, 1, merged.Items()[2].SpeakerID(), "drained items are unmodified")
	})
}

func TestMergeRejectsInvalidOptions(t *testing.T) {
	tr := New(seq(0, 0, 0.9, "hi", "there"), 0)

	_, err := Merge(tr, tr, Options{Overlap: 10, LookaheadSeconds: 5, MaxWindow: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_window")
}

func TestMergeEmptySide(t *testing.T) {
	left := New(nil, 0)
	right := New(seq(0, 0, 0.9, "hi"), 0)

	merged, err := Merge(left, right, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, merged.Words())
}

func TestMergePreservesOrder(t *testing.T) {
	left := New([]Item{
		item("we", 0.95, 0.0, 0.3, 0),
		item("went", 0.95, 0.3, 0.6, 0),
		item("too", 0.40, 0.6, 0.8, 0),
		item("the", 0.95, 0.8, 1.0, 0),
		item("store", 0.95, 1.0, 1.5, 0),
		item("yesterday", 0.95, 1.5, 2.2, 1),
	}, 0)
	right := New([]Item{
		item("we", 0.90, 0.02, 0.31, 0),
		item("went", 0.90, 0.31, 0.62, 0),
		item("to", 0.92, 0.62, 0.79, 0),
		item("the", 0.90, 0.79, 1.01, 0),
		item("store", 0.90, 1.01, 1.52, 0),
		item("yes", 0.50, 1.52, 1.8, 1),
		item("today", 0.50, 1.8, 2.2, 1),
	}, 0)

	merged, err := Merge(left, right, DefaultOptions())
	require.NoError(t, err)

	// the realigned window runs to the end of both streams and left is more confident overall
	assert.Equal(t, []string{"we", "went", "too", "the", "store", "yesterday"}, merged.Words())
	items := merged.Items()
	assert.Equal(t, 1, items[len(items)-1].SpeakerID())
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].StartTime, items[i].StartTime)
	}
}

func TestAssignSpeakersFromMixedWindow(t *testing.T) {
	reference := []Item{
		item("yes", 0.9, 0.0, 0.4, 0),
		item("no", 0.9, 0.5, 0.9, 1),
		item("maybe", 0.9, 1.0, 1.6, 1),
	}
	emitted := []Item{
		item("yes", 0.5, 0.05, 0.45, 3),
		item("maybe", 0.5, 0.45, 0.95, 3), // nearest in time is "no", but the word matches "maybe"
		item("um", 0.5, 0.98, 1.5, 3),
	}

	got := assignSpeakers(emitted, reference)
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].SpeakerID())
	assert.Equal(t, 1, got[1].SpeakerID())
	assert.Equal(t, 1, got[2].SpeakerID())
	assert.Equal(t, 3, emitted[0].SpeakerID(), "emitted items are not modified")
}

func TestAssignSpeakersWithoutReferenceSpeakers(t *testing.T) {
	reference := []Item{{Word: "a", StartTime: 0, EndTime: 1}}
	emitted := []Item{item("a", 0.5, 0, 1, 2)}

	got := assignSpeakers(emitted, reference)
	assert.Equal(t, 2, got[0].SpeakerID())
}

func TestReproduces(t *testing.T) {
	words := func(ws ...string) []Item {
		return seq(0, 0, 0.5, ws...)
	}

	assert.True(t, reproduces(words("uh", "the", "cat"), words("the", "cat")))
	assert.True(t, reproduces(words("The", "CAT"), words("the", "cat")))
	assert.False(t, reproduces(words("the", "big", "cat"), words("the", "cat")))
	assert.False(t, reproduces(words("cat"), words("the", "cat")))
	assert.False(t, reproduces(words("the"), nil))
}
