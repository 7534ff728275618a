package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/storage"
)

// FixtureWord is one spoken word of a synthetic episode.
type FixtureWord struct {
	Content    string
	Start      float64
	End        float64
	Confidence float64
	Speaker    int
}

// FixtureSegment is a slice of the episode as a provider would transcribe it. Word times
// are relative to Offset.
type FixtureSegment struct {
	Offset int
	Words  []FixtureWord
}

// TestEpisode is the episode most fixtures belong to.
var TestEpisode = model.EpisodeRef{
	PodcastSlug:      "hello-internet",
	EpisodeSlug:      "h-i-100",
	PublishTimestamp: 1530000000,
}

// EpisodeWords returns n words w0..w(n-1), one per second. Speakers alternate every five
// words and each group of five ends a sentence.
func EpisodeWords(n int) []FixtureWord {
	words := make([]FixtureWord, n)
	for i := range words {
		content := fmt.Sprintf("w%d", i)
		if i%5 == 4 {
			content += "."
		}
		words[i] = FixtureWord{
			Content:    content,
			Start:      float64(i),
			End:        float64(i) + 0.9,
			Confidence: 0.9,
			Speaker:    (i / 5) % 2,
		}
	}
	return words
}

// SplitSegments cuts words into segments of length seconds starting every step seconds,
// the way long audio is split before transcription.
func SplitSegments(words []FixtureWord, length, step int) []FixtureSegment {
	var segments []FixtureSegment
	for offset := 0; ; offset += step {
		seg := FixtureSegment{Offset: offset}
		for _, w := range words {
			if w.Start >= float64(offset) && w.Start < float64(offset+length) {
				w.Start -= float64(offset)
				w.End -= float64(offset)
				seg.Words = append(seg.Words, w)
			}
		}
		segments = append(segments, seg)
		if len(words) == 0 || float64(offset+length) > words[len(words)-1].Start {
			return segments
		}
	}
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// AWSPayload renders words as an Amazon Transcribe result with speaker labels.
func AWSPayload(words []FixtureWord) []byte {
	items := make([]map[string]interface{}, 0, len(words))
	labels := make([]map[string]interface{}, 0, len(words))
	for _, w := range words {
		items = append(items, map[string]interface{}{
			"type":       "pronunciation",
			"start_time": formatTime(w.Start),
			"end_time":   formatTime(w.End),
			"alternatives": []map[string]interface{}{
				{"content": w.Content, "confidence": formatTime(w.Confidence)},
			},
		})
		labels = append(labels, map[string]interface{}{
			"speaker_label": fmt.Sprintf("spk_%d", w.Speaker),
			"start_time":    formatTime(w.Start),
			"end_time":      formatTime(w.End),
		})
	}

	payload := map[string]interface{}{
		"jobName": "fixture",
		"status":  "COMPLETED",
		"results": map[string]interface{}{
			"items": items,
			"speaker_labels": map[string]interface{}{
				"speakers": 2,
				"segments": []map[string]interface{}{{"items": labels}},
			},
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

// WatsonPayload renders words as an IBM Watson result with speaker labels.
func WatsonPayload(words []FixtureWord) []byte {
	confidences := make([][]interface{}, 0, len(words))
	timestamps := make([][]interface{}, 0, len(words))
	labels := make([]map[string]interface{}, 0, len(words))
	for _, w := range words {
		confidences = append(confidences, []interface{}{w.Content, w.Confidence})
		timestamps = append(timestamps, []interface{}{w.Content, w.Start, w.End})
		labels = append(labels, map[string]interface{}{
			"from":    w.Start,
			"to":      w.End,
			"speaker": w.Speaker,
			"final":   false,
		})
	}

	payload := map[string]interface{}{
		"results": []map[string]interface{}{{
			"final": true,
			"alternatives": []map[string]interface{}{{
				"word_confidence": confidences,
				"timestamps":      timestamps,
			}},
		}},
		"speaker_labels": labels,
	}
	data, _ := json.Marshal(payload)
	return data
}

// SeedRawSegments stores every segment as raw output of both providers and returns the
// segment keys per provider. rawKey maps a provider and segment key to its storage key.
func SeedRawSegments(t *testing.T, store storage.ObjectStore, ep model.EpisodeRef, segments []FixtureSegment, rawKey func(provider, segmentKey string) string) map[string][]string {
	t.Helper()
	ctx := context.Background()

	keys := map[string][]string{}
	for _, seg := range segments {
		key := ep.SegmentKey("json", seg.Offset)
		require.NoError(t, store.Put(ctx, rawKey(model.ProviderAWS, key), AWSPayload(seg.Words), "application/json"))
		require.NoError(t, store.Put(ctx, rawKey(model.ProviderWatson, key), WatsonPayload(seg.Words), "application/json"))
		keys[model.ProviderAWS] = append(keys[model.ProviderAWS], key)
		keys[model.ProviderWatson] = append(keys[model.ProviderWatson], key)
	}
	return keys
}
