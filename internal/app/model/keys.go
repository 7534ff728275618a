package model

import (
	"path"
	"strconv"
	"strings"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

// KeyInfo is what ParseKey recovers from an object key.
type KeyInfo struct {
	Episode EpisodeRef
	// StartTime is the offset in seconds of a segment within its episode, nil for
	// whole-episode objects.
	StartTime *int
}

// Offset returns the segment offset in seconds.
func (k KeyInfo) Offset() float64 {
	if k.StartTime == nil {
		return 0
	}
	return float64(*k.StartTime)
}

// BuildKey returns podcast/<ts>_<episode>[/<start>][.<suffix>].
func BuildKey(suffix, podcastSlug, episodeSlug string, publishTimestamp int64, startTime *int) string {
	key := podcastSlug + "/" + strconv.FormatInt(publishTimestamp, 10) + episodeSeparator + episodeSlug
	if startTime != nil {
		key += "/" + strconv.Itoa(*startTime)
	}
	if suffix != "" {
		key += "." + suffix
	}
	return key
}

// ObjectKey is BuildKey for a whole-episode object.
func (e EpisodeRef) ObjectKey(suffix string) string {
	return BuildKey(suffix, e.PodcastSlug, e.EpisodeSlug, e.PublishTimestamp, nil)
}

// SegmentKey is BuildKey for the segment starting at start seconds.
func (e EpisodeRef) SegmentKey(suffix string, start int) string {
	return BuildKey(suffix, e.PodcastSlug, e.EpisodeSlug, e.PublishTimestamp, &start)
}

// ParseKey reverses BuildKey. A segment start may carry a trailing _<job> marker, which
// is ignored.
func ParseKey(key string) (KeyInfo, error) {
	trimmed := strings.TrimSuffix(key, path.Ext(key))
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return KeyInfo{}, apperrors.InvalidField("object key", key)
	}

	ts, slug, ok := strings.Cut(parts[1], episodeSeparator)
	if !ok {
		return KeyInfo{}, apperrors.InvalidField("object key", key)
	}
	publishTimestamp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return KeyInfo{}, apperrors.InvalidField("object key", key)
	}

	info := KeyInfo{Episode: EpisodeRef{
		PodcastSlug:      parts[0],
		EpisodeSlug:      slug,
		PublishTimestamp: publishTimestamp,
	}}

	if len(parts) == 3 {
		start, _, _ := strings.Cut(parts[2], episodeSeparator)
		startTime, err := strconv.Atoi(start)
		if err != nil {
			return KeyInfo{}, apperrors.InvalidField("segment start", parts[2])
		}
		info.StartTime = &startTime
	}
	return info, nil
}
