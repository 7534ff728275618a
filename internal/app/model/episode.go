package model

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

// Episode processing states
const (
	StatusPending    = "pending"
	StatusStitched   = "stitched"
	StatusMerged     = "merged"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
	episodeSeparator = "_"
)

// Transcription providers
const (
	ProviderAWS    = "aws"
	ProviderWatson = "watson"
)

// EpisodeRef identifies an episode of a podcast.
type EpisodeRef struct {
	PodcastSlug      string `json:"podcast_slug" validate:"required"`
	EpisodeSlug      string `json:"episode_slug"`
	PublishTimestamp int64  `json:"publish_timestamp" validate:"required"`
}

// Key returns the episode key, podcast_<publish timestamp>.
func (e EpisodeRef) Key() string {
	return e.PodcastSlug + episodeSeparator + strconv.FormatInt(e.PublishTimestamp, 10)
}

// ParseEpisodeKey splits an episode key back into podcast slug and publish timestamp.
func ParseEpisodeKey(key string) (string, int64, error) {
	i := strings.LastIndex(key, episodeSeparator)
	if i <= 0 || i == len(key)-1 {
		return "", 0, apperrors.InvalidField("episode key", key)
	}
	ts, err := strconv.ParseInt(key[i+1:], 10, 64)
	if err != nil {
		return "", 0, apperrors.InvalidField("episode key", key)
	}
	return key[:i], ts, nil
}

type Episode struct {
	Ref          EpisodeRef
	Title        string
	Status       string
	ErrorMessage string
	WordCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
