package transcript

import (
	"strconv"
	"strings"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

// SpeakerLabel is one diarization entry, e.g. {"speaker_label": "spk_1"}.
type SpeakerLabel struct {
	Label string `json:"speaker_label"`
}

// SpeakerSegment is a run of diarization entries.
type SpeakerSegment struct {
	Items []SpeakerLabel `json:"items"`
}

// SpeakerAssigner hands out speaker ids from a diarization stream, one per recognized word,
// strictly in order.
type SpeakerAssigner struct {
	segments []SpeakerSegment
	segment  int
	item     int
}

// NewSpeakerAssigner creates an assigner positioned at the first diarization entry.
func NewSpeakerAssigner(segments []SpeakerSegment) *SpeakerAssigner {
	return &SpeakerAssigner{segments: segments}
}

// Next returns the speaker id of the next diarization entry. Running out of entries means
// the provider payload is malformed and yields ErrMalformedInput.
func (a *SpeakerAssigner) Next() (int, error) {
	for a.segment < len(a.segments) && a.item >= len(a.segments[a.segment].Items) {
		a.segment++
		a.item = 0
	}
	if a.segment >= len(a.segments) {
		return 0, apperrors.Malformed("diarization stream exhausted after %d segments", len(a.segments))
	}

	label := a.segments[a.segment].Items[a.item].Label
	a.item++

	id, err := ParseSpeakerLabel(label)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ParseSpeakerLabel extracts the trailing integer of labels like "spk_3". A bare integer
// is accepted as well.
func ParseSpeakerLabel(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	if i := strings.LastIndexAny(trimmed, "_-"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil || id < 0 {
		return 0, apperrors.Malformed("invalid speaker label %q", label)
	}
	return id, nil
}
