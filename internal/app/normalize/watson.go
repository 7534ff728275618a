package normalize

import (
	"encoding/json"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/transcript"
)

type watsonTranscription struct {
	Results       []watsonResult        `json:"results"`
	SpeakerLabels *[]watsonSpeakerLabel `json:"speaker_labels"`
}

type watsonResult struct {
	Final        bool                `json:"final"`
	Alternatives []watsonAlternative `json:"alternatives"`
}

type watsonAlternative struct {
	Transcript     string           `json:"transcript"`
	WordConfidence []wordConfidence `json:"word_confidence"`
	Timestamps     []wordTimestamp  `json:"timestamps"`
}

type watsonSpeakerLabel struct {
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	Speaker    int     `json:"speaker"`
	Confidence float64 `json:"confidence"`
	Final      bool    `json:"final"`
}

// wordConfidence decodes ["word", 0.93].
type wordConfidence struct {
	Word       string
	Confidence float64
}

func (w *wordConfidence) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return apperrors.Malformed("word_confidence entry %s", b)
	}
	if err := json.Unmarshal(raw[0], &w.Word); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &w.Confidence)
}

// wordTimestamp decodes ["word", 1.02, 1.4].
type wordTimestamp struct {
	Word      string
	StartTime float64
	EndTime   float64
}

func (w *wordTimestamp) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return apperrors.Malformed("timestamps entry %s", b)
	}
	if err := json.Unmarshal(raw[0], &w.Word); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &w.StartTime); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &w.EndTime)
}

// Watson normalizes IBM Watson speech-to-text output. Words take their times from the
// parallel timestamps list and, when the payload is diarized, their speaker from the
// top-level speaker_labels list in order.
type Watson struct{}

func NewWatson() *Watson {
	return &Watson{}
}

func (w *Watson) Provider() string {
	return model.ProviderWatson
}

func (w *Watson) Normalize(data []byte) (*Result, error) {
	var raw watsonTranscription
	if err := json.Unmarshal(data, &raw); err != nil {
		if apperrors.Is(err, apperrors.ErrMalformedInput) {
			return nil, err
		}
		return nil, apperrors.Malformed("watson transcription: %v", err)
	}

	result := &Result{}
	speakerIndex := 0
	for r, res := range raw.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		alt := res.Alternatives[0]
		if len(alt.Timestamps) < len(alt.WordConfidence) {
			return nil, apperrors.Malformed("watson result %d: %d timestamps for %d words",
				r, len(alt.Timestamps), len(alt.WordConfidence))
		}

		for i, wc := range alt.WordConfidence {
			item := transcript.Item{
				Word:       wc.Word,
				Confidence: wc.Confidence,
				StartTime:  alt.Timestamps[i].StartTime,
				EndTime:    alt.Timestamps[i].EndTime,
			}
			if raw.SpeakerLabels != nil {
				labels := *raw.SpeakerLabels
				if speakerIndex >= len(labels) {
					return nil, apperrors.Malformed("watson result %d: speaker labels exhausted after %d words",
						r, speakerIndex)
				}
				item.Speaker = transcript.Speaker(labels[speakerIndex].Speaker)
				speakerIndex++
			}
			result.Items = append(result.Items, item)
			result.Stats.Words++
		}
	}
	return result, nil
}
