package normalize

import (
	"encoding/json"
	"strconv"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/transcript"
)

type awsTranscription struct {
	JobName string     `json:"jobName"`
	Status  string     `json:"status"`
	Results awsResults `json:"results"`
}

type awsResults struct {
	Items         []awsItem         `json:"items"`
	SpeakerLabels *awsSpeakerLabels `json:"speaker_labels"`
}

type awsSpeakerLabels struct {
	Speakers int                         `json:"speakers"`
	Segments []transcript.SpeakerSegment `json:"segments"`
}

type awsItem struct {
	Type         string           `json:"type"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	Alternatives []awsAlternative `json:"alternatives"`
}

type awsAlternative struct {
	Content    string  `json:"content"`
	Confidence *string `json:"confidence"`
}

// AWS normalizes Amazon Transcribe output. Every pronunciation item with a confidence
// takes the next speaker label from the diarization stream.
type AWS struct{}

func NewAWS() *AWS {
	return &AWS{}
}

func (a *AWS) Provider() string {
	return model.ProviderAWS
}

func (a *AWS) Normalize(data []byte) (*Result, error) {
	var raw awsTranscription
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Malformed("aws transcription: %v", err)
	}

	var speakers *transcript.SpeakerAssigner
	if raw.Results.SpeakerLabels != nil {
		speakers = transcript.NewSpeakerAssigner(raw.Results.SpeakerLabels.Segments)
	}

	result := &Result{Items: make([]transcript.Item, 0, len(raw.Results.Items))}
	for i, item := range raw.Results.Items {
		if item.Type != "pronunciation" || len(item.Alternatives) == 0 || item.Alternatives[0].Confidence == nil {
			result.Stats.Punctuation++
			continue
		}
		alt := item.Alternatives[0]

		confidence, err := parseFloat(*alt.Confidence)
		if err != nil {
			return nil, apperrors.Malformed("aws item %d: confidence %q", i, *alt.Confidence)
		}
		start, err := parseFloat(item.StartTime)
		if err != nil {
			return nil, apperrors.Malformed("aws item %d: start_time %q", i, item.StartTime)
		}
		end, err := parseFloat(item.EndTime)
		if err != nil {
			return nil, apperrors.Malformed("aws item %d: end_time %q", i, item.EndTime)
		}

		word := transcript.Item{
			Word:       alt.Content,
			Confidence: confidence,
			StartTime:  start,
			EndTime:    end,
		}
		if speakers != nil {
			id, err := speakers.Next()
			if err != nil {
				return nil, apperrors.Wrapf(err, "aws item %d (%q)", i, alt.Content)
			}
			word.Speaker = transcript.Speaker(id)
		}

		result.Items = append(result.Items, word)
		result.Stats.Words++
	}
	return result, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
