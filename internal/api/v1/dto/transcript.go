package dto

import (
	"fmt"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/normalize"
	"github.com/ian97531/boombox/internal/app/transcript"
)

// Options overrides the server's alignment tuning. Zero fields keep the server value.
type Options struct {
	Overlap          int     `json:"overlap" binding:"omitempty,min=1,max=100"`
	LookaheadSeconds float64 `json:"lookahead_seconds" binding:"omitempty,gt=0"`
	MaxWindow        int     `json:"max_window" binding:"omitempty,min=1,max=32"`
}

// Resolve overlays the request options on base.
func (o *Options) Resolve(base transcript.Options) (transcript.Options, error) {
	if o == nil {
		return base, base.Validate()
	}
	if o.Overlap != 0 {
		base.Overlap = o.Overlap
	}
	if o.LookaheadSeconds != 0 {
		base.LookaheadSeconds = o.LookaheadSeconds
	}
	if o.MaxWindow != 0 {
		base.MaxWindow = o.MaxWindow
	}
	return base, base.Validate()
}

// MergeRequest represents the request body for merging two transcripts of the same audio
type MergeRequest struct {
	Left    []transcript.Item `json:"left" binding:"required"`
	Right   []transcript.Item `json:"right" binding:"required"`
	Options *Options          `json:"options"`
}

// Validate checks item timing on both sides
func (r *MergeRequest) Validate() error {
	if err := validateItems("left", r.Left); err != nil {
		return err
	}
	return validateItems("right", r.Right)
}

// Segment is one transcript segment and its offset in the episode
type Segment struct {
	Offset float64           `json:"offset" binding:"gte=0"`
	Items  []transcript.Item `json:"items" binding:"required"`
}

// StitchRequest represents the request body for stitching overlapping segments
type StitchRequest struct {
	Segments []Segment `json:"segments" binding:"required,min=1,dive"`
	Options  *Options  `json:"options"`
}

// Validate checks item timing in every segment
func (r *StitchRequest) Validate() error {
	for i, segment := range r.Segments {
		if err := validateItems(fmt.Sprintf("segments[%d]", i), segment.Items); err != nil {
			return err
		}
	}
	return nil
}

// TranscriptResponse represents a transcript in API responses
type TranscriptResponse struct {
	Items []transcript.Item `json:"items"`
	Count int               `json:"count"`
}

// StitchResponse adds the seams found between segments
type StitchResponse struct {
	TranscriptResponse
	Seams []transcript.Seam `json:"seams"`
}

// NormalizeResponse represents a normalized provider payload
type NormalizeResponse struct {
	Provider string            `json:"provider"`
	Items    []transcript.Item `json:"items"`
	Stats    normalize.Stats   `json:"stats"`
}

// NewTranscriptResponse converts a transcript to its response form
func NewTranscriptResponse(t *transcript.Transcript) TranscriptResponse {
	items := t.Items()
	if items == nil {
		items = []transcript.Item{}
	}
	return TranscriptResponse{Items: items, Count: len(items)}
}

func validateItems(side string, items []transcript.Item) error {
	for i, item := range items {
		if item.Word == "" {
			return apperrors.Malformed("%s item %d has no word", side, i)
		}
		if item.StartTime < 0 || item.EndTime < item.StartTime {
			return apperrors.Malformed("%s item %d has invalid timing %.3f-%.3f", side, i, item.StartTime, item.EndTime)
		}
	}
	return nil
}
