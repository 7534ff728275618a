package transcript

import (
	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

const (
	DefaultOverlap          = 10
	DefaultLookaheadSeconds = 5.0
	DefaultMaxWindow        = 8
)

// Options tunes the merge and stitch algorithms.
type Options struct {
	// Overlap is the number of consecutive words that must match across a seam.
	Overlap int `yaml:"overlap" json:"overlap" validate:"min=1,max=100"`

	// LookaheadSeconds bounds how far past the candidate run the next segment is searched.
	LookaheadSeconds float64 `yaml:"lookahead_seconds" json:"lookahead_seconds" validate:"gt=0"`

	// MaxWindow caps the window size on each side of a drift search.
	MaxWindow int `yaml:"max_window" json:"max_window" validate:"min=1,max=32"`
}

// DefaultOptions returns the tuning observed to work for two-speaker podcasts.
func DefaultOptions() Options {
	return Options{
		Overlap:          DefaultOverlap,
		LookaheadSeconds: DefaultLookaheadSeconds,
		MaxWindow:        DefaultMaxWindow,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Overlap < 1 || o.Overlap > 100 {
		return apperrors.OutOfRange("overlap", 1, 100)
	}
	if o.LookaheadSeconds <= 0 {
		return apperrors.InvalidField("lookahead_seconds", "must be positive")
	}
	if o.MaxWindow < 1 || o.MaxWindow > 32 {
		return apperrors.OutOfRange("max_window", 1, 32)
	}
	return nil
}

// withDefaults fills zero values so a zero Options behaves like DefaultOptions.
func (o Options) withDefaults() Options {
	if o.Overlap == 0 {
		o.Overlap = DefaultOverlap
	}
	if o.LookaheadSeconds == 0 {
		o.LookaheadSeconds = DefaultLookaheadSeconds
	}
	if o.MaxWindow == 0 {
		o.MaxWindow = DefaultMaxWindow
	}
	return o
}
