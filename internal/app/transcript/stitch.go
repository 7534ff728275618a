package transcript

import (
	"fmt"
	"slices"
	"sort"

	"github.com/samber/lo"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

// Seam describes how two adjacent segments were joined.
type Seam struct {
	LeftSegment  int        `json:"left_segment"`
	RightSegment int        `json:"right_segment"`
	LeftIndex    int        `json:"left_index"`
	RightIndex   int        `json:"right_index"`
	Drift        float64    `json:"drift"`
	Speakers     SpeakerMap `json:"speakers,omitempty"`
}

// SeamError reports a seam that could not be stitched. It unwraps to ErrUnalignableOverlap.
type SeamError struct {
	LeftSegment  int
	RightSegment int
	LeftOffset   float64
	RightOffset  float64
	Reason       string
}

func (e *SeamError) Error() string {
	return fmt.Sprintf("segments %d and %d (offsets %.3fs, %.3fs): %s: %v",
		e.LeftSegment, e.RightSegment, e.LeftOffset, e.RightOffset, e.Reason, apperrors.ErrUnalignableOverlap)
}

func (e *SeamError) Unwrap() error {
	return apperrors.ErrUnalignableOverlap
}

// SpeakerMap relabels speaker ids of a spliced-in segment onto the labels of the
// transcript it is appended to. Ids without an entry are kept.
type SpeakerMap map[int]int

// Apply returns the relabelled id.
func (m SpeakerMap) Apply(id int) int {
	if mapped, ok := m[id]; ok {
		return mapped
	}
	return id
}

// IsIdentity reports whether the map changes no label.
func (m SpeakerMap) IsIdentity() bool {
	for from, to := range m {
		if from != to {
			return false
		}
	}
	return true
}

// Stitch joins overlapping segment transcripts of one provider into a single transcript.
// Each segment must already carry its absolute offset.
func Stitch(segments []*Transcript, opts Options) (*Transcript, error) {
	stitched, _, err := StitchSeams(segments, opts)
	return stitched, err
}

// StitchSeams is Stitch that also reports every seam it joined.
func StitchSeams(segments []*Transcript, opts Options) (*Transcript, []Seam, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	if len(segments) == 0 {
		return wrap(nil, 0), nil, nil
	}

	ordered := slices.Clone(segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Offset() < ordered[j].Offset()
	})

	current := make([]Item, 0, ordered[0].Len())
	for _, item := range ordered[0].Items() {
		current = append(current, item.clone())
	}

	seams := make([]Seam, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		next := ordered[i]

		seam, reason := findSeam(current, next.Items(), next.Offset(), opts)
		if reason != "" {
			return nil, nil, &SeamError{
				LeftSegment:  i - 1,
				RightSegment: i,
				LeftOffset:   ordered[i-1].Offset(),
				RightOffset:  next.Offset(),
				Reason:       reason,
			}
		}
		seam.LeftSegment = i - 1
		seam.RightSegment = i
		seam.Drift = round3(current[seam.LeftIndex].StartTime - next.Items()[seam.RightIndex].StartTime)
		seam.Speakers = speakerMapAt(current, next.Items(), seam, opts.Overlap)

		current = splice(current, next.Items(), seam)
		seams = append(seams, seam)
	}

	return wrap(current, ordered[0].Offset()), seams, nil
}

// findSeam locates the first run of opts.Overlap words of current, at or after the next
// segment's offset, that reappears verbatim in next. The first word of next is skipped
// because the split may have cut it off. Every word of the run in next must start less
// than opts.LookaheadSeconds after the candidate's end. A non-empty reason explains a
// failure.
func findSeam(current, next []Item, nextOffset float64, opts Options) (Seam, string) {
	leftStart := -1
	for i, item := range current {
		if item.StartTime >= nextOffset {
			leftStart = i
			break
		}
	}
	if leftStart < 0 {
		return Seam{}, "timecodes do not overlap"
	}

	n := opts.Overlap
	for start := leftStart; start+n <= len(current); start++ {
		candidate := current[start : start+n]
		endTime := candidate[n-1].EndTime

		for j := 1; j+n <= len(next); j++ {
			if next[j+n-1].StartTime-endTime >= opts.LookaheadSeconds {
				break
			}
			if wordsMatch(candidate, next[j:j+n]) {
				return Seam{LeftIndex: start, RightIndex: j}, ""
			}
		}
	}

	return Seam{}, fmt.Sprintf("no overlap of %d words found", n)
}

func wordsMatch(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].SameWord(b[i]) {
			return false
		}
	}
	return true
}

// speakerMapAt derives the relabelling for the segment joined at seam. The matched word
// decides the mapping of its own speaker; other speakers in the overlap run are mapped by
// majority. A single observed relabelling a->b is completed with b->a, which for two
// speakers is a plain swap.
func speakerMapAt(current, next []Item, seam Seam, overlap int) SpeakerMap {
	m := SpeakerMap{}

	anchorLeft, anchorRight := current[seam.LeftIndex], next[seam.RightIndex]
	if anchorLeft.HasSpeaker() && anchorRight.HasSpeaker() {
		m[anchorRight.SpeakerID()] = anchorLeft.SpeakerID()
	}

	votes := map[int]map[int]int{}
	for k := 0; k < overlap; k++ {
		l, r := current[seam.LeftIndex+k], next[seam.RightIndex+k]
		if !l.HasSpeaker() || !r.HasSpeaker() {
			continue
		}
		if votes[r.SpeakerID()] == nil {
			votes[r.SpeakerID()] = map[int]int{}
		}
		votes[r.SpeakerID()][l.SpeakerID()]++
	}

	from := lo.Keys(votes)
	slices.Sort(from)
	for _, src := range from {
		if _, ok := m[src]; ok {
			continue
		}
		targets := lo.Keys(votes[src])
		slices.Sort(targets)
		best := targets[0]
		for _, dst := range targets[1:] {
			if votes[src][dst] > votes[src][best] {
				best = dst
			}
		}
		if !lo.Contains(lo.Values(m), best) {
			m[src] = best
		}
	}

	sources := lo.Keys(m)
	slices.Sort(sources)
	for _, src := range sources {
		dst := m[src]
		if src == dst {
			continue
		}
		if _, mapped := m[dst]; mapped {
			continue
		}
		if !lo.Contains(lo.Values(m), src) {
			m[dst] = src
		}
	}

	if m.IsIdentity() {
		return nil
	}
	return m
}

// splice keeps current up to the seam and appends next from the seam on, shifting the
// appended items by the seam drift and relabelling their speakers.
func splice(current, next []Item, seam Seam) []Item {
	out := current[:seam.LeftIndex]
	for _, item := range next[seam.RightIndex:] {
		item = item.clone()
		item.StartTime = round3(item.StartTime + seam.Drift)
		item.EndTime = round3(item.EndTime + seam.Drift)
		if item.HasSpeaker() && seam.Speakers != nil {
			item = item.WithSpeaker(seam.Speakers.Apply(item.SpeakerID()))
		}
		out = append(out, item)
	}
	return out
}
