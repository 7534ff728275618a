package transcript

import (
	"math"

	"github.com/samber/lo"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

// Merge reconciles two full-episode transcripts of the same audio into one. Words both
// providers agree on are taken from left. Where they disagree, a drift search realigns the
// two streams and the window with the higher average confidence wins, unless the losing
// window reproduces the winner's words exactly, in which case its finer segmentation is
// kept. Speakers of emitted words always come from the winning window.
//
// The inputs are read through private cursors and are not modified.
//
// When a mismatch sits on either side's final word the search is exhausted and the
// remainders of both sides are appended verbatim. Exhaustion before any word was emitted
// fails with ErrExhaustedSearch.
func Merge(left, right *Transcript, opts Options) (*Transcript, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	l := wrap(left.Items(), left.Offset())
	r := wrap(right.Items(), right.Offset())
	output := make([]Item, 0, max(l.Len(), r.Len()))

	for {
		nextLeft := l.Peek(1)
		nextRight := r.Peek(1)
		if len(nextLeft) == 0 || len(nextRight) == 0 {
			break
		}

		if nextLeft[0].SameWord(nextRight[0]) {
			output = append(output, l.Read(1)[0].clone())
			r.Read(1)
			continue
		}

		window, ok := FindBestWindow(l.Items(), r.Items(), l.Position(), r.Position(), opts.MaxWindow)
		if !ok {
			if len(output) == 0 {
				return nil, apperrors.Wrapf(apperrors.ErrExhaustedSearch,
					"no alignment window at left=%d right=%d", l.Position(), r.Position())
			}
			break
		}

		leftMatch := l.Read(window.LeftOffset)
		rightMatch := r.Read(window.RightOffset)
		output = append(output, reconcile(leftMatch, rightMatch)...)
	}

	for _, item := range l.Read(l.Remaining()) {
		output = append(output, item.clone())
	}
	for _, item := range r.Read(r.Remaining()) {
		output = append(output, item.clone())
	}

	return wrap(output, left.Offset()), nil
}

// reconcile picks the items to emit for one realigned pair of windows.
func reconcile(leftMatch, rightMatch []Item) []Item {
	winner, loser := leftMatch, rightMatch
	if averageConfidence(rightMatch) > averageConfidence(leftMatch) {
		winner, loser = rightMatch, leftMatch
	}

	emitted := winner
	if reproduces(loser, winner) {
		emitted = loser
	}
	return assignSpeakers(emitted, winner)
}

func averageConfidence(items []Item) float64 {
	if len(items) == 0 {
		return 0
	}
	return lo.SumBy(items, func(item Item) float64 { return item.Confidence }) / float64(len(items))
}

// reproduces reports whether candidate contains the words of target as one contiguous,
// in-order run.
func reproduces(candidate, target []Item) bool {
	if len(target) == 0 || len(candidate) < len(target) {
		return false
	}
	for start := 0; start+len(target) <= len(candidate); start++ {
		matched := 0
		for matched < len(target) && candidate[start+matched].SameWord(target[matched]) {
			matched++
		}
		if matched == len(target) {
			return true
		}
	}
	return false
}

// assignSpeakers attributes each emitted item to a speaker taken from the reference window.
func assignSpeakers(emitted, reference []Item) []Item {
	out := make([]Item, len(emitted))

	if id, ok := uniformSpeaker(reference); ok {
		for i, item := range emitted {
			out[i] = item.WithSpeaker(id)
		}
		return out
	}

	for i, item := range emitted {
		if candidate, ok := nearestSpeaker(reference, item); ok {
			out[i] = item.WithSpeaker(candidate.SpeakerID())
		} else {
			out[i] = item.clone()
		}
	}
	return out
}

// uniformSpeaker returns the speaker shared by every item, if there is one.
func uniformSpeaker(items []Item) (int, bool) {
	if len(items) == 0 || !items[0].HasSpeaker() {
		return 0, false
	}
	first := items[0].SpeakerID()
	same := lo.EveryBy(items, func(item Item) bool {
		return item.HasSpeaker() && item.SpeakerID() == first
	})
	return first, same
}

// nearestSpeaker finds the reference item closest in time to target, preferring items
// with the same word. Reference items without a speaker are ignored.
func nearestSpeaker(reference []Item, target Item) (Item, bool) {
	var best Item
	var bestSameWord, found bool
	bestDrift := math.Inf(1)

	for _, candidate := range reference {
		if !candidate.HasSpeaker() {
			continue
		}
		drift := math.Abs(candidate.StartTime-target.StartTime) + math.Abs(candidate.EndTime-target.EndTime)
		sameWord := candidate.SameWord(target)

		switch {
		case !found:
		case sameWord && !bestSameWord:
		case sameWord == bestSameWord && drift < bestDrift:
		default:
			continue
		}
		best, bestDrift, bestSameWord, found = candidate, drift, sameWord, true
	}
	return best, found
}
