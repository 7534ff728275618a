// Package transcript holds the word-level transcript model and the algorithms that
// reconcile transcripts: speaker assignment from diarization, two-provider merge and
// stitching of overlapping split segments.
//
// Everything in this package is a pure, synchronous transform over in-memory data.
// A Transcript is single-owner: callers must not share one between goroutines.
package transcript

import (
	"math"
	"strings"
)

// Item is one recognized word.
type Item struct {
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Speaker    *int    `json:"speaker,omitempty"`
}

// Speaker returns a pointer suitable for Item.Speaker.
func Speaker(id int) *int {
	return &id
}

// HasSpeaker reports whether a speaker id has been assigned.
func (i Item) HasSpeaker() bool {
	return i.Speaker != nil
}

// SpeakerID returns the assigned speaker, or -1 when none is assigned.
func (i Item) SpeakerID() int {
	if i.Speaker == nil {
		return -1
	}
	return *i.Speaker
}

// WithSpeaker returns a copy of the item attributed to the given speaker.
func (i Item) WithSpeaker(id int) Item {
	i.Speaker = Speaker(id)
	return i
}

// SameWord compares the words of two items case-insensitively.
func (i Item) SameWord(other Item) bool {
	return strings.EqualFold(i.Word, other.Word)
}

// clone copies the item, including its speaker pointer target.
func (i Item) clone() Item {
	if i.Speaker != nil {
		i.Speaker = Speaker(*i.Speaker)
	}
	return i
}

// Transcript is an ordered sequence of items with a read cursor.
type Transcript struct {
	items  []Item
	offset float64
	index  int
}

// New builds a transcript from items, shifting every item by offset seconds. The items
// are copied, so the caller's slice is never modified. After construction all times are
// absolute.
func New(items []Item, offset float64) *Transcript {
	copied := make([]Item, len(items))
	for i, item := range items {
		item = item.clone()
		if offset != 0 {
			item.StartTime += offset
			item.EndTime += offset
		}
		copied[i] = item
	}
	return &Transcript{items: copied, offset: offset}
}

// wrap adopts items without copying or shifting them.
func wrap(items []Item, offset float64) *Transcript {
	return &Transcript{items: items, offset: offset}
}

// Read consumes and returns the next n items. Fewer are returned at the end of the stream.
func (t *Transcript) Read(n int) []Item {
	items := t.Peek(n)
	t.index += len(items)
	return items
}

// Peek returns the next n items without advancing the cursor.
func (t *Transcript) Peek(n int) []Item {
	if n <= 0 || t.index >= len(t.items) {
		return nil
	}
	end := t.index + n
	if end > len(t.items) {
		end = len(t.items)
	}
	return t.items[t.index:end]
}

// Reset rewinds the cursor to the first item.
func (t *Transcript) Reset() {
	t.index = 0
}

// Position returns the cursor position.
func (t *Transcript) Position() int {
	return t.index
}

// Remaining returns the number of unread items.
func (t *Transcript) Remaining() int {
	return len(t.items) - t.index
}

// Len returns the number of items.
func (t *Transcript) Len() int {
	return len(t.items)
}

// Offset returns the absolute offset applied at construction.
func (t *Transcript) Offset() float64 {
	return t.offset
}

// Items returns the underlying items. The slice must not be modified by the caller.
func (t *Transcript) Items() []Item {
	return t.items
}

// Words returns the words of the transcript in order.
func (t *Transcript) Words() []string {
	words := make([]string, len(t.items))
	for i, item := range t.items {
		words[i] = item.Word
	}
	return words
}

// round3 rounds to millisecond precision.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
