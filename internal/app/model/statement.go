package model

import (
	"strings"

	"github.com/samber/lo"
)

// StatementWord is one word of a statement.
type StatementWord struct {
	Content   string  `json:"content"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Statement is a run of consecutive sentences by one speaker.
type Statement struct {
	ID         string          `json:"id"`
	EpisodeKey string          `json:"episode_key"`
	Speaker    int             `json:"speaker"`
	StartTime  float64         `json:"start_time"`
	EndTime    float64         `json:"end_time"`
	Words      []StatementWord `json:"words"`
}

// Text joins the words of the statement with spaces.
func (s Statement) Text() string {
	return strings.Join(lo.Map(s.Words, func(w StatementWord, _ int) string { return w.Content }), " ")
}
