// Package statement groups a reconciled transcript into speaker statements.
package statement

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/transcript"
)

const terminatingPunctuation = ".?!"

// Build splits items into sentences at terminating punctuation, attributes each sentence
// to its dominant speaker and merges consecutive sentences by the same speaker. Words
// after the last terminating punctuation form a final sentence. items is not modified.
func Build(episodeKey string, items []transcript.Item) []model.Statement {
	var statements []model.Statement

	start := 0
	for i, item := range items {
		if !terminates(item.Word) && i != len(items)-1 {
			continue
		}
		sentence := items[start : i+1]
		start = i + 1

		speaker := dominantSpeaker(sentence)
		words := toWords(sentence)

		if n := len(statements); n > 0 && statements[n-1].Speaker == speaker {
			previous := &statements[n-1]
			previous.EndTime = sentence[len(sentence)-1].EndTime
			previous.Words = append(previous.Words, words...)
			continue
		}

		statements = append(statements, model.Statement{
			ID:         uuid.NewString(),
			EpisodeKey: episodeKey,
			Speaker:    speaker,
			StartTime:  sentence[0].StartTime,
			EndTime:    sentence[len(sentence)-1].EndTime,
			Words:      words,
		})
	}
	return statements
}

func toWords(sentence []transcript.Item) []model.StatementWord {
	words := lo.Map(sentence, func(item transcript.Item, _ int) model.StatementWord {
		return model.StatementWord{Content: item.Word, StartTime: item.StartTime, EndTime: item.EndTime}
	})
	words[0].Content = capitalize(words[0].Content)
	words[len(words)-1].Content = punctuate(words[len(words)-1].Content)
	return words
}

// dominantSpeaker returns the speaker with the most words. Ties go to the lowest id and
// a sentence without any attributed word belongs to speaker 0.
func dominantSpeaker(sentence []transcript.Item) int {
	counts := lo.CountValuesBy(
		lo.Filter(sentence, func(item transcript.Item, _ int) bool { return item.HasSpeaker() }),
		func(item transcript.Item) int { return item.SpeakerID() },
	)

	dominant, most := 0, 0
	for speaker, n := range counts {
		if n > most || (n == most && speaker < dominant) {
			dominant, most = speaker, n
		}
	}
	return dominant
}

func terminates(word string) bool {
	if word == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(word)
	return strings.ContainsRune(terminatingPunctuation, r)
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

func punctuate(word string) string {
	if terminates(word) {
		return word
	}
	return word + "."
}
