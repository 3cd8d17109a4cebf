// Package dictionary looks up Japanese words in the Jisho public API and
// caches responses on disk so repeated imports never hit the network.
package dictionary

import (
	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/question"
)

// Response is the Jisho word search response.
type Response struct {
	Meta struct {
		Status int `json:"status"`
	} `json:"meta"`
	Data []Entry `json:"data"`
}

// Entry is one word in a Jisho response.
type Entry struct {
	Slug     string    `json:"slug"`
	IsCommon bool      `json:"is_common"`
	JLPT     []string  `json:"jlpt"`
	Japanese []Writing `json:"japanese"`
	Senses   []Sense   `json:"senses"`
}

// Writing pairs a written form with its kana reading.
type Writing struct {
	Word    string `json:"word"`
	Reading string `json:"reading"`
}

// Sense is one meaning of a word with its parts of speech.
type Sense struct {
	EnglishDefinitions []string `json:"english_definitions"`
	PartsOfSpeech      []string `json:"parts_of_speech"`
}

// Word returns the entry's primary written form, falling back to the kana
// reading for kana-only words.
func (e Entry) Word() string {
	if len(e.Japanese) == 0 {
		return e.Slug
	}
	if e.Japanese[0].Word != "" {
		return e.Japanese[0].Word
	}
	return e.Japanese[0].Reading
}

// ToCard converts the entry into a vocabulary card. The first reading and the
// first meaning of every sense are required answers; the rest are accepted
// but optional.
func (e Entry) ToCard() card.Card {
	c := card.New(card.TypeVocabulary)

	readings := make([]question.AnswerText, 0, len(e.Japanese))
	seen := map[string]bool{}
	for _, japanese := range e.Japanese {
		if japanese.Reading == "" || seen[japanese.Reading] {
			continue
		}
		seen[japanese.Reading] = true
		readings = append(readings, question.AnswerText{
			Text:     japanese.Reading,
			Required: len(readings) == 0,
		})
	}

	meanings := make([]card.MeaningEntry, 0, len(e.Senses))
	for _, sense := range e.Senses {
		if len(sense.EnglishDefinitions) == 0 {
			continue
		}
		texts := make([]question.AnswerText, 0, len(sense.EnglishDefinitions))
		for i, definition := range sense.EnglishDefinitions {
			texts = append(texts, question.AnswerText{
				Text:     definition,
				Required: i == 0,
			})
		}
		partOfSpeech := ""
		if len(sense.PartsOfSpeech) > 0 {
			partOfSpeech = sense.PartsOfSpeech[0]
		}
		meanings = append(meanings, card.MeaningEntry{
			PartOfSpeech: partOfSpeech,
			TestEnabled:  true,
			Meanings:     texts,
		})
	}

	c.Vocabulary = &card.VocabularyData{
		Writing:     e.Word(),
		ReadingType: question.AnswerTypeHiragana,
		Readings:    readings,
		Meanings:    meanings,
	}
	return c
}
