// Package card provides the card variants a learner can study and the
// expansion of cards into test questions.
package card

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/at-ishikawa/gaku/internal/question"
)

// Type discriminates the card variants. The set is closed: question
// generation dispatches on it exhaustively.
type Type string

const (
	TypeVocabulary   Type = "VOCABULARY"
	TypeKanji        Type = "KANJI"
	TypeRadical      Type = "RADICAL"
	TypeQuestion     Type = "QUESTION"
	TypeOnomatopoeia Type = "ONOMATOPOEIA"
	TypeMulti        Type = "MULTI_CARD"
)

// Source describes where a card came from, typically a book or a website.
// Section narrows the source down to a chapter, lesson or URL.
type Source struct {
	ID      string `json:"source_id" yaml:"source_id" db:"source_id"`
	Name    string `json:"source_name" yaml:"source_name" db:"source_name"`
	Section string `json:"source_section,omitempty" yaml:"source_section,omitempty" db:"source_section"`
}

// NewSource creates a Source with a generated ID.
func NewSource(name, section string) Source {
	return Source{
		ID:      uuid.NewString(),
		Name:    name,
		Section: section,
	}
}

// MeaningEntry groups the meanings of a vocabulary card for one part of
// speech. Entries with TestEnabled false are kept for display but never
// generate answers.
type MeaningEntry struct {
	PartOfSpeech string                `json:"part_of_speech" yaml:"part_of_speech"`
	TestEnabled  bool                  `json:"test_enabled" yaml:"test_enabled"`
	Meanings     []question.AnswerText `json:"meanings" yaml:"meanings"`
}

// VocabularyData is the variant payload of a vocabulary card.
type VocabularyData struct {
	Writing     string                `json:"writing" yaml:"writing"`
	ReadingType question.AnswerType   `json:"reading_type" yaml:"reading_type"`
	Readings    []question.AnswerText `json:"readings" yaml:"readings"`
	Meanings    []MeaningEntry        `json:"meanings" yaml:"meanings"`
}

// KanjiData is the variant payload of a kanji card. Kun readings may carry
// okurigana after a "." separator; generation strips it.
type KanjiData struct {
	Writing     string                `json:"writing" yaml:"writing"`
	OnReadings  []question.AnswerText `json:"on_readings" yaml:"on_readings"`
	KunReadings []question.AnswerText `json:"kun_readings" yaml:"kun_readings"`
	Meanings    []question.AnswerText `json:"meanings" yaml:"meanings"`
	Radical     string                `json:"radical,omitempty" yaml:"radical,omitempty"`
}

// RadicalData is the variant payload of a radical card.
type RadicalData struct {
	Writing  string                `json:"writing" yaml:"writing"`
	Meanings []question.AnswerText `json:"meanings" yaml:"meanings"`
	Reading  string                `json:"reading" yaml:"reading"`
}

// QuestionData is the variant payload of a freeform question card. The
// writing field holds the question to ask.
type QuestionData struct {
	Writing string            `json:"writing" yaml:"writing"`
	Answers []question.Answer `json:"answers" yaml:"answers"`
}

// OnomatopoeiaDefinition is one definition of an onomatopoeia with its
// equivalent glosses.
type OnomatopoeiaDefinition struct {
	Equivalents []question.AnswerText `json:"equivalent" yaml:"equivalent"`
	Meaning     string                `json:"meaning" yaml:"meaning"`
}

// OnomatopoeiaData is the variant payload of an onomatopoeia card.
type OnomatopoeiaData struct {
	Writing     string                   `json:"writing" yaml:"writing"`
	KanaWriting []string                 `json:"kana_writing" yaml:"kana_writing"`
	Definitions []OnomatopoeiaDefinition `json:"definitions" yaml:"definitions"`
}

// MultiData is the variant payload of a card grouping several member cards
// into combined questions. Member IDs reference the authoritative cards in
// storage; Members holds the snapshots used for generation. The writing of a
// multi card is always derived from its members, never stored.
type MultiData struct {
	GroupType    Type     `json:"multicard_type" yaml:"multicard_type"`
	CardIDs      []string `json:"card_ids" yaml:"card_ids"`
	Members      []Card   `json:"cards" yaml:"cards"`
	TestReadings bool     `json:"test_readings" yaml:"test_readings"`
	TestMeanings bool     `json:"test_meanings" yaml:"test_meanings"`
}

// Card is a learning unit. Exactly one variant payload matching Type is set.
type Card struct {
	ID              string              `json:"card_id" yaml:"card_id"`
	Type            Type                `json:"card_type" yaml:"card_type"`
	DictionaryID    *int64              `json:"dictionary_id,omitempty" yaml:"dictionary_id,omitempty"`
	Note            string              `json:"note,omitempty" yaml:"note,omitempty"`
	Hint            string              `json:"hint,omitempty" yaml:"hint,omitempty"`
	CustomQuestions []question.Question `json:"custom_questions,omitempty" yaml:"custom_questions,omitempty"`

	Vocabulary   *VocabularyData   `json:"vocabulary,omitempty" yaml:"vocabulary,omitempty"`
	Kanji        *KanjiData        `json:"kanji,omitempty" yaml:"kanji,omitempty"`
	Radical      *RadicalData      `json:"radical,omitempty" yaml:"radical,omitempty"`
	Question     *QuestionData     `json:"question,omitempty" yaml:"question,omitempty"`
	Onomatopoeia *OnomatopoeiaData `json:"onomatopoeia,omitempty" yaml:"onomatopoeia,omitempty"`
	Multi        *MultiData        `json:"multi,omitempty" yaml:"multi,omitempty"`
}

// New creates an empty card of the given type with a generated ID. The
// caller fills in the matching variant payload.
func New(cardType Type) Card {
	return Card{
		ID:   uuid.NewString(),
		Type: cardType,
	}
}

// Validate checks that the variant payload matches the card type.
func (c Card) Validate() error {
	var want, got int
	for _, payload := range []struct {
		cardType Type
		set      bool
	}{
		{TypeVocabulary, c.Vocabulary != nil},
		{TypeKanji, c.Kanji != nil},
		{TypeRadical, c.Radical != nil},
		{TypeQuestion, c.Question != nil},
		{TypeOnomatopoeia, c.Onomatopoeia != nil},
		{TypeMulti, c.Multi != nil},
	} {
		if payload.set {
			got++
			if payload.cardType != c.Type {
				return fmt.Errorf("card %s has type %s but carries a %s payload", c.ID, c.Type, payload.cardType)
			}
		}
		if payload.cardType == c.Type {
			want++
		}
	}
	if want == 0 {
		return fmt.Errorf("card %s has unsupported type %s", c.ID, c.Type)
	}
	if got != 1 {
		return fmt.Errorf("card %s of type %s must carry exactly one variant payload, has %d", c.ID, c.Type, got)
	}
	return nil
}

// Writing returns the card's display writing. For a multi card the writing
// is recomputed from the member snapshots.
func (c Card) Writing() string {
	switch c.Type {
	case TypeVocabulary:
		return c.Vocabulary.Writing
	case TypeKanji:
		return c.Kanji.Writing
	case TypeRadical:
		return c.Radical.Writing
	case TypeQuestion:
		return c.Question.Writing
	case TypeOnomatopoeia:
		return c.Onomatopoeia.Writing
	case TypeMulti:
		writings := make([]string, 0, len(c.Multi.Members))
		for _, member := range c.Multi.Members {
			writings = append(writings, member.Writing())
		}
		return strings.Join(writings, " - ")
	}
	return ""
}

// Clone returns a deep copy of the card. Sessions clone their input so that
// card edits elsewhere never touch a running session.
func (c Card) Clone() Card {
	clone := c
	clone.CustomQuestions = cloneQuestions(c.CustomQuestions)
	if c.Vocabulary != nil {
		data := *c.Vocabulary
		data.Readings = append([]question.AnswerText(nil), c.Vocabulary.Readings...)
		data.Meanings = make([]MeaningEntry, len(c.Vocabulary.Meanings))
		for i, entry := range c.Vocabulary.Meanings {
			entry.Meanings = append([]question.AnswerText(nil), entry.Meanings...)
			data.Meanings[i] = entry
		}
		clone.Vocabulary = &data
	}
	if c.Kanji != nil {
		data := *c.Kanji
		data.OnReadings = append([]question.AnswerText(nil), c.Kanji.OnReadings...)
		data.KunReadings = append([]question.AnswerText(nil), c.Kanji.KunReadings...)
		data.Meanings = append([]question.AnswerText(nil), c.Kanji.Meanings...)
		clone.Kanji = &data
	}
	if c.Radical != nil {
		data := *c.Radical
		data.Meanings = append([]question.AnswerText(nil), c.Radical.Meanings...)
		clone.Radical = &data
	}
	if c.Question != nil {
		data := *c.Question
		data.Answers = cloneAnswers(c.Question.Answers)
		clone.Question = &data
	}
	if c.Onomatopoeia != nil {
		data := *c.Onomatopoeia
		data.KanaWriting = append([]string(nil), c.Onomatopoeia.KanaWriting...)
		data.Definitions = make([]OnomatopoeiaDefinition, len(c.Onomatopoeia.Definitions))
		for i, def := range c.Onomatopoeia.Definitions {
			def.Equivalents = append([]question.AnswerText(nil), def.Equivalents...)
			data.Definitions[i] = def
		}
		clone.Onomatopoeia = &data
	}
	if c.Multi != nil {
		data := *c.Multi
		data.CardIDs = append([]string(nil), c.Multi.CardIDs...)
		data.Members = make([]Card, len(c.Multi.Members))
		for i, member := range c.Multi.Members {
			data.Members[i] = member.Clone()
		}
		clone.Multi = &data
	}
	return clone
}

func cloneQuestions(questions []question.Question) []question.Question {
	if questions == nil {
		return nil
	}
	cloned := make([]question.Question, len(questions))
	for i, q := range questions {
		q.Groups = cloneGroups(q.Groups)
		cloned[i] = q
	}
	return cloned
}

func cloneGroups(groups []question.AnswerGroup) []question.AnswerGroup {
	if groups == nil {
		return nil
	}
	cloned := make([]question.AnswerGroup, len(groups))
	for i, group := range groups {
		group.Answers = cloneAnswers(group.Answers)
		cloned[i] = group
	}
	return cloned
}

func cloneAnswers(answers []question.Answer) []question.Answer {
	if answers == nil {
		return nil
	}
	cloned := make([]question.Answer, len(answers))
	for i, answer := range answers {
		answer.Answers = append([]question.AnswerText(nil), answer.Answers...)
		cloned[i] = answer
	}
	return cloned
}
