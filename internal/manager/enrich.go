package manager

import (
	"context"
	"fmt"
	"unicode"

	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/question"
)

// enrichCards appends extra custom questions to the selected cards: kanji
// meaning questions for the kanji appearing in a vocabulary word, and the
// radical question for a kanji card. Cards referencing kanji or radicals not
// in storage are left as they are.
func (m *Manager) enrichCards(ctx context.Context, cards []card.Card) ([]card.Card, error) {
	for i, c := range cards {
		switch {
		case c.Type == card.TypeVocabulary && m.study.PracticeKanjiForWords:
			extras, err := m.kanjiQuestionsForWord(ctx, c)
			if err != nil {
				return nil, err
			}
			cards[i].CustomQuestions = append(cards[i].CustomQuestions, extras...)
		case c.Type == card.TypeKanji && m.study.PracticeRadicalsForKanji:
			extra, err := m.radicalQuestionForKanji(ctx, c)
			if err != nil {
				return nil, err
			}
			if extra != nil {
				cards[i].CustomQuestions = append(cards[i].CustomQuestions, *extra)
			}
		}
	}
	return cards, nil
}

func (m *Manager) kanjiQuestionsForWord(ctx context.Context, c card.Card) ([]question.Question, error) {
	var extras []question.Question
	seen := map[rune]bool{}
	for _, r := range c.Vocabulary.Writing {
		if !unicode.Is(unicode.Han, r) || seen[r] {
			continue
		}
		seen[r] = true

		kanji, found, err := m.cards.GetCardByKey(ctx, string(r), card.TypeKanji)
		if err != nil {
			return nil, fmt.Errorf("look up kanji %s > %w", string(r), err)
		}
		if !found || len(kanji.Kanji.Meanings) == 0 {
			continue
		}

		answer := question.NewAnswer(question.AnswerTypeRomaji, "Kanji meanings", kanji.Kanji.Meanings)
		extras = append(extras, question.NewQuestion(
			c.ID,
			"Kanji",
			kanji.Kanji.Writing,
			kanji.Hint,
			[]question.AnswerGroup{question.NewAnswerGroup([]question.Answer{answer})},
		))
	}
	return extras, nil
}

func (m *Manager) radicalQuestionForKanji(ctx context.Context, c card.Card) (*question.Question, error) {
	if c.Kanji.Radical == "" {
		return nil, nil
	}

	radical, found, err := m.cards.GetCardByKey(ctx, c.Kanji.Radical, card.TypeRadical)
	if err != nil {
		return nil, fmt.Errorf("look up radical %s > %w", c.Kanji.Radical, err)
	}
	if !found {
		return nil, nil
	}

	var answers []question.Answer
	if len(radical.Radical.Meanings) > 0 {
		answers = append(answers, question.NewAnswer(question.AnswerTypeRomaji, "Radical meanings", radical.Radical.Meanings))
	}
	if radical.Radical.Reading != "" {
		answers = append(answers, question.NewAnswer(question.AnswerTypeHiragana, "Radical reading", []question.AnswerText{
			{Text: radical.Radical.Reading, Required: true},
		}))
	}
	if len(answers) == 0 {
		return nil, nil
	}

	q := question.NewQuestion(
		c.ID,
		"Radical",
		radical.Radical.Writing,
		radical.Hint,
		[]question.AnswerGroup{question.NewAnswerGroup(answers)},
	)
	return &q, nil
}
