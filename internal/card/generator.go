package card

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/at-ishikawa/gaku/internal/question"
)

// GeneratorConfig carries the settings question generation depends on.
type GeneratorConfig struct {
	// RadicalsTestMeaning adds a meanings answer to radical questions in
	// addition to the reading answer.
	RadicalsTestMeaning bool
}

// Generator expands cards into test questions. Generation is deterministic
// except for the answer group order of multi card questions, which is
// shuffled with the injected random source.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil rng falls back to a time seeded
// source; tests inject a fixed seed to assert exact orderings.
func NewGenerator(cfg GeneratorConfig, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{cfg: cfg, rng: rng}
}

// Generate returns the test questions for a card: the generated questions of
// its variant followed by the card's custom questions in their original
// order. A card that cannot produce a single valid question is an error,
// never silently skipped.
func (g *Generator) Generate(c Card) ([]question.Question, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var questions []question.Question
	var err error
	switch c.Type {
	case TypeVocabulary:
		questions, err = g.vocabularyQuestions(c)
	case TypeKanji:
		questions, err = g.kanjiQuestions(c)
	case TypeRadical:
		questions = []question.Question{g.radicalQuestion(c)}
	case TypeQuestion:
		questions = []question.Question{g.customQuestion(c)}
	case TypeOnomatopoeia:
		questions, err = g.onomatopoeiaQuestions(c)
	case TypeMulti:
		questions, err = g.multiQuestions(c)
	default:
		err = fmt.Errorf("card type %s not supported", c.Type)
	}
	if err != nil {
		return nil, err
	}

	questions = append(questions, c.CustomQuestions...)
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("card %s generated an invalid question: %w", c.ID, err)
		}
	}
	return questions, nil
}

func (g *Generator) vocabularyQuestions(c Card) ([]question.Question, error) {
	meanings, err := g.vocabularyMeaningsQuestion(c)
	if err != nil {
		return nil, err
	}
	questions := []question.Question{meanings}

	if len(c.Vocabulary.Readings) > 0 {
		questions = append(questions, g.vocabularyReadingsQuestion(c))
	}
	return questions, nil
}

func (g *Generator) vocabularyMeaningsQuestion(c Card) (question.Question, error) {
	data := c.Vocabulary

	var answers []question.Answer
	for i, entry := range data.Meanings {
		if !entry.TestEnabled {
			continue
		}

		header := fmt.Sprintf("%d. Vocab meanings\n", i+1)
		if entry.PartOfSpeech != "" {
			header = fmt.Sprintf("%d. Vocab meanings\n(%s)", i+1, entry.PartOfSpeech)
		}

		answer := question.NewAnswer(question.AnswerTypeRomaji, header, entry.Meanings)
		answer.Hint = c.Hint
		answers = append(answers, answer)
	}
	if len(answers) == 0 {
		return question.Question{}, fmt.Errorf("no meanings to test for card %s (%s)", c.ID, data.Writing)
	}

	hint := c.Hint
	if hint == "" {
		hint = joinAnswerTexts(data.Readings)
	}
	return question.NewQuestion(c.ID, "Vocab meaning", data.Writing, hint, []question.AnswerGroup{
		question.NewAnswerGroup(answers),
	}), nil
}

func (g *Generator) vocabularyReadingsQuestion(c Card) question.Question {
	data := c.Vocabulary

	readingType := data.ReadingType
	if readingType == "" {
		readingType = question.AnswerTypeHiragana
	}

	hint := c.Hint
	if hint == "" && len(data.Meanings) > 0 {
		hint = joinAnswerTexts(data.Meanings[0].Meanings)
	}
	return question.NewQuestion(c.ID, "Vocab reading", data.Writing, hint, []question.AnswerGroup{
		question.NewAnswerGroup([]question.Answer{
			question.NewAnswer(readingType, "Vocab readings", data.Readings),
		}),
	})
}

func (g *Generator) kanjiQuestions(c Card) ([]question.Question, error) {
	readings, err := g.kanjiReadingsQuestion(c)
	if err != nil {
		return nil, err
	}
	return []question.Question{g.kanjiMeaningsQuestion(c), readings}, nil
}

func (g *Generator) kanjiMeaningsQuestion(c Card) question.Question {
	data := c.Kanji
	return question.NewQuestion(c.ID, "Kanji meaning", data.Writing, "", []question.AnswerGroup{
		question.NewAnswerGroup([]question.Answer{
			question.NewAnswer(question.AnswerTypeRomaji, "Kanji meanings", data.Meanings),
		}),
	})
}

func (g *Generator) kanjiReadingsQuestion(c Card) (question.Question, error) {
	data := c.Kanji

	var answers []question.Answer
	if len(data.OnReadings) > 0 {
		answers = append(answers, question.NewAnswer(question.AnswerTypeKatakana, "On Readings", data.OnReadings))
	}
	if len(data.KunReadings) > 0 {
		answers = append(answers, question.NewAnswer(question.AnswerTypeHiragana, "Kun Readings", stripOkurigana(data.KunReadings)))
	}
	if len(answers) == 0 {
		return question.Question{}, fmt.Errorf("kanji card %s (%s) has no readings to test", c.ID, data.Writing)
	}

	return question.NewQuestion(c.ID, "Kanji readings", data.Writing, joinAnswerTexts(data.Meanings), []question.AnswerGroup{
		question.NewAnswerGroup(answers),
	}), nil
}

// stripOkurigana cuts each kun reading at the first "." separator and drops
// duplicates while preserving first-seen order.
func stripOkurigana(readings []question.AnswerText) []question.AnswerText {
	seen := make(map[string]struct{}, len(readings))
	stripped := make([]question.AnswerText, 0, len(readings))
	for _, reading := range readings {
		text, _, _ := strings.Cut(reading.Text, ".")
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		stripped = append(stripped, question.AnswerText{Text: text})
	}
	return stripped
}

func (g *Generator) radicalQuestion(c Card) question.Question {
	data := c.Radical

	var answers []question.Answer
	if g.cfg.RadicalsTestMeaning {
		answers = append(answers, question.NewAnswer(question.AnswerTypeRomaji, "Radical meanings", data.Meanings))
	}
	answers = append(answers, question.NewAnswer(question.AnswerTypeHiragana, "Radical reading", []question.AnswerText{
		{Text: data.Reading},
	}))

	return question.NewQuestion(c.ID, "Radical", data.Writing, "", []question.AnswerGroup{
		question.NewAnswerGroup(answers),
	})
}

func (g *Generator) customQuestion(c Card) question.Question {
	return question.NewQuestion(c.ID, "Custom question", c.Question.Writing, c.Hint, []question.AnswerGroup{
		question.NewAnswerGroup(c.Question.Answers),
	})
}

func (g *Generator) onomatopoeiaQuestions(c Card) ([]question.Question, error) {
	data := c.Onomatopoeia

	answers := make([]question.Answer, 0, len(data.Definitions))
	for i, definition := range data.Definitions {
		answers = append(answers, question.NewAnswer(
			question.AnswerTypeRomaji,
			fmt.Sprintf("%d. meaning", i+1),
			definition.Equivalents,
		))
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("onomatopoeia card %s (%s) has no definitions to test", c.ID, data.Writing)
	}

	prompt := strings.Join(data.KanaWriting, ", ")
	return []question.Question{
		question.NewQuestion(c.ID, "Onomatopoeia meaning", prompt, c.Hint, []question.AnswerGroup{
			question.NewAnswerGroup(answers),
		}),
	}, nil
}

func (g *Generator) multiQuestions(c Card) ([]question.Question, error) {
	data := c.Multi
	if len(data.CardIDs) == 0 && len(data.Members) == 0 {
		return nil, fmt.Errorf("multi card %s has no member cards", c.ID)
	}

	writing := c.Writing()

	var questions []question.Question
	switch data.GroupType {
	case TypeRadical:
		q, err := g.multiRadicalQuestion(c, writing)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)

	case TypeVocabulary, TypeKanji:
		if data.TestMeanings {
			q, err := g.multiMemberQuestion(c, writing, "Meanings", g.memberMeaningsQuestion)
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
		}
		if data.TestReadings {
			q, err := g.multiMemberQuestion(c, writing, "Readings", g.memberReadingsQuestion)
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
		}

	default:
		return nil, fmt.Errorf("multi card group type %s not supported", data.GroupType)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions generated for multi card %s", c.ID)
	}
	return questions, nil
}

// multiRadicalQuestion combines the single answer group of every member
// radical's question into one question. A member producing more than one
// question or answer group cannot be represented and fails generation.
func (g *Generator) multiRadicalQuestion(c Card, writing string) (question.Question, error) {
	var groups []question.AnswerGroup
	for _, member := range c.Multi.Members {
		memberQuestions, err := g.Generate(member)
		if err != nil {
			return question.Question{}, fmt.Errorf("multi card %s member %s: %w", c.ID, member.ID, err)
		}
		if len(memberQuestions) != 1 {
			return question.Question{}, fmt.Errorf("multi card %s member %s generated %d questions, want 1", c.ID, member.ID, len(memberQuestions))
		}
		group, err := singleAnswerGroup(memberQuestions[0])
		if err != nil {
			return question.Question{}, fmt.Errorf("multi card %s member %s: %w", c.ID, member.ID, err)
		}
		group.Header = member.Writing()
		groups = append(groups, group)
	}

	g.rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})
	return question.NewQuestion(c.ID, "Radical", writing, c.Hint, groups), nil
}

// multiMemberQuestion builds one combined question from a per-member
// sub-question, relabeling each member's answer group with its writing.
func (g *Generator) multiMemberQuestion(
	c Card,
	writing string,
	header string,
	memberQuestion func(Card) (question.Question, error),
) (question.Question, error) {
	var groups []question.AnswerGroup
	for _, member := range c.Multi.Members {
		q, err := memberQuestion(member)
		if err != nil {
			return question.Question{}, fmt.Errorf("multi card %s member %s: %w", c.ID, member.ID, err)
		}
		group, err := singleAnswerGroup(q)
		if err != nil {
			return question.Question{}, fmt.Errorf("multi card %s member %s: %w", c.ID, member.ID, err)
		}
		group.Header = member.Writing()
		groups = append(groups, group)
	}

	g.rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})
	return question.NewQuestion(c.ID, header, writing, c.Hint, groups), nil
}

func (g *Generator) memberMeaningsQuestion(member Card) (question.Question, error) {
	switch member.Type {
	case TypeVocabulary:
		return g.vocabularyMeaningsQuestion(member)
	case TypeKanji:
		return g.kanjiMeaningsQuestion(member), nil
	}
	return question.Question{}, fmt.Errorf("member card type %s not supported in a multi card", member.Type)
}

func (g *Generator) memberReadingsQuestion(member Card) (question.Question, error) {
	switch member.Type {
	case TypeVocabulary:
		if len(member.Vocabulary.Readings) == 0 {
			return question.Question{}, fmt.Errorf("vocabulary card %s has no readings to test", member.ID)
		}
		return g.vocabularyReadingsQuestion(member), nil
	case TypeKanji:
		return g.kanjiReadingsQuestion(member)
	}
	return question.Question{}, fmt.Errorf("member card type %s not supported in a multi card", member.Type)
}

func singleAnswerGroup(q question.Question) (question.AnswerGroup, error) {
	if len(q.Groups) != 1 {
		return question.AnswerGroup{}, fmt.Errorf("question %q has %d answer groups, want 1", q.Header, len(q.Groups))
	}
	return q.Groups[0], nil
}

func joinAnswerTexts(texts []question.AnswerText) string {
	joined := make([]string, 0, len(texts))
	for _, text := range texts {
		joined = append(joined, text.Text)
	}
	return strings.Join(joined, ", ")
}
