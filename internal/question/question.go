// Package question provides test question data structures and answer matching.
package question

import (
	"fmt"

	"github.com/google/uuid"
)

// AnswerType selects the matching rules applied to a submitted answer.
type AnswerType string

const (
	// AnswerTypeRomaji marks free-gloss answers in Latin script. Matching
	// accepts parenthetical-stripped and suffix-stripped variants.
	AnswerTypeRomaji AnswerType = "ROMAJI"
	// AnswerTypeHiragana marks kana answers that must match exactly.
	AnswerTypeHiragana AnswerType = "HIRAGANA"
	// AnswerTypeKatakana marks kana answers that must match exactly.
	AnswerTypeKatakana AnswerType = "KATAKANA"
)

// Exact reports whether the answer type requires exact kana matching
// instead of the free-gloss rules.
func (t AnswerType) Exact() bool {
	return t == AnswerTypeHiragana || t == AnswerTypeKatakana
}

// AnswerText is one acceptable answer text. Required texts must appear in the
// learner's response for the answer to be judged correct.
type AnswerText struct {
	Text     string `json:"answer_text" yaml:"answer_text"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Response maps answer IDs to the learner's comma separated answer texts.
type Response map[string]string

// Answer is one gradable field within a question.
type Answer struct {
	ID      string       `json:"answer_id" yaml:"answer_id"`
	Type    AnswerType   `json:"answer_type" yaml:"answer_type"`
	Header  string       `json:"header" yaml:"header"`
	Hint    string       `json:"hint,omitempty" yaml:"hint,omitempty"`
	Note    string       `json:"note,omitempty" yaml:"note,omitempty"`
	Answers []AnswerText `json:"answers" yaml:"answers"`
}

// NewAnswer creates an Answer with a generated ID.
func NewAnswer(answerType AnswerType, header string, answers []AnswerText) Answer {
	return Answer{
		ID:      uuid.NewString(),
		Type:    answerType,
		Header:  header,
		Answers: answers,
	}
}

// NumRequired returns the number of required answer texts.
func (a Answer) NumRequired() int {
	var count int
	for _, text := range a.Answers {
		if text.Required {
			count++
		}
	}
	return count
}

// CountLabel returns a human readable count of required and total answers,
// e.g. ", 2/5 required" or ", 3 answers".
func (a Answer) CountLabel() string {
	numRequired := a.NumRequired()
	numTotal := len(a.Answers)
	if numRequired > 0 {
		return fmt.Sprintf(", %d/%d required", numRequired, numTotal)
	}
	if numTotal == 1 {
		return fmt.Sprintf(", %d answer", numTotal)
	}
	return fmt.Sprintf(", %d answers", numTotal)
}

// AnswerGroup is a named cluster of answers. A question with several groups
// asks for several independent answer fields at once.
type AnswerGroup struct {
	ID      string   `json:"group_id" yaml:"group_id"`
	Header  string   `json:"header,omitempty" yaml:"header,omitempty"`
	Answers []Answer `json:"answers" yaml:"answers"`
}

// NewAnswerGroup creates an AnswerGroup with a generated ID.
func NewAnswerGroup(answers []Answer) AnswerGroup {
	return AnswerGroup{
		ID:      uuid.NewString(),
		Answers: answers,
	}
}

// Question is a single testable prompt derived from a card.
type Question struct {
	ID       string        `json:"question_id" yaml:"question_id"`
	ParentID string        `json:"parent_id" yaml:"parent_id"`
	Header   string        `json:"header" yaml:"header"`
	Prompt   string        `json:"question" yaml:"question"`
	Hint     string        `json:"hint,omitempty" yaml:"hint,omitempty"`
	Groups   []AnswerGroup `json:"answers" yaml:"answers"`
}

// NewQuestion creates a Question with a generated ID.
func NewQuestion(parentID, header, prompt, hint string, groups []AnswerGroup) Question {
	return Question{
		ID:       uuid.NewString(),
		ParentID: parentID,
		Header:   header,
		Prompt:   prompt,
		Hint:     hint,
		Groups:   groups,
	}
}

// Validate checks the construction invariant: a question carries at least one
// answer group, every group at least one answer and every answer at least one
// answer text.
func (q Question) Validate() error {
	if len(q.Groups) == 0 {
		return fmt.Errorf("question %q has no answer groups", q.Prompt)
	}
	for _, group := range q.Groups {
		if len(group.Answers) == 0 {
			return fmt.Errorf("question %q has an empty answer group", q.Prompt)
		}
		for _, answer := range group.Answers {
			if len(answer.Answers) == 0 {
				return fmt.Errorf("question %q has an answer %q without answer texts", q.Prompt, answer.Header)
			}
		}
	}
	return nil
}

// AnswerIDs returns the IDs of all answers across all groups.
func (q Question) AnswerIDs() []string {
	var ids []string
	for _, group := range q.Groups {
		for _, answer := range group.Answers {
			ids = append(ids, answer.ID)
		}
	}
	return ids
}

// Check reports whether the response answers every answer of every group
// correctly.
func (q Question) Check(response Response) bool {
	for _, group := range q.Groups {
		for _, answer := range group.Answers {
			if matched, _ := answer.Check(response); !matched {
				return false
			}
		}
	}
	return true
}

// CheckDetailed grades the response and collects the unexpected answer texts
// per answer ID for answers that did not match.
func (q Question) CheckDetailed(response Response) (bool, map[string][]string) {
	allCorrect := true
	unexpected := make(map[string][]string)
	for _, group := range q.Groups {
		for _, answer := range group.Answers {
			matched, extra := answer.Check(response)
			if !matched {
				allCorrect = false
				unexpected[answer.ID] = extra
			}
		}
	}
	return allCorrect, unexpected
}
