package session

import (
	"github.com/at-ishikawa/gaku/internal/scheduler"
)

// Config carries the study settings of a session. The zero value is not
// usable; call withDefaults or use DefaultConfig.
type Config struct {
	// RequiredAnswers is the number of correct responses a question needs
	// before its first mistake.
	RequiredAnswers int `json:"required_answers" yaml:"required_answers"`
	// RepeatsAfterMistake is the number of reinforcement repetitions added
	// after a mistake, on top of the one confirming response.
	RepeatsAfterMistake int `json:"repeats_after_mistake" yaml:"repeats_after_mistake"`
	// NumCurrentQuestions is the size of the working window questions are
	// served from.
	NumCurrentQuestions int `json:"num_current_questions" yaml:"num_current_questions"`
	// ShuffleQuestions permutes the question queue at load and before
	// re-queueing a repeated question.
	ShuffleQuestions bool `json:"shuffle_questions" yaml:"shuffle_questions"`
}

// DefaultConfig returns the study settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		RequiredAnswers:     1,
		RepeatsAfterMistake: 2,
		NumCurrentQuestions: 7,
		ShuffleQuestions:    true,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RequiredAnswers <= 0 {
		c.RequiredAnswers = defaults.RequiredAnswers
	}
	if c.RepeatsAfterMistake <= 0 {
		c.RepeatsAfterMistake = defaults.RepeatsAfterMistake
	}
	if c.NumCurrentQuestions <= 0 {
		c.NumCurrentQuestions = defaults.NumCurrentQuestions
	}
	return c
}

// QuestionProgress tracks how many correct responses a question still needs
// and how many mistakes it accumulated over the session.
type QuestionProgress struct {
	NeedsCorrectResponses int `json:"needs_correct_responses"`
	Mistakes              int `json:"mistakes"`
}

func (p *QuestionProgress) markCorrect() int {
	if p.NeedsCorrectResponses > 0 {
		p.NeedsCorrectResponses--
	}
	return p.NeedsCorrectResponses
}

func (p *QuestionProgress) markMistake(repeatsAfterMistake int) {
	p.NeedsCorrectResponses = repeatsAfterMistake + 1
	p.Mistakes++
}

// CardProgress is the per-card session state: the scheduling record the card
// entered the session with, the progress of each generated question, and the
// guard that keeps the scheduler from being marked twice in one pass.
type CardProgress struct {
	CardID          string                       `json:"card_id"`
	Record          scheduler.Record             `json:"record"`
	Questions       map[string]*QuestionProgress `json:"questions"`
	NumMistakes     int                          `json:"num_mistakes"`
	SchedulerMarked bool                         `json:"scheduler_marked"`
}

func newCardProgress(cardID string, record scheduler.Record, questionIDs []string, requiredAnswers int) *CardProgress {
	questions := make(map[string]*QuestionProgress, len(questionIDs))
	for _, id := range questionIDs {
		questions[id] = &QuestionProgress{NeedsCorrectResponses: requiredAnswers}
	}
	return &CardProgress{
		CardID:    cardID,
		Record:    record,
		Questions: questions,
	}
}

// markCorrect decrements the remaining need of a question and returns the new
// remaining count.
func (p *CardProgress) markCorrect(questionID string) int {
	return p.Questions[questionID].markCorrect()
}

// markMistake resets the question's remaining need and counts the mistake on
// both the question and the card.
func (p *CardProgress) markMistake(questionID string, repeatsAfterMistake int) {
	p.Questions[questionID].markMistake(repeatsAfterMistake)
	p.NumMistakes++
}

// IsCompleted reports whether every question of the card reached zero
// remaining need.
func (p *CardProgress) IsCompleted() bool {
	for _, progress := range p.Questions {
		if progress.NeedsCorrectResponses != 0 {
			return false
		}
	}
	return true
}
