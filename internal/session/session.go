// Package session implements the study session state machine: a windowed
// question queue with mistake driven repetition and deferred scheduler
// updates at card completion.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/question"
	"github.com/at-ishikawa/gaku/internal/scheduler"
)

var (
	// ErrNoCurrentQuestion is returned when an operation needs an outstanding
	// question and none is in flight.
	ErrNoCurrentQuestion = errors.New("no current question")
	// ErrQuestionMismatch is returned when the supplied question ID does not
	// match the outstanding question.
	ErrQuestionMismatch = errors.New("question ID does not match the current question")
	// ErrAnswerMismatch is returned when the submitted response does not
	// address exactly the answer IDs of the outstanding question.
	ErrAnswerMismatch = errors.New("response does not match the answer IDs of the current question")
	// ErrNotFinished is returned when a practice mode is requested while the
	// session still has open questions.
	ErrNotFinished = errors.New("session is not finished")
)

// Next is the engine's answer to a next-question request. A zero Question
// pointer means the session is finished.
type Next struct {
	Question *question.Question `json:"next_question,omitempty"`
	Card     *card.Card         `json:"test_card,omitempty"`
}

// Status summarizes session completion.
type Status struct {
	CardsTotal         int `json:"cards_total"`
	CardsCompleted     int `json:"cards_completed"`
	QuestionsTotal     int `json:"questions_total"`
	QuestionsCompleted int `json:"questions_completed"`
}

// Results summarizes a session for reporting. MistakesByCard holds the
// mistake count of every card that had at least one mistake.
type Results struct {
	NumCards            int            `json:"total_cards"`
	NumCardsCorrect     int            `json:"cards_correct"`
	NumQuestions        int            `json:"total_questions"`
	NumQuestionsCorrect int            `json:"questions_correct"`
	CorrectResponses    int            `json:"correct_responses"`
	IncorrectResponses  int            `json:"incorrect_responses"`
	MistakesByCard      map[string]int `json:"mistakes_by_card,omitempty"`
}

type pendingCheck struct {
	questionID string
	correct    bool
}

// Engine owns the delivery queue, the outstanding question and the per-card
// progress of one study session. It serves a single learner and is not safe
// for concurrent use.
type Engine struct {
	cfg       Config
	bridge    Bridge
	generator *card.Generator
	rng       *rand.Rand
	now       func() time.Time

	cards       map[string]card.Card
	remaining   []question.Question
	window      []question.Question
	current     *question.Question
	progress    map[string]*CardProgress
	pending     *pendingCheck
	markAnswers bool

	numCards              int
	numQuestions          int
	numCompletedCards     int
	numCompletedQuestions int
	numCorrectResponses   int
	numIncorrectResponses int
}

// NewEngine creates an engine with no cards loaded. A nil rng falls back to a
// time seeded source; tests inject a fixed seed for deterministic orderings.
func NewEngine(cfg Config, bridge Bridge, generator *card.Generator, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		cfg:         cfg.withDefaults(),
		bridge:      bridge,
		generator:   generator,
		rng:         rng,
		now:         time.Now,
		markAnswers: true,
	}
}

// Load replaces the session content with the given cards: each card is deep
// copied, expanded into questions and seeded with its stored scheduling
// record or a fresh one. The question queue is shuffled unless configured
// otherwise.
func (e *Engine) Load(cards []card.Card) error {
	e.cards = make(map[string]card.Card, len(cards))
	e.progress = make(map[string]*CardProgress, len(cards))
	e.remaining = nil
	e.window = nil
	e.current = nil
	e.pending = nil

	for _, c := range cards {
		cloned := c.Clone()
		e.cards[cloned.ID] = cloned

		questions, err := e.generator.Generate(cloned)
		if err != nil {
			return fmt.Errorf("generate questions for card %s: %w", cloned.ID, err)
		}

		record, found, err := e.bridge.ReviewState(cloned.ID)
		if err != nil {
			return fmt.Errorf("load review state for card %s: %w", cloned.ID, err)
		}
		if !found {
			record = scheduler.NewRecord(cloned.ID, e.now())
		}

		ids := make([]string, 0, len(questions))
		for _, q := range questions {
			ids = append(ids, q.ID)
		}
		e.progress[cloned.ID] = newCardProgress(cloned.ID, record, ids, e.cfg.RequiredAnswers)
		e.remaining = append(e.remaining, questions...)
	}

	e.numCards = len(e.cards)
	e.numQuestions = len(e.remaining)
	e.numCompletedCards = 0
	e.numCompletedQuestions = 0
	e.numCorrectResponses = 0
	e.numIncorrectResponses = 0

	if e.cfg.ShuffleQuestions {
		e.rng.Shuffle(len(e.remaining), func(i, j int) {
			e.remaining[i], e.remaining[j] = e.remaining[j], e.remaining[i]
		})
	}
	slog.Default().Info("loaded session cards",
		slog.Int("cards", e.numCards),
		slog.Int("questions", e.numQuestions),
	)
	return nil
}

// NextQuestion returns the question to show next together with its parent
// card. A recorded but unapplied check result for the outstanding question is
// finalized first. A Next with a nil Question signals a finished session.
func (e *Engine) NextQuestion() (Next, error) {
	if e.current != nil && e.pending != nil && e.pending.questionID == e.current.ID {
		var err error
		if e.pending.correct {
			err = e.MarkCorrect(e.current.ID)
		} else {
			err = e.MarkMistake(e.current.ID)
		}
		if err != nil {
			return Next{}, err
		}
	}

	if e.current != nil {
		return e.nextFromCurrent()
	}

	if len(e.remaining) == 0 && len(e.window) == 0 {
		return Next{}, nil
	}

	// refill the window head-first so the earliest queued questions are
	// learned first
	for len(e.window) < e.cfg.NumCurrentQuestions && len(e.remaining) > 0 {
		e.window = append(e.window, e.remaining[0])
		e.remaining = e.remaining[1:]
	}

	next := e.window[0]
	e.window = e.window[1:]
	e.current = &next
	return e.nextFromCurrent()
}

func (e *Engine) nextFromCurrent() (Next, error) {
	parent, ok := e.cards[e.current.ParentID]
	if !ok {
		return Next{}, fmt.Errorf("question %s references unknown card %s", e.current.ID, e.current.ParentID)
	}
	return Next{Question: e.current, Card: &parent}, nil
}

// CheckAnswer grades the response against the outstanding question without
// applying the result. The verdict is remembered and finalized by the next
// NextQuestion call.
func (e *Engine) CheckAnswer(response question.Response) (bool, error) {
	if e.current == nil {
		return false, ErrNoCurrentQuestion
	}
	if err := e.validateResponse(response); err != nil {
		return false, err
	}

	correct := e.current.Check(response)
	e.pending = &pendingCheck{questionID: e.current.ID, correct: correct}
	return correct, nil
}

// AnswerQuestion grades the response against the outstanding question and
// applies the result immediately.
func (e *Engine) AnswerQuestion(response question.Response) (bool, error) {
	if e.current == nil {
		return false, ErrNoCurrentQuestion
	}
	if err := e.validateResponse(response); err != nil {
		return false, err
	}

	if e.current.Check(response) {
		if err := e.MarkCorrect(e.current.ID); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := e.MarkMistake(e.current.ID); err != nil {
		return false, err
	}
	return false, nil
}

func (e *Engine) validateResponse(response question.Response) error {
	ids := e.current.AnswerIDs()
	if len(response) != len(ids) {
		return ErrAnswerMismatch
	}
	for _, id := range ids {
		if _, ok := response[id]; !ok {
			return ErrAnswerMismatch
		}
	}
	return nil
}

// MarkCorrect applies a correct answer to the outstanding question. A
// question that still needs responses is re-queued: into the working window
// when it was recently mistaken (two or more responses still needed), into
// the remaining queue otherwise. A question reaching zero remaining need
// completes, and card completion triggers the deferred scheduler update.
func (e *Engine) MarkCorrect(questionID string) error {
	if e.current == nil {
		return ErrNoCurrentQuestion
	}
	if e.current.ID != questionID {
		return fmt.Errorf("%w: got %s, current %s", ErrQuestionMismatch, questionID, e.current.ID)
	}

	progress := e.progress[e.current.ParentID]
	remaining := progress.markCorrect(questionID)
	e.numCorrectResponses++

	switch {
	case remaining >= 2:
		// needs two or more responses only after a mistake; resurface soon
		if e.cfg.ShuffleQuestions {
			e.rng.Shuffle(len(e.window), func(i, j int) {
				e.window[i], e.window[j] = e.window[j], e.window[i]
			})
		}
		e.window = append(e.window, *e.current)
	case remaining > 0:
		if e.cfg.ShuffleQuestions {
			e.rng.Shuffle(len(e.remaining), func(i, j int) {
				e.remaining[i], e.remaining[j] = e.remaining[j], e.remaining[i]
			})
		}
		// appended after the shuffle so the question does not come right back
		e.remaining = append(e.remaining, *e.current)
	default:
		e.numCompletedQuestions++
		if e.markAnswers {
			if err := e.markScheduler(progress); err != nil {
				return err
			}
		}
		if progress.IsCompleted() {
			e.numCompletedCards++
		}
	}

	e.current = nil
	e.pending = nil
	return nil
}

// MarkMistake applies an incorrect answer to the outstanding question: the
// question's remaining need resets and, once per card per pass, the scheduler
// records an "again" review with a mistake log entry. The question stays
// outstanding so the learner retries it immediately.
func (e *Engine) MarkMistake(questionID string) error {
	if e.current == nil {
		return ErrNoCurrentQuestion
	}
	if e.current.ID != questionID {
		return fmt.Errorf("%w: got %s, current %s", ErrQuestionMismatch, questionID, e.current.ID)
	}

	progress := e.progress[e.current.ParentID]
	progress.markMistake(questionID, e.cfg.RepeatsAfterMistake)
	if e.markAnswers {
		if err := e.markScheduler(progress); err != nil {
			return err
		}
	}

	e.numIncorrectResponses++
	e.pending = nil
	return nil
}

// markScheduler applies the card's scheduler update: an "again" review with a
// mistake log entry on the first mistake of a pass, a "good" review once
// every question of the card is satisfied. Reviews are computed from the
// record the card entered the session with.
func (e *Engine) markScheduler(progress *CardProgress) error {
	if progress.NumMistakes > 0 && !progress.SchedulerMarked {
		updated, err := e.bridge.RecordReview(progress.Record, scheduler.RatingAgain)
		if err != nil {
			return fmt.Errorf("record again review for card %s: %w", progress.CardID, err)
		}
		if err := e.bridge.PersistReview(progress.CardID, updated); err != nil {
			return fmt.Errorf("persist review for card %s: %w", progress.CardID, err)
		}
		if err := e.bridge.LogMistake(progress.CardID); err != nil {
			return fmt.Errorf("log mistake for card %s: %w", progress.CardID, err)
		}
		progress.SchedulerMarked = true
		return nil
	}

	if !progress.IsCompleted() {
		return nil
	}
	updated, err := e.bridge.RecordReview(progress.Record, scheduler.RatingGood)
	if err != nil {
		return fmt.Errorf("record good review for card %s: %w", progress.CardID, err)
	}
	if err := e.bridge.PersistReview(progress.CardID, updated); err != nil {
		return fmt.Errorf("persist review for card %s: %w", progress.CardID, err)
	}
	progress.SchedulerMarked = true
	return nil
}

// PracticeFailedCards reloads only the cards that had mistakes and disables
// scheduler updates. The session must be finished.
func (e *Engine) PracticeFailedCards() error {
	if !e.IsFinished() {
		return ErrNotFinished
	}

	var failed []card.Card
	for id, c := range e.cards {
		if e.progress[id].NumMistakes > 0 {
			failed = append(failed, c)
		}
	}
	if err := e.Load(failed); err != nil {
		return err
	}
	e.markAnswers = false
	return nil
}

// PracticeAllCards reloads every card of the session and disables scheduler
// updates. The session must be finished.
func (e *Engine) PracticeAllCards() error {
	if !e.IsFinished() {
		return ErrNotFinished
	}

	all := make([]card.Card, 0, len(e.cards))
	for _, c := range e.cards {
		all = append(all, c)
	}
	if err := e.Load(all); err != nil {
		return err
	}
	e.markAnswers = false
	return nil
}

// DisableScheduling turns the session into a pure practice run: answers are
// graded but never reach the scheduler or the mistake log.
func (e *Engine) DisableScheduling() {
	e.markAnswers = false
}

// IsFinished reports whether no questions remain anywhere in the session.
func (e *Engine) IsFinished() bool {
	return len(e.remaining) == 0 && len(e.window) == 0 && e.current == nil
}

// Status returns the completion counters of the session.
func (e *Engine) Status() Status {
	return Status{
		CardsTotal:         e.numCards,
		CardsCompleted:     e.numCompletedCards,
		QuestionsTotal:     e.numQuestions,
		QuestionsCompleted: e.numCompletedQuestions,
	}
}

// Results returns the session summary for reporting. The question counts are
// recomputed from the per-card progress rather than taken from the session
// counters, so they describe the currently loaded set even after a practice
// round reloaded only the failed cards.
func (e *Engine) Results() Results {
	results := Results{
		NumCards:           e.numCards,
		CorrectResponses:   e.numCorrectResponses,
		IncorrectResponses: e.numIncorrectResponses,
		MistakesByCard:     make(map[string]int),
	}

	for id, progress := range e.progress {
		if progress.NumMistakes == 0 {
			results.NumCardsCorrect++
		} else {
			results.MistakesByCard[id] = progress.NumMistakes
		}
		for _, q := range progress.Questions {
			results.NumQuestions++
			if q.Mistakes == 0 {
				results.NumQuestionsCorrect++
			}
		}
	}
	return results
}

// Card returns a loaded card by ID.
func (e *Engine) Card(cardID string) (card.Card, bool) {
	c, ok := e.cards[cardID]
	return c, ok
}

// Progress returns the progress of a loaded card by ID.
func (e *Engine) Progress(cardID string) (*CardProgress, bool) {
	p, ok := e.progress[cardID]
	return p, ok
}
