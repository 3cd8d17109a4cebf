package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/gaku/internal/card"
	mock_session "github.com/at-ishikawa/gaku/internal/mocks/session"
	"github.com/at-ishikawa/gaku/internal/question"
	"github.com/at-ishikawa/gaku/internal/scheduler"
)

func newRadicalCard(id, writing, reading string) card.Card {
	return card.Card{
		ID:      id,
		Type:    card.TypeRadical,
		Radical: &card.RadicalData{Writing: writing, Reading: reading},
	}
}

// respond builds a response answering every answer of the question in order.
func respond(q *question.Question, texts ...string) question.Response {
	response := question.Response{}
	for i, id := range q.AnswerIDs() {
		response[id] = texts[i]
	}
	return response
}

func newTestEngine(t *testing.T) (*Engine, *mock_session.MockBridge) {
	t.Helper()
	ctrl := gomock.NewController(t)
	bridge := mock_session.NewMockBridge(ctrl)
	cfg := Config{
		RequiredAnswers:     1,
		RepeatsAfterMistake: 2,
		NumCurrentQuestions: 7,
		ShuffleQuestions:    false,
	}
	generator := card.NewGenerator(card.GeneratorConfig{}, rand.New(rand.NewSource(1)))
	return NewEngine(cfg, bridge, generator, rand.New(rand.NewSource(1))), bridge
}

func TestEngine_Load(t *testing.T) {
	t.Run("seeds progress and counters", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState("r1").Return(scheduler.Record{}, false, nil)
		bridge.EXPECT().ReviewState("r2").Return(scheduler.Record{CardID: "r2", State: scheduler.StateReview}, true, nil)

		cards := []card.Card{
			newRadicalCard("r1", "水", "みず"),
			newRadicalCard("r2", "火", "ひ"),
		}
		require.NoError(t, engine.Load(cards))

		status := engine.Status()
		assert.Equal(t, Status{CardsTotal: 2, QuestionsTotal: 2}, status)
		assert.False(t, engine.IsFinished())

		// a card without a stored record starts with a fresh new-state one
		progress, ok := engine.Progress("r1")
		require.True(t, ok)
		assert.Equal(t, scheduler.StateNew, progress.Record.State)

		progress, ok = engine.Progress("r2")
		require.True(t, ok)
		assert.Equal(t, scheduler.StateReview, progress.Record.State)
	})

	t.Run("deep copies input cards", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil)

		input := []card.Card{newRadicalCard("r1", "水", "みず")}
		require.NoError(t, engine.Load(input))

		input[0].Radical.Writing = "changed"
		loaded, ok := engine.Card("r1")
		require.True(t, ok)
		assert.Equal(t, "水", loaded.Radical.Writing)
	})

	t.Run("generation failure is fatal", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		invalid := card.Card{ID: "bad", Type: card.TypeKanji}
		assert.Error(t, engine.Load([]card.Card{invalid}))
	})
}

func TestEngine_NextQuestion(t *testing.T) {
	t.Run("serves questions head first and finishes", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil).Times(2)
		bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingGood).Return(scheduler.Record{}, nil).Times(2)
		bridge.EXPECT().PersistReview(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		require.NoError(t, engine.Load([]card.Card{
			newRadicalCard("r1", "水", "みず"),
			newRadicalCard("r2", "火", "ひ"),
		}))

		next, err := engine.NextQuestion()
		require.NoError(t, err)
		require.NotNil(t, next.Question)
		assert.Equal(t, "r1", next.Question.ParentID)
		assert.Equal(t, "r1", next.Card.ID)

		correct, err := engine.AnswerQuestion(respond(next.Question, "みず"))
		require.NoError(t, err)
		assert.True(t, correct)

		next, err = engine.NextQuestion()
		require.NoError(t, err)
		require.NotNil(t, next.Question)
		assert.Equal(t, "r2", next.Question.ParentID)

		correct, err = engine.AnswerQuestion(respond(next.Question, "ひ"))
		require.NoError(t, err)
		assert.True(t, correct)

		next, err = engine.NextQuestion()
		require.NoError(t, err)
		assert.Nil(t, next.Question)
		assert.True(t, engine.IsFinished())

		status := engine.Status()
		assert.Equal(t, Status{
			CardsTotal:         2,
			CardsCompleted:     2,
			QuestionsTotal:     2,
			QuestionsCompleted: 2,
		}, status)
	})

	t.Run("outstanding question is served again", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil)
		require.NoError(t, engine.Load([]card.Card{newRadicalCard("r1", "水", "みず")}))

		first, err := engine.NextQuestion()
		require.NoError(t, err)
		second, err := engine.NextQuestion()
		require.NoError(t, err)
		assert.Equal(t, first.Question.ID, second.Question.ID)
	})

	t.Run("finalizes a recorded check result", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil)
		bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingAgain).Return(scheduler.Record{}, nil)
		bridge.EXPECT().PersistReview("r1", gomock.Any()).Return(nil)
		bridge.EXPECT().LogMistake("r1").Return(nil)

		require.NoError(t, engine.Load([]card.Card{newRadicalCard("r1", "水", "みず")}))
		next, err := engine.NextQuestion()
		require.NoError(t, err)

		correct, err := engine.CheckAnswer(respond(next.Question, "wrong"))
		require.NoError(t, err)
		assert.False(t, correct)

		// checking alone does not touch progress
		progress, _ := engine.Progress("r1")
		assert.Equal(t, 0, progress.NumMistakes)

		// the next retrieval applies the mistake and re-serves the question
		next, err = engine.NextQuestion()
		require.NoError(t, err)
		require.NotNil(t, next.Question)
		assert.Equal(t, 1, progress.NumMistakes)
		assert.Equal(t, 3, progress.Questions[next.Question.ID].NeedsCorrectResponses)
	})
}

func TestEngine_AnswerQuestion_mistakeRepetition(t *testing.T) {
	// After a mistake a question needs repeats_after_mistake+1 corrects, and
	// further mistakes keep the count at the reset value instead of stacking.
	engine, bridge := newTestEngine(t)
	bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil)

	// the scheduler hears about the card exactly twice: one "again" on the
	// first mistake of the pass, one "good" at completion
	bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingAgain).Return(scheduler.Record{}, nil)
	bridge.EXPECT().LogMistake("r1").Return(nil)
	bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingGood).Return(scheduler.Record{}, nil)
	bridge.EXPECT().PersistReview("r1", gomock.Any()).Return(nil).Times(2)

	require.NoError(t, engine.Load([]card.Card{newRadicalCard("r1", "水", "みず")}))
	next, err := engine.NextQuestion()
	require.NoError(t, err)
	questionID := next.Question.ID
	progress, _ := engine.Progress("r1")

	for i := 0; i < 3; i++ {
		correct, err := engine.AnswerQuestion(respond(next.Question, "wrong"))
		require.NoError(t, err)
		assert.False(t, correct)
		assert.Equal(t, 3, progress.Questions[questionID].NeedsCorrectResponses)

		// the question stays outstanding after a mistake
		next, err = engine.NextQuestion()
		require.NoError(t, err)
		require.Equal(t, questionID, next.Question.ID)
	}
	assert.Equal(t, 3, progress.NumMistakes)

	// exactly three corrects finish the question
	for i := 3; i > 0; i-- {
		correct, err := engine.AnswerQuestion(respond(next.Question, "みず"))
		require.NoError(t, err)
		assert.True(t, correct)
		assert.Equal(t, i-1, progress.Questions[questionID].NeedsCorrectResponses)

		next, err = engine.NextQuestion()
		require.NoError(t, err)
		if i > 1 {
			require.NotNil(t, next.Question)
			assert.Equal(t, questionID, next.Question.ID)
		}
	}

	assert.Nil(t, next.Question)
	assert.True(t, engine.IsFinished())
	assert.Equal(t, Status{
		CardsTotal:         1,
		CardsCompleted:     1,
		QuestionsTotal:     1,
		QuestionsCompleted: 1,
	}, engine.Status())
}

func TestEngine_AnswerQuestion_requeueTargets(t *testing.T) {
	engine, bridge := newTestEngine(t)
	bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil).Times(2)
	bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingAgain).Return(scheduler.Record{}, nil)
	bridge.EXPECT().PersistReview("r1", gomock.Any()).Return(nil)
	bridge.EXPECT().LogMistake("r1").Return(nil)

	require.NoError(t, engine.Load([]card.Card{
		newRadicalCard("r1", "水", "みず"),
		newRadicalCard("r2", "火", "ひ"),
	}))

	// mistake on r1, then a correct: two responses still needed, so the
	// question goes to the tail of the working window, behind r2
	next, err := engine.NextQuestion()
	require.NoError(t, err)
	require.Equal(t, "r1", next.Question.ParentID)

	_, err = engine.AnswerQuestion(respond(next.Question, "wrong"))
	require.NoError(t, err)
	correct, err := engine.AnswerQuestion(respond(next.Question, "みず"))
	require.NoError(t, err)
	assert.True(t, correct)

	next, err = engine.NextQuestion()
	require.NoError(t, err)
	assert.Equal(t, "r2", next.Question.ParentID)
}

func TestEngine_preconditions(t *testing.T) {
	engine, bridge := newTestEngine(t)
	bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil)
	require.NoError(t, engine.Load([]card.Card{newRadicalCard("r1", "水", "みず")}))

	t.Run("operations without a current question fail", func(t *testing.T) {
		assert.ErrorIs(t, engine.MarkCorrect("q1"), ErrNoCurrentQuestion)
		assert.ErrorIs(t, engine.MarkMistake("q1"), ErrNoCurrentQuestion)

		_, err := engine.CheckAnswer(question.Response{})
		assert.ErrorIs(t, err, ErrNoCurrentQuestion)
		_, err = engine.AnswerQuestion(question.Response{})
		assert.ErrorIs(t, err, ErrNoCurrentQuestion)
	})

	next, err := engine.NextQuestion()
	require.NoError(t, err)

	t.Run("question ID must match the current question", func(t *testing.T) {
		assert.ErrorIs(t, engine.MarkCorrect("other"), ErrQuestionMismatch)
		assert.ErrorIs(t, engine.MarkMistake("other"), ErrQuestionMismatch)
	})

	t.Run("response must address the current answer IDs", func(t *testing.T) {
		_, err := engine.CheckAnswer(question.Response{"unknown": "みず"})
		assert.ErrorIs(t, err, ErrAnswerMismatch)

		response := respond(next.Question, "みず")
		response["extra"] = "x"
		_, err = engine.AnswerQuestion(response)
		assert.ErrorIs(t, err, ErrAnswerMismatch)
	})
}

func TestEngine_practiceModes(t *testing.T) {
	finishSession := func(t *testing.T, engine *Engine, answers map[string]string) {
		t.Helper()
		for {
			next, err := engine.NextQuestion()
			require.NoError(t, err)
			if next.Question == nil {
				return
			}
			_, err = engine.AnswerQuestion(respond(next.Question, answers[next.Question.ParentID]))
			require.NoError(t, err)
		}
	}

	t.Run("requires a finished session", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil)
		require.NoError(t, engine.Load([]card.Card{newRadicalCard("r1", "水", "みず")}))

		assert.ErrorIs(t, engine.PracticeFailedCards(), ErrNotFinished)
		assert.ErrorIs(t, engine.PracticeAllCards(), ErrNotFinished)
	})

	t.Run("failed cards are reloaded without scheduler updates", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil).Times(2)
		bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingAgain).Return(scheduler.Record{}, nil)
		bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingGood).Return(scheduler.Record{}, nil).Times(2)
		bridge.EXPECT().PersistReview(gomock.Any(), gomock.Any()).Return(nil).Times(3)
		bridge.EXPECT().LogMistake("r1").Return(nil)

		require.NoError(t, engine.Load([]card.Card{
			newRadicalCard("r1", "水", "みず"),
			newRadicalCard("r2", "火", "ひ"),
		}))

		// fail r1 once, then answer everything correctly
		next, err := engine.NextQuestion()
		require.NoError(t, err)
		require.Equal(t, "r1", next.Question.ParentID)
		_, err = engine.AnswerQuestion(respond(next.Question, "wrong"))
		require.NoError(t, err)
		finishSession(t, engine, map[string]string{"r1": "みず", "r2": "ひ"})
		require.True(t, engine.IsFinished())

		// the practice pass reloads only r1 and stays silent to the scheduler
		bridge.EXPECT().ReviewState("r1").Return(scheduler.Record{}, false, nil)
		require.NoError(t, engine.PracticeFailedCards())
		assert.Equal(t, Status{CardsTotal: 1, QuestionsTotal: 1}, engine.Status())

		finishSession(t, engine, map[string]string{"r1": "みず"})
		assert.True(t, engine.IsFinished())
	})

	t.Run("all cards are reloaded for practice", func(t *testing.T) {
		engine, bridge := newTestEngine(t)
		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil).Times(2)
		bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingGood).Return(scheduler.Record{}, nil).Times(2)
		bridge.EXPECT().PersistReview(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		require.NoError(t, engine.Load([]card.Card{
			newRadicalCard("r1", "水", "みず"),
			newRadicalCard("r2", "火", "ひ"),
		}))
		finishSession(t, engine, map[string]string{"r1": "みず", "r2": "ひ"})

		bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil).Times(2)
		require.NoError(t, engine.PracticeAllCards())
		assert.Equal(t, Status{CardsTotal: 2, QuestionsTotal: 2}, engine.Status())
	})
}

func TestEngine_Results(t *testing.T) {
	engine, bridge := newTestEngine(t)
	bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil).Times(2)
	bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingAgain).Return(scheduler.Record{}, nil)
	bridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingGood).Return(scheduler.Record{}, nil).Times(2)
	bridge.EXPECT().PersistReview(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	bridge.EXPECT().LogMistake("r1").Return(nil)

	require.NoError(t, engine.Load([]card.Card{
		newRadicalCard("r1", "水", "みず"),
		newRadicalCard("r2", "火", "ひ"),
	}))

	next, err := engine.NextQuestion()
	require.NoError(t, err)
	_, err = engine.AnswerQuestion(respond(next.Question, "wrong"))
	require.NoError(t, err)

	answers := map[string]string{"r1": "みず", "r2": "ひ"}
	for {
		next, err := engine.NextQuestion()
		require.NoError(t, err)
		if next.Question == nil {
			break
		}
		_, err = engine.AnswerQuestion(respond(next.Question, answers[next.Question.ParentID]))
		require.NoError(t, err)
	}

	results := engine.Results()
	assert.Equal(t, 2, results.NumCards)
	assert.Equal(t, 1, results.NumCardsCorrect)
	assert.Equal(t, 2, results.NumQuestions)
	assert.Equal(t, 1, results.NumQuestionsCorrect)
	assert.Equal(t, 4, results.CorrectResponses)
	assert.Equal(t, 1, results.IncorrectResponses)
	assert.Equal(t, map[string]int{"r1": 1}, results.MistakesByCard)
}
