package session

import (
	"github.com/at-ishikawa/gaku/internal/scheduler"
)

//go:generate mockgen -source=bridge.go -destination=../mocks/session/mock_bridge.go -package=mock_session Bridge

// Bridge connects the session engine to the spaced repetition scheduler and
// the mistake log. The engine calls it only at card completion and on the
// first mistake of a pass; failures propagate to the caller unwrapped.
type Bridge interface {
	// ReviewState returns the scheduling record of a card, or false when the
	// card has never been reviewed.
	ReviewState(cardID string) (scheduler.Record, bool, error)
	// RecordReview applies one graded review to a record without persisting it.
	RecordReview(record scheduler.Record, rating scheduler.Rating) (scheduler.Record, error)
	// PersistReview stores the updated scheduling record of a card.
	PersistReview(cardID string, record scheduler.Record) error
	// LogMistake appends a mistake log entry for a card.
	LogMistake(cardID string) error
}
