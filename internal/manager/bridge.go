package manager

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/gaku/internal/scheduler"
)

// storageBridge adapts the review and mistake stores to the session engine's
// scheduling contract. The context of the session start call is carried into
// every store call the engine triggers.
type storageBridge struct {
	ctx      context.Context
	reviews  ReviewStore
	mistakes MistakeStore
	now      func() time.Time
}

func (b *storageBridge) ReviewState(cardID string) (scheduler.Record, bool, error) {
	return b.reviews.Get(b.ctx, cardID)
}

func (b *storageBridge) RecordReview(record scheduler.Record, rating scheduler.Rating) (scheduler.Record, error) {
	updated, reviewLog, err := scheduler.Review(record, rating, b.now())
	if err != nil {
		return scheduler.Record{}, fmt.Errorf("scheduler.Review > %w", err)
	}
	slog.Default().Debug("applied review",
		slog.String("card_id", record.CardID),
		slog.Int("rating", int(reviewLog.Rating)),
		slog.Time("due", updated.Due),
	)
	return updated, nil
}

func (b *storageBridge) PersistReview(cardID string, record scheduler.Record) error {
	record.CardID = cardID
	return b.reviews.Upsert(b.ctx, record)
}

func (b *storageBridge) LogMistake(cardID string) error {
	return b.mistakes.LogMistake(b.ctx, cardID, b.now())
}
