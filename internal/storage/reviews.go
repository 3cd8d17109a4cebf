package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/gaku/internal/scheduler"
)

// ReviewRepository manages the reviews table holding the per-card scheduling
// records.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Get returns the scheduling record of a card, or false when the card has
// never been reviewed.
func (r *ReviewRepository) Get(ctx context.Context, cardID string) (scheduler.Record, bool, error) {
	var record scheduler.Record
	err := r.db.GetContext(ctx, &record, "SELECT * FROM reviews WHERE card_id = ?", cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduler.Record{}, false, nil
	}
	if err != nil {
		return scheduler.Record{}, false, fmt.Errorf("db.GetContext(review %s) > %w", cardID, err)
	}
	return record, true, nil
}

// Upsert stores the scheduling record of a card, replacing an existing one.
func (r *ReviewRepository) Upsert(ctx context.Context, record scheduler.Record) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (card_id, state, due, stability, difficulty, last_review, reviews, lapses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			state = VALUES(state), due = VALUES(due), stability = VALUES(stability),
			difficulty = VALUES(difficulty), last_review = VALUES(last_review),
			reviews = VALUES(reviews), lapses = VALUES(lapses)`,
		record.CardID, string(record.State), record.Due, record.Stability,
		record.Difficulty, record.LastReview, record.Reviews, record.Lapses); err != nil {
		return fmt.Errorf("db.ExecContext(upsert review %s) > %w", record.CardID, err)
	}
	return nil
}

// Delete removes the scheduling record of a card.
func (r *ReviewRepository) Delete(ctx context.Context, cardID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE card_id = ?", cardID); err != nil {
		return fmt.Errorf("db.ExecContext(delete review %s) > %w", cardID, err)
	}
	return nil
}

// CountDueBy returns the number of records due at or before the given time.
func (r *ReviewRepository) CountDueBy(ctx context.Context, by time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM reviews WHERE due <= ?", by); err != nil {
		return 0, fmt.Errorf("db.GetContext(count due reviews) > %w", err)
	}
	return count, nil
}

// ListAll returns every scheduling record. Used for forecasts and exports.
func (r *ReviewRepository) ListAll(ctx context.Context) ([]scheduler.Record, error) {
	var records []scheduler.Record
	if err := r.db.SelectContext(ctx, &records, "SELECT * FROM reviews ORDER BY due"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(reviews) > %w", err)
	}
	return records, nil
}
