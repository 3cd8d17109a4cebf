package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// mistakeRetention is how long a mistake counts as recent.
const mistakeRetention = 7 * 24 * time.Hour

// MistakeRepository manages the recent_mistakes table. Each card keeps at
// most one row holding its latest mistake time.
type MistakeRepository struct {
	db *sqlx.DB
}

// NewMistakeRepository creates a new MistakeRepository.
func NewMistakeRepository(db *sqlx.DB) *MistakeRepository {
	return &MistakeRepository{db: db}
}

// LogMistake records a mistake for a card, refreshing the timestamp when the
// card is already logged.
func (r *MistakeRepository) LogMistake(ctx context.Context, cardID string, now time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO recent_mistakes (card_id, mistake_at) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE mistake_at = VALUES(mistake_at)`,
		cardID, now); err != nil {
		return fmt.Errorf("db.ExecContext(log mistake %s) > %w", cardID, err)
	}
	return nil
}

// Cleanup removes mistakes older than the retention window.
func (r *MistakeRepository) Cleanup(ctx context.Context, now time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM recent_mistakes WHERE mistake_at < ?", now.Add(-mistakeRetention)); err != nil {
		return fmt.Errorf("db.ExecContext(cleanup mistakes) > %w", err)
	}
	return nil
}

// CountByDay returns the number of mistakes per calendar day over the
// retention window, keyed by days before now (1 is yesterday).
func (r *MistakeRepository) CountByDay(ctx context.Context, now time.Time) (map[int]int, error) {
	rows := []struct {
		DaysAgo int `db:"days_ago"`
		Count   int `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT DATEDIFF(?, mistake_at) AS days_ago, COUNT(*) AS count
		FROM recent_mistakes
		GROUP BY days_ago`, now); err != nil {
		return nil, fmt.Errorf("db.SelectContext(mistakes by day) > %w", err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.DaysAgo] = row.Count
	}
	return counts, nil
}
