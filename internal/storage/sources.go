package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/gaku/internal/card"
)

// SourceRepository manages the sources and card_source_links tables.
type SourceRepository struct {
	db *sqlx.DB
}

// NewSourceRepository creates a new SourceRepository.
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// AddSources inserts sources, skipping ones that already exist.
func (r *SourceRepository) AddSources(ctx context.Context, sources []card.Source) error {
	for _, source := range sources {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO sources (source_id, source_name, source_section) VALUES (?, ?, ?)",
			source.ID, source.Name, source.Section); err != nil {
			return fmt.Errorf("db.ExecContext(insert source %s) > %w", source.ID, err)
		}
	}
	return nil
}

// AddCardSourceLinks links cards to their sources. Duplicate links are
// ignored so repeated imports stay idempotent.
func (r *SourceRepository) AddCardSourceLinks(ctx context.Context, links map[string]string) error {
	for cardID, sourceID := range links {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO card_source_links (card_id, source_id) VALUES (?, ?)",
			cardID, sourceID); err != nil {
			return fmt.Errorf("db.ExecContext(link card %s to source %s) > %w", cardID, sourceID, err)
		}
	}
	return nil
}

// ListCardSourceLinks returns every card to source link.
func (r *SourceRepository) ListCardSourceLinks(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		CardID   string `db:"card_id"`
		SourceID string `db:"source_id"`
	}
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT card_id, source_id FROM card_source_links ORDER BY card_id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(card source links) > %w", err)
	}
	links := make(map[string]string, len(rows))
	for _, row := range rows {
		links[row.CardID] = row.SourceID
	}
	return links, nil
}

// ListSources returns every source.
func (r *SourceRepository) ListSources(ctx context.Context) ([]card.Source, error) {
	var sources []card.Source
	if err := r.db.SelectContext(ctx, &sources,
		"SELECT source_id, source_name, source_section FROM sources ORDER BY source_name"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(sources) > %w", err)
	}
	return sources, nil
}

// SourcesForCard returns the sources linked to a card.
func (r *SourceRepository) SourcesForCard(ctx context.Context, cardID string) ([]card.Source, error) {
	var sources []card.Source
	if err := r.db.SelectContext(ctx, &sources,
		`SELECT s.source_id, s.source_name, s.source_section FROM sources s
		JOIN card_source_links l ON s.source_id = l.source_id
		WHERE l.card_id = ?
		ORDER BY s.source_name`, cardID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(sources for card %s) > %w", cardID, err)
	}
	return sources, nil
}
