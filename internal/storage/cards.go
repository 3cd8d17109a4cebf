// Package storage persists cards, scheduling records and mistake logs in
// MySQL and provides the query variants study sessions are started from.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/database"
)

// cardRow is the cards table shape. The full card is stored as a JSON
// document; card_type, writing and position are extracted for querying.
type cardRow struct {
	CardID   string `db:"card_id"`
	CardType string `db:"card_type"`
	Writing  string `db:"writing"`
	Position int    `db:"position"`
	Document []byte `db:"document"`
}

func (r cardRow) toCard() (card.Card, error) {
	var c card.Card
	if err := json.Unmarshal(r.Document, &c); err != nil {
		return card.Card{}, fmt.Errorf("unmarshal card %s document > %w", r.CardID, err)
	}
	return c, nil
}

// CardRepository manages the cards table.
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// AddCards inserts cards in one transaction, assigning positions after the
// current highest so new cards are studied in import order.
func (r *CardRepository) AddCards(ctx context.Context, cards []card.Card) error {
	if len(cards) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var position int
		if err := tx.GetContext(ctx, &position, "SELECT COALESCE(MAX(position), 0) FROM cards"); err != nil {
			return fmt.Errorf("tx.GetContext(highest card position) > %w", err)
		}

		for _, c := range cards {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("validate card before insert > %w", err)
			}
			document, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("marshal card %s document > %w", c.ID, err)
			}
			position++
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO cards (card_id, card_type, writing, position, document) VALUES (?, ?, ?, ?, ?)",
				c.ID, string(c.Type), c.Writing(), position, document); err != nil {
				return fmt.Errorf("tx.ExecContext(insert card %s) > %w", c.ID, err)
			}
		}
		return nil
	})
}

// UpdateCard replaces the stored document of a card.
func (r *CardRepository) UpdateCard(ctx context.Context, c card.Card) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate card before update > %w", err)
	}
	document, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal card %s document > %w", c.ID, err)
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE cards SET card_type = ?, writing = ?, document = ? WHERE card_id = ?",
		string(c.Type), c.Writing(), document, c.ID); err != nil {
		return fmt.Errorf("db.ExecContext(update card %s) > %w", c.ID, err)
	}
	return nil
}

// DeleteCard removes a card together with its review record and mistakes.
func (r *CardRepository) DeleteCard(ctx context.Context, cardID string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, query := range []string{
			"DELETE FROM card_source_links WHERE card_id = ?",
			"DELETE FROM recent_mistakes WHERE card_id = ?",
			"DELETE FROM reviews WHERE card_id = ?",
			"DELETE FROM cards WHERE card_id = ?",
		} {
			if _, err := tx.ExecContext(ctx, query, cardID); err != nil {
				return fmt.Errorf("tx.ExecContext(%s) > %w", query, err)
			}
		}
		return nil
	})
}

// GetCard returns a card by ID, or false when it does not exist.
func (r *CardRepository) GetCard(ctx context.Context, cardID string) (card.Card, bool, error) {
	var row cardRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM cards WHERE card_id = ?", cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return card.Card{}, false, nil
	}
	if err != nil {
		return card.Card{}, false, fmt.Errorf("db.GetContext(card %s) > %w", cardID, err)
	}
	c, err := row.toCard()
	if err != nil {
		return card.Card{}, false, err
	}
	return c, true, nil
}

// GetCardByKey returns a card by its writing and type, or false when none
// matches.
func (r *CardRepository) GetCardByKey(ctx context.Context, writing string, cardType card.Type) (card.Card, bool, error) {
	var row cardRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM cards WHERE writing = ? AND card_type = ? LIMIT 1", writing, string(cardType))
	if errors.Is(err, sql.ErrNoRows) {
		return card.Card{}, false, nil
	}
	if err != nil {
		return card.Card{}, false, fmt.Errorf("db.GetContext(card by key %s) > %w", writing, err)
	}
	c, err := row.toCard()
	if err != nil {
		return card.Card{}, false, err
	}
	return c, true, nil
}

// ListCardsByType returns every card of a type in position order.
func (r *CardRepository) ListCardsByType(ctx context.Context, cardType card.Type) ([]card.Card, error) {
	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM cards WHERE card_type = ? ORDER BY position", string(cardType)); err != nil {
		return nil, fmt.Errorf("db.SelectContext(cards by type) > %w", err)
	}
	return rowsToCards(rows)
}

// ListAnyState returns cards in position order regardless of review state.
// A limit of zero or less returns all cards.
func (r *CardRepository) ListAnyState(ctx context.Context, limit int) ([]card.Card, error) {
	query := "SELECT * FROM cards ORDER BY position"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(cards any state) > %w", err)
	}
	return rowsToCards(rows)
}

// ListNew returns cards without a review record, earliest position first.
func (r *CardRepository) ListNew(ctx context.Context, limit int) ([]card.Card, error) {
	query := `SELECT c.* FROM cards c
		LEFT JOIN reviews r ON c.card_id = r.card_id
		WHERE r.card_id IS NULL
		ORDER BY c.position`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(new cards) > %w", err)
	}
	return rowsToCards(rows)
}

// ListDue returns cards whose review record is due at the given time, most
// overdue first.
func (r *CardRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]card.Card, error) {
	query := `SELECT c.* FROM cards c
		JOIN reviews r ON c.card_id = r.card_id
		WHERE r.due <= ?
		ORDER BY r.due`
	args := []any{now}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due cards) > %w", err)
	}
	return rowsToCards(rows)
}

// ListStudied returns cards that have a review record, most recently
// reviewed first.
func (r *CardRepository) ListStudied(ctx context.Context, limit int) ([]card.Card, error) {
	query := `SELECT c.* FROM cards c
		JOIN reviews r ON c.card_id = r.card_id
		ORDER BY r.last_review DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(studied cards) > %w", err)
	}
	return rowsToCards(rows)
}

// ListMistaken returns cards with a mistake logged since the given time,
// most recently mistaken first.
func (r *CardRepository) ListMistaken(ctx context.Context, since time.Time, limit int) ([]card.Card, error) {
	query := `SELECT c.card_id, c.card_type, c.writing, c.position, c.document FROM cards c
		JOIN recent_mistakes m ON c.card_id = m.card_id
		WHERE m.mistake_at >= ?
		GROUP BY c.card_id, c.card_type, c.writing, c.position, c.document
		ORDER BY MAX(m.mistake_at) DESC`
	args := []any{since}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(mistaken cards) > %w", err)
	}
	return rowsToCards(rows)
}

// CountAnyState returns the total number of cards.
func (r *CardRepository) CountAnyState(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cards"); err != nil {
		return 0, fmt.Errorf("db.GetContext(count cards) > %w", err)
	}
	return count, nil
}

// CountNew returns the number of cards without a review record.
func (r *CardRepository) CountNew(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM cards c
		LEFT JOIN reviews r ON c.card_id = r.card_id
		WHERE r.card_id IS NULL`); err != nil {
		return 0, fmt.Errorf("db.GetContext(count new cards) > %w", err)
	}
	return count, nil
}

func rowsToCards(rows []cardRow) ([]card.Card, error) {
	cards := make([]card.Card, 0, len(rows))
	for _, row := range rows {
		c, err := row.toCard()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
