// Package manager wires storage, the scheduler and the session engine into
// the study operations the CLI and the server expose.
package manager

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/config"
	"github.com/at-ishikawa/gaku/internal/scheduler"
	"github.com/at-ishikawa/gaku/internal/session"
)

//go:generate mockgen -source=manager.go -destination=../mocks/manager/mock_manager.go -package=mock_manager

// recentMistakeWindow bounds how far back the mistakes study mode reaches.
const recentMistakeWindow = 7 * 24 * time.Hour

// ErrNoCards is returned when a study mode selects no cards.
var ErrNoCards = errors.New("no cards to study")

// CardStore selects the cards a session is started from.
type CardStore interface {
	ListAnyState(ctx context.Context, limit int) ([]card.Card, error)
	ListNew(ctx context.Context, limit int) ([]card.Card, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]card.Card, error)
	ListStudied(ctx context.Context, limit int) ([]card.Card, error)
	ListMistaken(ctx context.Context, since time.Time, limit int) ([]card.Card, error)
	GetCardByKey(ctx context.Context, writing string, cardType card.Type) (card.Card, bool, error)
}

// ReviewStore persists per-card scheduling records.
type ReviewStore interface {
	Get(ctx context.Context, cardID string) (scheduler.Record, bool, error)
	Upsert(ctx context.Context, record scheduler.Record) error
	ListAll(ctx context.Context) ([]scheduler.Record, error)
}

// MistakeStore persists the recent mistake log.
type MistakeStore interface {
	LogMistake(ctx context.Context, cardID string, now time.Time) error
	Cleanup(ctx context.Context, now time.Time) error
	CountByDay(ctx context.Context, now time.Time) (map[int]int, error)
}

// Mode selects which cards a session studies.
type Mode string

const (
	ModeAny      Mode = "any"
	ModeNew      Mode = "new"
	ModeDue      Mode = "due"
	ModeMistakes Mode = "mistakes"
	ModeStudied  Mode = "studied"
)

// StartOptions configures a new study session.
type StartOptions struct {
	Mode Mode
	// NumCards caps the session size. Zero falls back to the configured
	// default.
	NumCards int
	// ExtraQuestions appends kanji questions to vocabulary cards and radical
	// questions to kanji cards, per the study configuration.
	ExtraQuestions bool
	// Practice grades answers without touching the scheduler.
	Practice bool
}

// Manager ties the stores, the scheduler and the session engine together.
type Manager struct {
	study     config.StudyConfig
	cards     CardStore
	reviews   ReviewStore
	mistakes  MistakeStore
	snapshots *session.SnapshotStore
	generator *card.Generator
	rng       *rand.Rand
	now       func() time.Time
}

// New creates a Manager. A nil rng falls back to a time seeded source.
func New(cfg config.Config, cards CardStore, reviews ReviewStore, mistakes MistakeStore, rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Manager{
		study:    cfg.Study,
		cards:    cards,
		reviews:  reviews,
		mistakes: mistakes,
		snapshots: session.NewSnapshotStore(cfg.Workdir),
		generator: card.NewGenerator(card.GeneratorConfig{
			RadicalsTestMeaning: cfg.Study.RadicalsTestMeaning,
		}, rng),
		rng: rng,
		now: time.Now,
	}
}

func (m *Manager) bridge(ctx context.Context) session.Bridge {
	return &storageBridge{
		ctx:      ctx,
		reviews:  m.reviews,
		mistakes: m.mistakes,
		now:      m.now,
	}
}

func (m *Manager) sessionConfig(mode Mode) session.Config {
	return session.Config{
		RequiredAnswers:     m.study.RequiredAnswers,
		RepeatsAfterMistake: m.study.RepeatsAfterMistake,
		NumCurrentQuestions: m.study.NumCurrentQuestions,
		// new cards are studied in import order
		ShuffleQuestions: m.study.ShuffleQuestions && mode != ModeNew,
	}
}

func (m *Manager) selectCards(ctx context.Context, mode Mode, limit int) ([]card.Card, error) {
	switch mode {
	case ModeAny:
		return m.cards.ListAnyState(ctx, limit)
	case ModeNew:
		return m.cards.ListNew(ctx, limit)
	case ModeDue:
		return m.cards.ListDue(ctx, m.now(), limit)
	case ModeStudied:
		return m.cards.ListStudied(ctx, limit)
	case ModeMistakes:
		return m.cards.ListMistaken(ctx, m.now().Add(-recentMistakeWindow), limit)
	}
	return nil, fmt.Errorf("unsupported study mode %q", mode)
}

// StartSession selects cards for the given mode and loads them into a fresh
// session engine. Expired mistake log entries are cleaned up on the way.
func (m *Manager) StartSession(ctx context.Context, opts StartOptions) (*session.Engine, error) {
	if err := m.mistakes.Cleanup(ctx, m.now()); err != nil {
		return nil, fmt.Errorf("m.mistakes.Cleanup > %w", err)
	}

	limit := opts.NumCards
	if limit <= 0 {
		limit = m.study.NumDefaultCardsToStudy
	}

	cards, err := m.selectCards(ctx, opts.Mode, limit)
	if err != nil {
		return nil, fmt.Errorf("select cards for mode %s > %w", opts.Mode, err)
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	if opts.ExtraQuestions {
		cards, err = m.enrichCards(ctx, cards)
		if err != nil {
			return nil, fmt.Errorf("m.enrichCards > %w", err)
		}
	}

	engine := session.NewEngine(m.sessionConfig(opts.Mode), m.bridge(ctx), m.generator, m.rng)
	if err := engine.Load(cards); err != nil {
		return nil, fmt.Errorf("engine.Load > %w", err)
	}
	if opts.Practice {
		engine.DisableScheduling()
	}
	return engine, nil
}

// SaveSession snapshots a session so it can be resumed after a restart.
func (m *Manager) SaveSession(engine *session.Engine) error {
	if err := m.snapshots.Save(engine.Snapshot()); err != nil {
		return fmt.Errorf("m.snapshots.Save > %w", err)
	}
	return nil
}

// ResumeSession restores the previously snapshotted session, or reports false
// when there is none.
func (m *Manager) ResumeSession(ctx context.Context) (*session.Engine, bool, error) {
	snapshot, found, err := m.snapshots.Load()
	if err != nil {
		return nil, false, fmt.Errorf("m.snapshots.Load > %w", err)
	}
	if !found {
		return nil, false, nil
	}

	engine, err := session.Restore(snapshot, m.bridge(ctx), m.generator, m.rng)
	if err != nil {
		return nil, false, fmt.Errorf("session.Restore > %w", err)
	}
	return engine, true, nil
}

// ClearSnapshot removes the stored session snapshot after a session finishes
// legitimately.
func (m *Manager) ClearSnapshot() error {
	if err := m.snapshots.Clear(); err != nil {
		return fmt.Errorf("m.snapshots.Clear > %w", err)
	}
	return nil
}

// Forecast returns how many cards come due on each of the next days. Index
// zero counts cards already due.
func (m *Manager) Forecast(ctx context.Context, days int) ([]int, error) {
	records, err := m.reviews.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("m.reviews.ListAll > %w", err)
	}
	return scheduler.Forecast(records, m.now(), days), nil
}

// RecentMistakeCounts returns the number of logged mistakes per day, keyed by
// days before today.
func (m *Manager) RecentMistakeCounts(ctx context.Context) (map[int]int, error) {
	counts, err := m.mistakes.CountByDay(ctx, m.now())
	if err != nil {
		return nil, fmt.Errorf("m.mistakes.CountByDay > %w", err)
	}
	return counts, nil
}
