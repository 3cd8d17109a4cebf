package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/question"
)

// snapshotVersion guards the snapshot wire format. Bump on incompatible
// changes to the Snapshot struct.
const snapshotVersion = 1

const (
	snapshotFileName      = "test_session.json"
	snapshotBackupGlob    = "test_session_backup_*.json"
	maxSnapshotBackups    = 5
	backupTimestampLayout = "2006-01-02T15-04-05.000000000"
)

// Snapshot is the serializable state of a session. It carries no scheduler or
// storage handles; those are injected again at restore time.
type Snapshot struct {
	Version     int                      `json:"version"`
	Config      Config                   `json:"config"`
	Cards       map[string]card.Card     `json:"test_cards"`
	Remaining   []question.Question      `json:"remaining_questions"`
	Window      []question.Question      `json:"current_question_set"`
	Current     *question.Question       `json:"current_question,omitempty"`
	Progress    map[string]*CardProgress `json:"question_card_data"`
	MarkAnswers bool                     `json:"mark_answers"`

	NumCards              int `json:"num_cards"`
	NumQuestions          int `json:"num_questions"`
	NumCompletedCards     int `json:"num_completed_cards"`
	NumCompletedQuestions int `json:"num_completed_questions"`
	NumCorrectResponses   int `json:"num_correct_responses"`
	NumIncorrectResponses int `json:"num_incorrect_responses"`
}

// Snapshot captures the full session state for persistence.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Version:     snapshotVersion,
		Config:      e.cfg,
		Cards:       e.cards,
		Remaining:   e.remaining,
		Window:      e.window,
		Current:     e.current,
		Progress:    e.progress,
		MarkAnswers: e.markAnswers,

		NumCards:              e.numCards,
		NumQuestions:          e.numQuestions,
		NumCompletedCards:     e.numCompletedCards,
		NumCompletedQuestions: e.numCompletedQuestions,
		NumCorrectResponses:   e.numCorrectResponses,
		NumIncorrectResponses: e.numIncorrectResponses,
	}
}

// Restore rebuilds an engine from a snapshot, reattaching the bridge and
// generator that were not serialized.
func Restore(snapshot Snapshot, bridge Bridge, generator *card.Generator, rng *rand.Rand) (*Engine, error) {
	if snapshot.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported session snapshot version %d, want %d", snapshot.Version, snapshotVersion)
	}

	e := NewEngine(snapshot.Config, bridge, generator, rng)
	e.cards = snapshot.Cards
	e.remaining = snapshot.Remaining
	e.window = snapshot.Window
	e.current = snapshot.Current
	e.progress = snapshot.Progress
	e.markAnswers = snapshot.MarkAnswers
	e.numCards = snapshot.NumCards
	e.numQuestions = snapshot.NumQuestions
	e.numCompletedCards = snapshot.NumCompletedCards
	e.numCompletedQuestions = snapshot.NumCompletedQuestions
	e.numCorrectResponses = snapshot.NumCorrectResponses
	e.numIncorrectResponses = snapshot.NumIncorrectResponses
	return e, nil
}

// SnapshotStore persists session snapshots under a working directory, keeping
// a rolling set of timestamped backups of the previous snapshot.
type SnapshotStore struct {
	workdir string
	now     func() time.Time
}

// NewSnapshotStore creates a store writing into workdir.
func NewSnapshotStore(workdir string) *SnapshotStore {
	return &SnapshotStore{
		workdir: workdir,
		now:     time.Now,
	}
}

// Save writes the snapshot, rotating an existing snapshot to a timestamped
// backup first and pruning backups beyond the retention limit.
func (s *SnapshotStore) Save(snapshot Snapshot) error {
	if err := os.MkdirAll(s.workdir, 0o755); err != nil {
		return fmt.Errorf("create workdir %s: %w", s.workdir, err)
	}

	path := filepath.Join(s.workdir, snapshotFileName)
	if _, err := os.Stat(path); err == nil {
		backup := filepath.Join(s.workdir, fmt.Sprintf("test_session_backup_%s.json", s.now().Format(backupTimestampLayout)))
		if err := os.Rename(path, backup); err != nil {
			return fmt.Errorf("rotate previous session snapshot: %w", err)
		}
		slog.Default().Warn("previous session snapshot found, rotated to backup",
			slog.String("backup", backup),
		)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session snapshot: %w", err)
	}

	return s.pruneBackups()
}

func (s *SnapshotStore) pruneBackups() error {
	backups, err := filepath.Glob(filepath.Join(s.workdir, snapshotBackupGlob))
	if err != nil {
		return fmt.Errorf("list session snapshot backups: %w", err)
	}

	// newest first; the timestamp in the name sorts lexicographically
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	for _, backup := range backups[min(len(backups), maxSnapshotBackups):] {
		if err := os.Remove(backup); err != nil {
			return fmt.Errorf("remove old session snapshot backup %s: %w", backup, err)
		}
	}
	return nil
}

// Load reads the stored snapshot. It returns false without error when no
// snapshot exists.
func (s *SnapshotStore) Load() (Snapshot, bool, error) {
	path := filepath.Join(s.workdir, snapshotFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read session snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, false, fmt.Errorf("unmarshal session snapshot: %w", err)
	}
	return snapshot, true, nil
}

// Clear removes the stored snapshot. Removing a snapshot that does not exist
// is not an error. Backups are kept.
func (s *SnapshotStore) Clear() error {
	path := filepath.Join(s.workdir, snapshotFileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session snapshot: %w", err)
	}
	return nil
}
