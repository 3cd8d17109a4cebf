package session

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/gaku/internal/card"
	mock_session "github.com/at-ishikawa/gaku/internal/mocks/session"
	"github.com/at-ishikawa/gaku/internal/scheduler"
)

func TestEngine_Snapshot_restoreContinuesSession(t *testing.T) {
	engine, bridge := newTestEngine(t)
	bridge.EXPECT().ReviewState(gomock.Any()).Return(scheduler.Record{}, false, nil).Times(2)

	require.NoError(t, engine.Load([]card.Card{
		newRadicalCard("r1", "水", "みず"),
		newRadicalCard("r2", "火", "ひ"),
	}))
	next, err := engine.NextQuestion()
	require.NoError(t, err)

	snapshot := engine.Snapshot()
	assert.Equal(t, snapshotVersion, snapshot.Version)

	ctrl := gomock.NewController(t)
	restoredBridge := mock_session.NewMockBridge(ctrl)
	restoredBridge.EXPECT().RecordReview(gomock.Any(), scheduler.RatingGood).Return(scheduler.Record{}, nil).Times(2)
	restoredBridge.EXPECT().PersistReview(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	generator := card.NewGenerator(card.GeneratorConfig{}, rand.New(rand.NewSource(1)))
	restored, err := Restore(snapshot, restoredBridge, generator, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// the outstanding question survives the round trip
	restoredNext, err := restored.NextQuestion()
	require.NoError(t, err)
	require.NotNil(t, restoredNext.Question)
	assert.Equal(t, next.Question.ID, restoredNext.Question.ID)
	assert.Equal(t, engine.Status(), restored.Status())

	answers := map[string]string{"r1": "みず", "r2": "ひ"}
	for restoredNext.Question != nil {
		_, err = restored.AnswerQuestion(respond(restoredNext.Question, answers[restoredNext.Question.ParentID]))
		require.NoError(t, err)
		restoredNext, err = restored.NextQuestion()
		require.NoError(t, err)
	}
	assert.True(t, restored.IsFinished())
}

func TestRestore_versionMismatch(t *testing.T) {
	_, err := Restore(Snapshot{Version: 99}, nil, nil, nil)
	assert.Error(t, err)
}

func TestSnapshotStore(t *testing.T) {
	t.Run("load without a snapshot reports absence", func(t *testing.T) {
		store := NewSnapshotStore(t.TempDir())
		_, found, err := store.Load()
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("save and load round trip", func(t *testing.T) {
		store := NewSnapshotStore(t.TempDir())
		snapshot := Snapshot{
			Version:     snapshotVersion,
			Config:      DefaultConfig(),
			MarkAnswers: true,
			NumCards:    3,
			Progress: map[string]*CardProgress{
				"r1": {
					CardID:      "r1",
					Questions:   map[string]*QuestionProgress{"q1": {NeedsCorrectResponses: 2, Mistakes: 1}},
					NumMistakes: 1,
				},
			},
		}
		require.NoError(t, store.Save(snapshot))

		loaded, found, err := store.Load()
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, snapshot, loaded)
	})

	t.Run("previous snapshots rotate into at most five backups", func(t *testing.T) {
		dir := t.TempDir()
		store := NewSnapshotStore(dir)
		timestamp := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		store.now = func() time.Time {
			timestamp = timestamp.Add(time.Second)
			return timestamp
		}

		for i := 0; i < 8; i++ {
			require.NoError(t, store.Save(Snapshot{Version: snapshotVersion, NumCards: i}))
		}

		backups, err := filepath.Glob(filepath.Join(dir, snapshotBackupGlob))
		require.NoError(t, err)
		assert.Len(t, backups, maxSnapshotBackups)

		// the latest snapshot is still the last one saved
		loaded, found, err := store.Load()
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 7, loaded.NumCards)
	})

	t.Run("clear removes the snapshot and keeps backups", func(t *testing.T) {
		dir := t.TempDir()
		store := NewSnapshotStore(dir)
		require.NoError(t, store.Save(Snapshot{Version: snapshotVersion}))
		require.NoError(t, store.Save(Snapshot{Version: snapshotVersion, NumCards: 1}))

		require.NoError(t, store.Clear())
		_, found, err := store.Load()
		require.NoError(t, err)
		assert.False(t, found)

		backups, err := filepath.Glob(filepath.Join(dir, snapshotBackupGlob))
		require.NoError(t, err)
		assert.Len(t, backups, 1)

		// clearing again is a no-op
		require.NoError(t, store.Clear())
	})
}
