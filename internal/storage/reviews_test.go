package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/gaku/internal/scheduler"
)

func TestReviewRepository_Get(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cardID    string
		setupMock func(mock sqlmock.Sqlmock)
		want      scheduler.Record
		wantFound bool
		wantErr   bool
	}{
		{
			name:   "found",
			cardID: "r1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"card_id", "state", "due", "stability", "difficulty", "last_review", "reviews", "lapses",
				}).AddRow("r1", "review", now.Add(10*24*time.Hour), 12.5, 5.2, now, 4, 1)
				mock.ExpectQuery("SELECT \\* FROM reviews WHERE card_id = \\?").
					WithArgs("r1").
					WillReturnRows(rows)
			},
			want: scheduler.Record{
				CardID:     "r1",
				State:      scheduler.StateReview,
				Due:        now.Add(10 * 24 * time.Hour),
				Stability:  12.5,
				Difficulty: 5.2,
				LastReview: now,
				Reviews:    4,
				Lapses:     1,
			},
			wantFound: true,
		},
		{
			name:   "not found",
			cardID: "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM reviews WHERE card_id = \\?").
					WithArgs("missing").
					WillReturnRows(sqlmock.NewRows([]string{
						"card_id", "state", "due", "stability", "difficulty", "last_review", "reviews", "lapses",
					}))
			},
		},
		{
			name:   "db error",
			cardID: "r1",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM reviews WHERE card_id = \\?").
					WithArgs("r1").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			repo := NewReviewRepository(sqlxDB)
			tt.setupMock(mock)

			got, found, err := repo.Get(context.Background(), tt.cardID)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_Upsert(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	record := scheduler.Record{
		CardID:     "r1",
		State:      scheduler.StateLearning,
		Due:        now.Add(5 * time.Minute),
		Stability:  1.0,
		Difficulty: 5.0,
		LastReview: now,
		Reviews:    1,
		Lapses:     0,
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "inserts or updates the record",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO reviews").
					WithArgs("r1", "learning", now.Add(5*time.Minute), 1.0, 5.0, now, 1, 0).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO reviews").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			repo := NewReviewRepository(sqlxDB)
			tt.setupMock(mock)

			err = repo.Upsert(context.Background(), record)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_CountDueBy(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      int
		wantErr   bool
	}{
		{
			name: "counts due records",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reviews WHERE due <= \\?").
					WithArgs(now).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
			},
			want: 7,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reviews WHERE due <= \\?").
					WithArgs(now).
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			repo := NewReviewRepository(sqlxDB)
			tt.setupMock(mock)

			got, err := repo.CountDueBy(context.Background(), now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_ListAll(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns records ordered by due date", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		sqlxDB := sqlx.NewDb(db, "mysql")
		repo := NewReviewRepository(sqlxDB)

		rows := sqlmock.NewRows([]string{
			"card_id", "state", "due", "stability", "difficulty", "last_review", "reviews", "lapses",
		}).
			AddRow("r1", "review", now, 10.0, 5.0, now.Add(-10*24*time.Hour), 3, 0).
			AddRow("r2", "learning", now.Add(time.Hour), 1.0, 6.0, now, 1, 0)
		mock.ExpectQuery("SELECT \\* FROM reviews ORDER BY due").WillReturnRows(rows)

		got, err := repo.ListAll(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "r1", got[0].CardID)
		assert.Equal(t, scheduler.StateLearning, got[1].State)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
