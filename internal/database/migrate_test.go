package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	t.Run("applies every migration file in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS cards").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS reviews").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS recent_mistakes").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS sources").
			WillReturnResult(sqlmock.NewResult(0, 0))

		sqlxDB := sqlx.NewDb(db, "mysql")
		require.NoError(t, Migrate(context.Background(), sqlxDB))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops on the first failing migration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS cards").
			WillReturnError(errors.New("permission denied"))

		sqlxDB := sqlx.NewDb(db, "mysql")
		err = Migrate(context.Background(), sqlxDB)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "001_create_cards.sql")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
