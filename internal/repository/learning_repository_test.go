package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLearningRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestLearningRepositoryIncrementDownloads(t *testing.T) {
	db, mock, cleanup := newLearningRepoMock(t)
	defer cleanup()

	repo := NewLearningRepository(db)
	mock.ExpectQuery("UPDATE learning_modules SET downloads").
		WithArgs("module-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"downloads"}).AddRow(7))

	downloads, err := repo.IncrementDownloads(context.Background(), "module-1")
	require.NoError(t, err)
	assert.Equal(t, 7, downloads)
}

func TestLearningRepositoryIncrementDownloadsMissing(t *testing.T) {
	db, mock, cleanup := newLearningRepoMock(t)
	defer cleanup()

	repo := NewLearningRepository(db)
	mock.ExpectQuery("UPDATE learning_modules SET downloads").
		WithArgs("module-9", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.IncrementDownloads(context.Background(), "module-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
