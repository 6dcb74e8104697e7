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

func newPartnerRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPartnerRepositoryToggleFeatured(t *testing.T) {
	db, mock, cleanup := newPartnerRepoMock(t)
	defer cleanup()

	repo := NewPartnerRepository(db)
	mock.ExpectQuery("UPDATE partners SET is_featured").
		WithArgs("partner-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"is_featured"}).AddRow(true))

	featured, err := repo.ToggleFeatured(context.Background(), "partner-1")
	require.NoError(t, err)
	assert.True(t, featured)
}

func TestPartnerRepositoryToggleFeaturedMissing(t *testing.T) {
	db, mock, cleanup := newPartnerRepoMock(t)
	defer cleanup()

	repo := NewPartnerRepository(db)
	mock.ExpectQuery("UPDATE partners SET is_featured").
		WithArgs("partner-9", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ToggleFeatured(context.Background(), "partner-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPartnerRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newPartnerRepoMock(t)
	defer cleanup()

	repo := NewPartnerRepository(db)
	mock.ExpectExec("DELETE FROM partners").
		WithArgs("partner-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "partner-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
