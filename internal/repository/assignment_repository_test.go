package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestAssignmentRepositoryAssign(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectExec("INSERT INTO project_assignments").
		WithArgs("user-1", "project-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Assign(context.Background(), "user-1", "project-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryAssignDuplicateIsNoop(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	// ON CONFLICT DO NOTHING reports zero affected rows for an existing pair.
	mock.ExpectExec("INSERT INTO project_assignments").
		WithArgs("user-1", "project-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Assign(context.Background(), "user-1", "project-1"))
}

func TestAssignmentRepositoryUnassignMissingIsNoop(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectExec("DELETE FROM project_assignments").
		WithArgs("user-1", "project-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Unassign(context.Background(), "user-1", "project-9"))
}

func TestAssignmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectQuery("SELECT 1 FROM project_assignments").
		WithArgs("user-1", "project-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	assigned, err := repo.Exists(context.Background(), "user-1", "project-1")
	require.NoError(t, err)
	assert.True(t, assigned)
}

func TestAssignmentRepositoryExistsFalse(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectQuery("SELECT 1 FROM project_assignments").
		WithArgs("user-1", "project-9").
		WillReturnError(sql.ErrNoRows)

	assigned, err := repo.Exists(context.Background(), "user-1", "project-9")
	require.NoError(t, err)
	assert.False(t, assigned)
}

func TestAssignmentRepositoryListProjectsForUser(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	rows := sqlmock.NewRows([]string{"project_id", "project_title", "status", "assigned_at"}).
		AddRow("project-1", "National ID Platform", "published", time.Now())
	mock.ExpectQuery("SELECT pa.project_id").
		WithArgs("user-1").
		WillReturnRows(rows)

	projects, err := repo.ListProjectsForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "National ID Platform", projects[0].ProjectTitle)
}
