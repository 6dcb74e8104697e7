package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type mockAssignmentRepo struct {
	pairs map[string]bool
}

func (m *mockAssignmentRepo) Assign(ctx context.Context, userID, projectID string) error {
	if m.pairs == nil {
		m.pairs = make(map[string]bool)
	}
	m.pairs[userID+"/"+projectID] = true
	return nil
}

func (m *mockAssignmentRepo) Unassign(ctx context.Context, userID, projectID string) error {
	delete(m.pairs, userID+"/"+projectID)
	return nil
}

func (m *mockAssignmentRepo) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	return m.pairs[userID+"/"+projectID], nil
}

func (m *mockAssignmentRepo) ListProjectsForUser(ctx context.Context, userID string) ([]models.AssignedProject, error) {
	return nil, nil
}

func (m *mockAssignmentRepo) ListUsersForProject(ctx context.Context, projectID string) ([]models.AssignedUser, error) {
	return nil, nil
}

type mockUserReader struct {
	users map[string]*models.User
}

func (m *mockUserReader) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func TestAssignmentAssignIsIdempotent(t *testing.T) {
	repo := &mockAssignmentRepo{}
	users := &mockUserReader{users: map[string]*models.User{"user-1": {ID: "user-1"}}}
	projects := &mockProjects{projects: map[string]*models.Project{"project-1": {ID: "project-1"}}}
	svc := NewAssignmentService(repo, users, projects, nil, nil)

	req := dto.AssignmentRequest{UserID: "user-1", ProjectID: "project-1"}
	require.NoError(t, svc.Assign(context.Background(), req))
	require.NoError(t, svc.Assign(context.Background(), req))
	assert.True(t, repo.pairs["user-1/project-1"])
}

func TestAssignmentAssignUnknownUser(t *testing.T) {
	projects := &mockProjects{projects: map[string]*models.Project{"project-1": {ID: "project-1"}}}
	svc := NewAssignmentService(&mockAssignmentRepo{}, &mockUserReader{}, projects, nil, nil)

	err := svc.Assign(context.Background(), dto.AssignmentRequest{UserID: "ghost", ProjectID: "project-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentAssignUnknownProject(t *testing.T) {
	users := &mockUserReader{users: map[string]*models.User{"user-1": {ID: "user-1"}}}
	svc := NewAssignmentService(&mockAssignmentRepo{}, users, &mockProjects{}, nil, nil)

	err := svc.Assign(context.Background(), dto.AssignmentRequest{UserID: "user-1", ProjectID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentAssignValidation(t *testing.T) {
	svc := NewAssignmentService(&mockAssignmentRepo{}, &mockUserReader{}, &mockProjects{}, nil, nil)

	err := svc.Assign(context.Background(), dto.AssignmentRequest{UserID: "", ProjectID: "project-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentUnassignMissingPairIsNoop(t *testing.T) {
	repo := &mockAssignmentRepo{}
	svc := NewAssignmentService(repo, &mockUserReader{}, &mockProjects{}, nil, nil)

	require.NoError(t, svc.Unassign(context.Background(), dto.AssignmentRequest{UserID: "user-1", ProjectID: "project-1"}))
}
