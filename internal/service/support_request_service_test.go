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

type mockSupportRequestRepo struct {
	requests       map[string]*models.SupportRequest
	created        []*models.SupportRequest
	statusUpdates  map[string]string
	appendedStatus *string
	appendedProg   *int
	appended       []models.WorkUpdate
}

func (m *mockSupportRequestRepo) Create(ctx context.Context, req *models.SupportRequest) error {
	req.ID = "req-new"
	m.created = append(m.created, req)
	return nil
}

func (m *mockSupportRequestRepo) FindByID(ctx context.Context, id string) (*models.SupportRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (m *mockSupportRequestRepo) ListAll(ctx context.Context) ([]models.SupportRequest, error) {
	var all []models.SupportRequest
	for _, req := range m.requests {
		all = append(all, *req)
	}
	return all, nil
}

func (m *mockSupportRequestRepo) ListForUser(ctx context.Context, userID string) ([]models.SupportRequest, error) {
	var mine []models.SupportRequest
	for _, req := range m.requests {
		if req.CreatedBy != nil && *req.CreatedBy == userID {
			mine = append(mine, *req)
		}
	}
	return mine, nil
}

func (m *mockSupportRequestRepo) ListForProject(ctx context.Context, projectID string) ([]models.SupportRequest, error) {
	var scoped []models.SupportRequest
	for _, req := range m.requests {
		if req.ProjectID != nil && *req.ProjectID == projectID {
			scoped = append(scoped, *req)
		}
	}
	return scoped, nil
}

func (m *mockSupportRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	req, ok := m.requests[id]
	if !ok {
		return sql.ErrNoRows
	}
	req.Status = status
	if m.statusUpdates == nil {
		m.statusUpdates = make(map[string]string)
	}
	m.statusUpdates[id] = status
	return nil
}

func (m *mockSupportRequestRepo) AppendWorkUpdate(ctx context.Context, id string, entry models.WorkUpdate, progress *int, status *string) error {
	req, ok := m.requests[id]
	if !ok {
		return sql.ErrNoRows
	}
	req.WorkUpdates = append(req.WorkUpdates, entry)
	if progress != nil {
		req.Progress = *progress
	}
	if status != nil {
		req.Status = *status
	}
	m.appended = append(m.appended, entry)
	m.appendedProg = progress
	m.appendedStatus = status
	return nil
}

type mockAssignments struct {
	pairs map[string]bool
	err   error
}

func (m *mockAssignments) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.pairs[userID+"/"+projectID], nil
}

type mockProjects struct {
	projects map[string]*models.Project
}

func (m *mockProjects) FindByID(ctx context.Context, id string) (*models.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return project, nil
}

type mockRequestAudit struct {
	logs []*models.AuditLog
}

func (m *mockRequestAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func newSupportRequestService(repo *mockSupportRequestRepo, assignments *mockAssignments, projects *mockProjects) *SupportRequestService {
	if repo.requests == nil {
		repo.requests = make(map[string]*models.SupportRequest)
	}
	if assignments == nil {
		assignments = &mockAssignments{}
	}
	if projects == nil {
		projects = &mockProjects{}
	}
	return NewSupportRequestService(repo, assignments, projects, &mockRequestAudit{}, nil, nil)
}

func userClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleUser}
}

func validCreatePayload() dto.CreateSupportRequestRequest {
	return dto.CreateSupportRequestRequest{
		Title:       "Integration support",
		SupportType: models.SupportTechnical,
		Impact:      "Unblocks the rollout",
	}
}

func TestSupportRequestCreateForcesPendingStatus(t *testing.T) {
	repo := &mockSupportRequestRepo{}
	svc := newSupportRequestService(repo, nil, nil)

	created, err := svc.Create(context.Background(), validCreatePayload(), userClaims())
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, created.Status)
	assert.Equal(t, 0, created.Progress)
	assert.NotNil(t, created.WorkUpdates)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, "user-1", *created.CreatedBy)
}

func TestSupportRequestCreateGuestRequiresContact(t *testing.T) {
	svc := newSupportRequestService(&mockSupportRequestRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), validCreatePayload(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSupportRequestCreateGuestGeneralRequest(t *testing.T) {
	repo := &mockSupportRequestRepo{}
	svc := newSupportRequestService(repo, nil, nil)

	payload := validCreatePayload()
	payload.GuestName = "Amina K."
	payload.GuestEmail = "amina@example.org"

	created, err := svc.Create(context.Background(), payload, nil)
	require.NoError(t, err)
	assert.Nil(t, created.CreatedBy)
	require.NotNil(t, created.GuestName)
	assert.Equal(t, "Amina K.", *created.GuestName)
}

func TestSupportRequestCreateGuestCannotScopeToProject(t *testing.T) {
	projects := &mockProjects{projects: map[string]*models.Project{"project-1": {ID: "project-1"}}}
	svc := newSupportRequestService(&mockSupportRequestRepo{}, nil, projects)

	payload := validCreatePayload()
	payload.GuestName = "Amina K."
	payload.GuestEmail = "amina@example.org"
	projectID := "project-1"
	payload.ProjectID = &projectID

	_, err := svc.Create(context.Background(), payload, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSupportRequestCreateRequiresAssignment(t *testing.T) {
	projects := &mockProjects{projects: map[string]*models.Project{"project-1": {ID: "project-1"}}}
	assignments := &mockAssignments{pairs: map[string]bool{}}
	svc := newSupportRequestService(&mockSupportRequestRepo{}, assignments, projects)

	payload := validCreatePayload()
	projectID := "project-1"
	payload.ProjectID = &projectID

	_, err := svc.Create(context.Background(), payload, userClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	// The same request passes once the user is assigned.
	assignments.pairs["user-1/project-1"] = true
	created, err := svc.Create(context.Background(), payload, userClaims())
	require.NoError(t, err)
	require.NotNil(t, created.ProjectID)
	assert.Equal(t, "project-1", *created.ProjectID)
}

func TestSupportRequestCreateAdminBypassesAssignment(t *testing.T) {
	projects := &mockProjects{projects: map[string]*models.Project{"project-1": {ID: "project-1"}}}
	svc := newSupportRequestService(&mockSupportRequestRepo{}, &mockAssignments{}, projects)

	payload := validCreatePayload()
	projectID := "project-1"
	payload.ProjectID = &projectID

	_, err := svc.Create(context.Background(), payload, adminClaims())
	require.NoError(t, err)
}

func TestSupportRequestCreateUnknownProject(t *testing.T) {
	svc := newSupportRequestService(&mockSupportRequestRepo{}, nil, nil)

	payload := validCreatePayload()
	projectID := "project-9"
	payload.ProjectID = &projectID

	_, err := svc.Create(context.Background(), payload, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSupportRequestCreateRejectsUnknownSupportType(t *testing.T) {
	svc := newSupportRequestService(&mockSupportRequestRepo{}, nil, nil)

	payload := validCreatePayload()
	payload.SupportType = models.SupportType("espionage")

	_, err := svc.Create(context.Background(), payload, userClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSupportRequestGetRestrictedToCreator(t *testing.T) {
	owner := "user-1"
	repo := &mockSupportRequestRepo{requests: map[string]*models.SupportRequest{
		"req-1": {ID: "req-1", Status: models.RequestStatusPending, CreatedBy: &owner},
	}}
	svc := newSupportRequestService(repo, nil, nil)

	_, err := svc.Get(context.Background(), "req-1", userClaims())
	require.NoError(t, err)

	stranger := &models.JWTClaims{UserID: "user-2", Role: models.RoleUser}
	_, err = svc.Get(context.Background(), "req-1", stranger)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), "req-1", adminClaims())
	require.NoError(t, err)
}

func TestSupportRequestUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to approved", models.RequestStatusPending, models.RequestStatusApproved, true},
		{"pending to declined", models.RequestStatusPending, models.RequestStatusDeclined, true},
		{"pending to resolved", models.RequestStatusPending, models.RequestStatusResolved, false},
		{"approved to ongoing rewrites literal", models.RequestStatusApproved, models.RequestStatusOngoing, true},
		{"ongoing to resolved", models.RequestStatusOngoing, models.RequestStatusResolved, true},
		{"ongoing to declined", models.RequestStatusOngoing, models.RequestStatusDeclined, true},
		{"resolved to ongoing", models.RequestStatusResolved, models.RequestStatusOngoing, false},
		{"declined to pending", models.RequestStatusDeclined, models.RequestStatusPending, false},
		{"resolved to closed stays terminal", models.RequestStatusResolved, models.RequestStatusClosed, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockSupportRequestRepo{requests: map[string]*models.SupportRequest{
				"req-1": {ID: "req-1", Status: tc.from},
			}}
			svc := newSupportRequestService(repo, nil, nil)

			updated, err := svc.UpdateStatus(context.Background(), "req-1", tc.to, adminClaims())
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
			}
		})
	}
}

func TestSupportRequestUpdateStatusUnknownLiteral(t *testing.T) {
	repo := &mockSupportRequestRepo{requests: map[string]*models.SupportRequest{
		"req-1": {ID: "req-1", Status: models.RequestStatusPending},
	}}
	svc := newSupportRequestService(repo, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "req-1", "banana", adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSupportRequestAppendWorkUpdate(t *testing.T) {
	repo := &mockSupportRequestRepo{requests: map[string]*models.SupportRequest{
		"req-1": {ID: "req-1", Status: models.RequestStatusOngoing, Progress: 20},
	}}
	svc := newSupportRequestService(repo, nil, nil)

	progress := 60
	status := models.RequestStatusResolved
	updated, err := svc.AppendWorkUpdate(context.Background(), "req-1", dto.AppendWorkUpdateRequest{
		Message:      "final milestone delivered",
		Progress:     &progress,
		StatusChange: &status,
	}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Progress)
	assert.Equal(t, models.RequestStatusResolved, updated.Status)
	require.Len(t, updated.WorkUpdates, 1)
	assert.Equal(t, "final milestone delivered", updated.WorkUpdates[0].Message)
}

func TestSupportRequestAppendWorkUpdateIllegalStatus(t *testing.T) {
	repo := &mockSupportRequestRepo{requests: map[string]*models.SupportRequest{
		"req-1": {ID: "req-1", Status: models.RequestStatusDeclined},
	}}
	svc := newSupportRequestService(repo, nil, nil)

	status := models.RequestStatusOngoing
	_, err := svc.AppendWorkUpdate(context.Background(), "req-1", dto.AppendWorkUpdateRequest{
		Message:      "reopening",
		StatusChange: &status,
	}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.appended)
}

func TestSupportRequestListForProjectGrouping(t *testing.T) {
	projectID := "project-1"
	repo := &mockSupportRequestRepo{requests: map[string]*models.SupportRequest{
		"req-1": {ID: "req-1", Status: models.RequestStatusPending, ProjectID: &projectID},
		"req-2": {ID: "req-2", Status: models.RequestStatusOngoing, ProjectID: &projectID},
		"req-3": {ID: "req-3", Status: models.RequestStatusResolved, ProjectID: &projectID},
		"req-4": {ID: "req-4", Status: models.RequestStatusDeclined, ProjectID: &projectID},
	}}
	svc := newSupportRequestService(repo, nil, nil)

	grouped, err := svc.ListForProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.Len(t, grouped.Ongoing, 2)
	assert.Len(t, grouped.Completed, 2)
	assert.Equal(t, 4, len(grouped.Ongoing)+len(grouped.Completed))
}

func TestSupportRequestListScopedToActor(t *testing.T) {
	owner := "user-1"
	other := "user-2"
	repo := &mockSupportRequestRepo{requests: map[string]*models.SupportRequest{
		"req-1": {ID: "req-1", Status: models.RequestStatusPending, CreatedBy: &owner},
		"req-2": {ID: "req-2", Status: models.RequestStatusPending, CreatedBy: &other},
	}}
	svc := newSupportRequestService(repo, nil, nil)

	mine, err := svc.List(context.Background(), userClaims())
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background(), adminClaims())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
