package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type mockExportLister struct {
	requests []models.SupportRequest
	err      error
}

func (m *mockExportLister) ListAll(ctx context.Context) ([]models.SupportRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.requests, nil
}

func TestExportSupportRequestsCSV(t *testing.T) {
	projectID := "project-1"
	lister := &mockExportLister{requests: []models.SupportRequest{
		{
			ID:          "req-1",
			Title:       "Integration support",
			SupportType: models.SupportTechnical,
			Status:      models.RequestStatusOngoing,
			Progress:    40,
			ProjectID:   &projectID,
			CreatedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewExportService(lister, "Digital Transformation Program", nil)

	result, err := svc.SupportRequests(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "support-requests-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Content)
	assert.Contains(t, body, "ID,Title,Type,Status,Group,Progress,Project,Submitted")
	assert.Contains(t, body, "req-1,Integration support,Technical,ongoing,ACTIVE,40,project-1")
}

func TestExportSupportRequestsPDF(t *testing.T) {
	lister := &mockExportLister{requests: []models.SupportRequest{
		{ID: "req-1", Title: "Training", SupportType: models.SupportTraining, Status: models.RequestStatusPending},
	}}
	svc := NewExportService(lister, "Digital Transformation Program", nil)

	result, err := svc.SupportRequests(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
}

func TestExportSupportRequestsUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockExportLister{}, "Digital Transformation Program", nil)

	_, err := svc.SupportRequests(context.Background(), ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
