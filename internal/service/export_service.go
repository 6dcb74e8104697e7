package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/export"
)

type exportRequestLister interface {
	ListAll(ctx context.Context) ([]models.SupportRequest, error)
}

// ExportFormat enumerates supported report formats.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered report bytes and response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders support-request reports for admins.
type ExportService struct {
	requests    exportRequestLister
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	programName string
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(requests exportRequestLister, programName string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		requests:    requests,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		programName: programName,
		logger:      logger,
	}
}

var supportRequestHeaders = []string{"ID", "Title", "Type", "Status", "Group", "Progress", "Project", "Submitted"}

// SupportRequests renders every support request in the requested format.
func (s *ExportService) SupportRequests(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	requests, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load support requests")
	}

	dataset := export.Dataset{Headers: supportRequestHeaders, Rows: make([]map[string]string, 0, len(requests))}
	for _, req := range requests {
		project := ""
		if req.ProjectID != nil {
			project = *req.ProjectID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":        req.ID,
			"Title":     req.Title,
			"Type":      string(req.SupportType),
			"Status":    req.Status,
			"Group":     string(req.Group()),
			"Progress":  strconv.Itoa(req.Progress),
			"Project":   project,
			"Submitted": req.CreatedAt.Format(time.RFC3339),
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("support-requests-%s.csv", stamp),
		}, nil
	case FormatPDF:
		title := s.programName + " Support Requests"
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("support-requests-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
