package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	"github.com/dtp-gov/portal-api/internal/service"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

type supportRequestService interface {
	Create(ctx context.Context, req dto.CreateSupportRequestRequest, actor *models.JWTClaims) (*models.SupportRequest, error)
	List(ctx context.Context, actor *models.JWTClaims) ([]models.SupportRequest, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.SupportRequest, error)
	UpdateStatus(ctx context.Context, id, status string, actor *models.JWTClaims) (*models.SupportRequest, error)
	AppendWorkUpdate(ctx context.Context, id string, req dto.AppendWorkUpdateRequest, actor *models.JWTClaims) (*models.SupportRequest, error)
}

type supportRequestExporter interface {
	SupportRequests(ctx context.Context, format service.ExportFormat) (*service.ExportResult, error)
}

// SupportRequestHandler exposes the support request lifecycle.
type SupportRequestHandler struct {
	service supportRequestService
	exports supportRequestExporter
}

// NewSupportRequestHandler creates a new handler.
func NewSupportRequestHandler(svc supportRequestService, exports supportRequestExporter) *SupportRequestHandler {
	return &SupportRequestHandler{service: svc, exports: exports}
}

// Create godoc
// @Summary Submit support request
// @Description Submit a new request. Guests must include contact details. New requests always start pending.
// @Tags Support Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateSupportRequestRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /support-requests [post]
func (h *SupportRequestHandler) Create(c *gin.Context) {
	var req dto.CreateSupportRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid support request payload"))
		return
	}

	request, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// List godoc
// @Summary List support requests
// @Description Admins see every request; other users see their own.
// @Tags Support Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /support-requests [get]
func (h *SupportRequestHandler) List(c *gin.Context) {
	requests, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Get godoc
// @Summary Get support request
// @Tags Support Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /support-requests/{id} [get]
func (h *SupportRequestHandler) Get(c *gin.Context) {
	request, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// UpdateStatus godoc
// @Summary Transition request status
// @Description Move a request through its lifecycle. Illegal transitions return 409.
// @Tags Support Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /support-requests/{id}/status [patch]
func (h *SupportRequestHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	request, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// AppendWorkUpdate godoc
// @Summary Append work update
// @Description Append a progress log entry, optionally moving progress and status in the same write.
// @Tags Support Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.AppendWorkUpdateRequest true "Work update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /support-requests/{id}/progress [patch]
func (h *SupportRequestHandler) AppendWorkUpdate(c *gin.Context) {
	var req dto.AppendWorkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid work update payload"))
		return
	}

	request, err := h.service.AppendWorkUpdate(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Export godoc
// @Summary Export support requests
// @Description Download every request as a CSV or PDF report
// @Tags Support Requests
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /support-requests/export [get]
func (h *SupportRequestHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.SupportRequests(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
