package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/service"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

// LearningHandler exposes the learning modules collection.
type LearningHandler struct {
	service *service.LearningService
}

// NewLearningHandler creates a new handler.
func NewLearningHandler(svc *service.LearningService) *LearningHandler {
	return &LearningHandler{service: svc}
}

// List godoc
// @Summary List learning modules
// @Tags Learning
// @Produce json
// @Param status query string false "Status filter (admins only)"
// @Success 200 {object} response.Envelope
// @Router /learning-modules [get]
func (h *LearningHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), statusFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get learning module
// @Tags Learning
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /learning-modules/{id} [get]
func (h *LearningHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create learning module
// @Tags Learning
// @Accept json
// @Produce json
// @Param payload body dto.CreateLearningModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /learning-modules [post]
func (h *LearningHandler) Create(c *gin.Context) {
	var req dto.CreateLearningModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid learning module payload"))
		return
	}

	item, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update learning module
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body dto.UpdateLearningModuleRequest true "Module patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /learning-modules/{id} [put]
func (h *LearningHandler) Update(c *gin.Context) {
	var req dto.UpdateLearningModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid learning module payload"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Download godoc
// @Summary Record module download
// @Description Increment the download counter and return the new total.
// @Tags Learning
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /learning-modules/{id}/download [post]
func (h *LearningHandler) Download(c *gin.Context) {
	downloads, err := h.service.RecordDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"downloads": downloads}, nil)
}

// Delete godoc
// @Summary Delete learning module
// @Tags Learning
// @Produce json
// @Param id path string true "Module ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /learning-modules/{id} [delete]
func (h *LearningHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
