package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/service"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

// InitiativeHandler exposes the initiatives collection.
type InitiativeHandler struct {
	service *service.InitiativeService
}

// NewInitiativeHandler creates a new handler.
func NewInitiativeHandler(svc *service.InitiativeService) *InitiativeHandler {
	return &InitiativeHandler{service: svc}
}

// List godoc
// @Summary List initiatives
// @Tags Initiatives
// @Produce json
// @Param status query string false "Status filter (admins only)"
// @Success 200 {object} response.Envelope
// @Router /initiatives [get]
func (h *InitiativeHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), statusFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get initiative
// @Tags Initiatives
// @Produce json
// @Param id path string true "Initiative ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /initiatives/{id} [get]
func (h *InitiativeHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create initiative
// @Tags Initiatives
// @Accept json
// @Produce json
// @Param payload body dto.CreateInitiativeRequest true "Initiative payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /initiatives [post]
func (h *InitiativeHandler) Create(c *gin.Context) {
	var req dto.CreateInitiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid initiative payload"))
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
// @Summary Update initiative
// @Tags Initiatives
// @Accept json
// @Produce json
// @Param id path string true "Initiative ID"
// @Param payload body dto.UpdateInitiativeRequest true "Initiative patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /initiatives/{id} [put]
func (h *InitiativeHandler) Update(c *gin.Context) {
	var req dto.UpdateInitiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid initiative payload"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete initiative
// @Tags Initiatives
// @Produce json
// @Param id path string true "Initiative ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /initiatives/{id} [delete]
func (h *InitiativeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
