package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/service"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

// StandardHandler exposes the standards collection.
type StandardHandler struct {
	service *service.StandardService
}

// NewStandardHandler creates a new handler.
func NewStandardHandler(svc *service.StandardService) *StandardHandler {
	return &StandardHandler{service: svc}
}

// List godoc
// @Summary List standards
// @Tags Standards
// @Produce json
// @Param status query string false "Status filter (admins only)"
// @Success 200 {object} response.Envelope
// @Router /standards [get]
func (h *StandardHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), statusFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get standard
// @Tags Standards
// @Produce json
// @Param id path string true "Standard ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /standards/{id} [get]
func (h *StandardHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create standard
// @Tags Standards
// @Accept json
// @Produce json
// @Param payload body dto.CreateStandardRequest true "Standard payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /standards [post]
func (h *StandardHandler) Create(c *gin.Context) {
	var req dto.CreateStandardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid standard payload"))
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
// @Summary Update standard
// @Tags Standards
// @Accept json
// @Produce json
// @Param id path string true "Standard ID"
// @Param payload body dto.UpdateStandardRequest true "Standard patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /standards/{id} [put]
func (h *StandardHandler) Update(c *gin.Context) {
	var req dto.UpdateStandardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid standard payload"))
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
// @Summary Delete standard
// @Tags Standards
// @Produce json
// @Param id path string true "Standard ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /standards/{id} [delete]
func (h *StandardHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
