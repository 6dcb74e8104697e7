package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/service"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

// PartnerHandler exposes the partners collection.
type PartnerHandler struct {
	service *service.PartnerService
}

// NewPartnerHandler creates a new handler.
func NewPartnerHandler(svc *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: svc}
}

// List godoc
// @Summary List partners
// @Tags Partners
// @Produce json
// @Param status query string false "Status filter (admins only)"
// @Success 200 {object} response.Envelope
// @Router /partners [get]
func (h *PartnerHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), statusFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get partner
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /partners/{id} [get]
func (h *PartnerHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create partner
// @Tags Partners
// @Accept json
// @Produce json
// @Param payload body dto.CreatePartnerRequest true "Partner payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /partners [post]
func (h *PartnerHandler) Create(c *gin.Context) {
	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid partner payload"))
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
// @Summary Update partner
// @Tags Partners
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param payload body dto.UpdatePartnerRequest true "Partner patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /partners/{id} [put]
func (h *PartnerHandler) Update(c *gin.Context) {
	var req dto.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid partner payload"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ToggleFeatured godoc
// @Summary Toggle featured flag
// @Description Flip is_featured atomically and return the updated partner.
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /partners/{id}/featured [patch]
func (h *PartnerHandler) ToggleFeatured(c *gin.Context) {
	item, err := h.service.ToggleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete partner
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /partners/{id} [delete]
func (h *PartnerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
