package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

type settingService interface {
	Get(ctx context.Context, key string) (*dto.SettingResponse, error)
	Put(ctx context.Context, key string, value json.RawMessage, actor *models.JWTClaims) (*dto.SettingResponse, error)
	Sections(ctx context.Context) ([]models.SectionState, error)
	SetVisibility(ctx context.Context, key string, visible bool, actor *models.JWTClaims) error
	MoveSection(ctx context.Context, key, direction string, actor *models.JWTClaims) ([]models.Section, error)
}

// SettingHandler exposes the settings store and the section controls
// layered on top of it.
type SettingHandler struct {
	service settingService
}

// NewSettingHandler creates a new handler.
func NewSettingHandler(svc settingService) *SettingHandler {
	return &SettingHandler{service: svc}
}

// Get godoc
// @Summary Get setting
// @Description Fetch the raw value stored under a key. Missing keys return a JSON null value, not 404.
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Envelope
// @Router /settings/{key} [get]
func (h *SettingHandler) Get(c *gin.Context) {
	setting, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, setting, nil)
}

// Put godoc
// @Summary Update setting
// @Description Upsert the raw JSON value stored under a key
// @Tags Settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param payload body dto.UpdateSettingRequest true "Setting value"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings/{key} [put]
func (h *SettingHandler) Put(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid setting payload"))
		return
	}

	setting, err := h.service.Put(c.Request.Context(), c.Param("key"), req.Value, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, setting, nil)
}

// Sections godoc
// @Summary List section states
// @Description Resolved visibility and ordering for every site section
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/sections [get]
func (h *SettingHandler) Sections(c *gin.Context) {
	states, err := h.service.Sections(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, states, nil)
}

// SetVisibility godoc
// @Summary Set section visibility
// @Tags Settings
// @Accept json
// @Produce json
// @Param key path string true "Section key"
// @Param payload body dto.SetVisibilityRequest true "Visibility flag"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings/sections/{key}/visibility [put]
func (h *SettingHandler) SetVisibility(c *gin.Context) {
	var req dto.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Visible == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "visible flag required"))
		return
	}

	if err := h.service.SetVisibility(c.Request.Context(), c.Param("key"), *req.Visible, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MoveSection godoc
// @Summary Move section
// @Description Swap a section with its neighbour one position up or down
// @Tags Settings
// @Accept json
// @Produce json
// @Param key path string true "Section key"
// @Param payload body dto.MoveSectionRequest true "Direction"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings/sections/{key}/move [patch]
func (h *SettingHandler) MoveSection(c *gin.Context) {
	var req dto.MoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return
	}

	order, err := h.service.MoveSection(c.Request.Context(), c.Param("key"), req.Direction, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}
