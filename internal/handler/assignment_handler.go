package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/service"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

// AssignmentHandler exposes the project assignment registry.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Assign godoc
// @Summary Assign user to project
// @Description Idempotent: repeating an assignment succeeds without a duplicate.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AssignmentRequest true "Assignment"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /project-assignments [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	if err := h.service.Assign(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unassign godoc
// @Summary Remove user from project
// @Description Idempotent: removing an absent assignment succeeds.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AssignmentRequest true "Assignment"
// @Success 204 {object} response.Envelope
// @Router /project-assignments [delete]
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	if err := h.service.Unassign(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ProjectsForUser godoc
// @Summary List a user's assigned projects
// @Tags Assignments
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/projects [get]
func (h *AssignmentHandler) ProjectsForUser(c *gin.Context) {
	projects, err := h.service.ListProjectsForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// UsersForProject godoc
// @Summary List a project's assigned users
// @Tags Assignments
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/users [get]
func (h *AssignmentHandler) UsersForProject(c *gin.Context) {
	users, err := h.service.ListUsersForProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}
