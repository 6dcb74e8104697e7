package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/dtp-gov/portal-api/internal/service"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/response"
)

// UploadHandler exposes the media upload passthrough.
type UploadHandler struct {
	service *service.UploadService
	metrics *service.MetricsService
}

// NewUploadHandler creates a new handler.
func NewUploadHandler(svc *service.UploadService, metrics *service.MetricsService) *UploadHandler {
	return &UploadHandler{service: svc, metrics: metrics}
}

// Upload godoc
// @Summary Upload file
// @Description Store a multipart file under the folder and return its public URL.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param folder path string true "Target folder"
// @Param file formData file true "File to upload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /uploads/{folder} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	filename := filepath.Base(fileHeader.Filename)
	res, err := h.service.Save(c.Param("folder"), filename, fileHeader.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordUpload()
	response.Created(c, res)
}

// List godoc
// @Summary List uploaded files
// @Description Files in a folder, newest first.
// @Tags Uploads
// @Produce json
// @Param folder path string true "Folder"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /uploads/{folder} [get]
func (h *UploadHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Param("folder"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Delete godoc
// @Summary Delete uploaded file
// @Tags Uploads
// @Produce json
// @Param folder path string true "Folder"
// @Param filename path string true "Filename"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /uploads/{folder}/{filename} [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("folder"), c.Param("filename")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
