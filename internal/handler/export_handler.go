package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	"github.com/lbhackney-it/apprenticeships-api/internal/service"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
	"github.com/lbhackney-it/apprenticeships-api/pkg/response"
)

// ExportHandler exposes the async export endpoints.
type ExportHandler struct {
	exports *service.ExportJobService
	enabled bool
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportJobService, enabled bool) *ExportHandler {
	return &ExportHandler{exports: exports, enabled: enabled}
}

// Create godoc
// @Summary Queue an export job
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export parameters"
// @Success 202 {object} dto.ExportStatusResponse
// @Router /Exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	if !h.enabled {
		response.Error(c, appErrors.ErrExportsDisabled)
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	status, err := h.exports.CreateJob(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, status)
}

// Status godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.ExportStatusResponse
// @Router /Exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	if !h.enabled {
		response.Error(c, appErrors.ErrExportsDisabled)
		return
	}
	status, err := h.exports.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /Exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if !h.enabled {
		response.Error(c, appErrors.ErrExportsDisabled)
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.ErrInvalidDownload)
		return
	}
	download, err := h.exports.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	contentType := "text/csv"
	if download.Format == models.ExportFormatPDF {
		contentType = "application/pdf"
	}
	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, headers)
}
