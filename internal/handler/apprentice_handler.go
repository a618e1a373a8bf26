package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	"github.com/lbhackney-it/apprenticeships-api/internal/service"
	"github.com/lbhackney-it/apprenticeships-api/pkg/enums"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
	"github.com/lbhackney-it/apprenticeships-api/pkg/response"
)

// ApprenticeHandler exposes the apprentice endpoints.
type ApprenticeHandler struct {
	apprentices *service.ApprenticeService
	ingest      *service.IngestService
}

// NewApprenticeHandler constructs ApprenticeHandler.
func NewApprenticeHandler(apprentices *service.ApprenticeService, ingest *service.IngestService) *ApprenticeHandler {
	return &ApprenticeHandler{apprentices: apprentices, ingest: ingest}
}

// All godoc
// @Summary List all apprentices with their transactions
// @Tags Apprentices
// @Produce json
// @Success 200 {array} models.Apprentice
// @Router /Apprentices/all [get]
func (h *ApprenticeHandler) All(c *gin.Context) {
	apprentices, err := h.apprentices.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apprentices)
}

// Find godoc
// @Summary Find apprentices by filter
// @Tags Apprentices
// @Produce json
// @Param startDate query string false "Start date (ISO)"
// @Param status query string false "Status label"
// @Param directorate query string false "Directorate ordinal"
// @Param apprenticeProgram query string false "Programme ordinal"
// @Success 200 {array} models.Apprentice
// @Router /Apprentices/find [get]
func (h *ApprenticeHandler) Find(c *gin.Context) {
	var filter models.ApprenticeFilter
	if raw := strings.TrimSpace(c.Query("startDate")); raw != "" {
		parsed, err := parseQueryDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid startDate"))
			return
		}
		filter.StartDate = parsed
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = &status
	}
	filter.Directorate = parseEnumQuery(enums.Directorate, c.Query("directorate"))
	filter.Program = parseEnumQuery(enums.Program, c.Query("apprenticeProgram"))

	apprentices, err := h.apprentices.Find(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apprentices)
}

// Create godoc
// @Summary Create an apprentice
// @Tags Apprentices
// @Accept json
// @Produce json
// @Param payload body dto.ApprenticeCreateRequest true "Apprentice payload"
// @Success 201 {object} models.Apprentice
// @Router /Apprentices/create [post]
func (h *ApprenticeHandler) Create(c *gin.Context) {
	var req dto.ApprenticeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	apprentice, err := h.apprentices.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, apprentice)
}

// Upload godoc
// @Summary Bulk-create apprentices
// @Tags Apprentices
// @Accept json
// @Produce json
// @Param payload body []dto.ApprenticeCreateRequest true "Apprentice batch"
// @Success 201 {array} models.Apprentice
// @Router /Apprentices/upload [post]
func (h *ApprenticeHandler) Upload(c *gin.Context) {
	var reqs []dto.ApprenticeCreateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	apprentices, err := h.apprentices.Upload(c.Request.Context(), reqs, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, apprentices)
}

// Ingest godoc
// @Summary Ingest an apprentice CSV file
// @Tags Apprentices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.IngestResult
// @Router /Apprentices/ingest [post]
func (h *ApprenticeHandler) Ingest(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close()

	result, err := h.ingest.IngestApprentices(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Update godoc
// @Summary Update an apprentice
// @Tags Apprentices
// @Accept json
// @Produce json
// @Param payload body dto.ApprenticeUpdateRequest true "Apprentice snapshot"
// @Success 200 {object} models.Apprentice
// @Router /Apprentices [patch]
func (h *ApprenticeHandler) Update(c *gin.Context) {
	var req dto.ApprenticeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	apprentice, err := h.apprentices.Update(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apprentice)
}

// Delete godoc
// @Summary Delete an apprentice
// @Tags Apprentices
// @Produce json
// @Param id path string true "Apprentice ID"
// @Success 204
// @Router /Apprentices/{id} [delete]
func (h *ApprenticeHandler) Delete(c *gin.Context) {
	if err := h.apprentices.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// parseEnumQuery resolves a query value that writers send as a zero-based
// ordinal. Values that are not in-range ordinals pass through as literal
// labels, matching the lenient body decoding.
func parseEnumQuery(set enums.Set, raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ordinal, err := strconv.Atoi(raw); err == nil {
		if label, ok := set.Label(ordinal); ok {
			return &label
		}
	}
	return &raw
}

var queryDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

func parseQueryDate(raw string) (*time.Time, error) {
	var lastErr error
	for _, layout := range queryDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
