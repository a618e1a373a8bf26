package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	"github.com/lbhackney-it/apprenticeships-api/internal/service"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
	"github.com/lbhackney-it/apprenticeships-api/pkg/response"
)

// TransactionHandler exposes the levy transaction endpoints.
type TransactionHandler struct {
	transactions *service.TransactionService
	ingest       *service.IngestService
}

// NewTransactionHandler constructs TransactionHandler.
func NewTransactionHandler(transactions *service.TransactionService, ingest *service.IngestService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, ingest: ingest}
}

// All godoc
// @Summary List all transactions with apprentice context
// @Tags Transactions
// @Produce json
// @Success 200 {array} models.Transaction
// @Router /Transactions/all [get]
func (h *TransactionHandler) All(c *gin.Context) {
	transactions, err := h.transactions.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transactions)
}

// Find godoc
// @Summary Find transactions by filter
// @Tags Transactions
// @Produce json
// @Param fromDate query string false "Earliest transaction date (ISO)"
// @Param toDate query string false "Latest transaction date (ISO)"
// @Param description query string false "Description substring"
// @Success 200 {array} models.Transaction
// @Router /Transactions/find [get]
func (h *TransactionHandler) Find(c *gin.Context) {
	var filter models.TransactionFilter
	if raw := strings.TrimSpace(c.Query("fromDate")); raw != "" {
		parsed, err := parseQueryDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid fromDate"))
			return
		}
		filter.FromDate = parsed
	}
	if raw := strings.TrimSpace(c.Query("toDate")); raw != "" {
		parsed, err := parseQueryDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid toDate"))
			return
		}
		filter.ToDate = parsed
	}
	if description := strings.TrimSpace(c.Query("description")); description != "" {
		filter.Description = &description
	}

	transactions, err := h.transactions.Find(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transactions)
}

// Create godoc
// @Summary Create a transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param payload body dto.TransactionCreateRequest true "Transaction payload"
// @Success 201 {object} models.Transaction
// @Router /Transactions/create [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.TransactionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	transaction, err := h.transactions.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, transaction)
}

// Upload godoc
// @Summary Bulk-create transactions
// @Tags Transactions
// @Accept json
// @Produce json
// @Param payload body []dto.TransactionCreateRequest true "Transaction batch"
// @Success 201 {array} models.Transaction
// @Router /Transactions/upload [post]
func (h *TransactionHandler) Upload(c *gin.Context) {
	var reqs []dto.TransactionCreateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	transactions, err := h.transactions.Upload(c.Request.Context(), reqs, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, transactions)
}

// Ingest godoc
// @Summary Ingest a levy statement CSV file
// @Tags Transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.IngestResult
// @Router /Transactions/ingest [post]
func (h *TransactionHandler) Ingest(c *gin.Context) {
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

	result, err := h.ingest.IngestTransactions(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Update godoc
// @Summary Update a transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param payload body dto.TransactionUpdateRequest true "Transaction snapshot"
// @Success 200 {object} models.Transaction
// @Router /Transactions [patch]
func (h *TransactionHandler) Update(c *gin.Context) {
	var req dto.TransactionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	transaction, err := h.transactions.Update(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transaction)
}

// Delete godoc
// @Summary Delete a transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 204
// @Router /Transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.transactions.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
