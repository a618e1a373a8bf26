package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

type transactionRepository interface {
	All(ctx context.Context) ([]models.Transaction, error)
	Find(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	Create(ctx context.Context, transaction *models.Transaction) error
	BulkCreate(ctx context.Context, transactions []models.Transaction) error
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id string) error
}

// TransactionService handles levy transaction use-cases.
type TransactionService struct {
	repo      transactionRepository
	audit     *AuditService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTransactionService constructs the transaction service.
func NewTransactionService(repo transactionRepository, audit *AuditService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TransactionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// All returns every transaction enriched with apprentice context.
func (s *TransactionService) All(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.repo.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transactions")
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// Find returns transactions matching the filter.
func (s *TransactionService) Find(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	transactions, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find transactions")
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// Create records a new transaction.
func (s *TransactionService) Create(ctx context.Context, req dto.TransactionCreateRequest, userID string) (*models.Transaction, error) {
	transaction, err := s.buildTransaction(&req)
	if err != nil {
		s.audit.Record(ctx, models.EventTypeValidationError, req.Description, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, err
	}

	if err := s.repo.Create(ctx, transaction); err != nil {
		s.audit.Record(ctx, models.EventTypeTransactionAdded, transaction.Description, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create transaction")
	}

	s.audit.Record(ctx, models.EventTypeTransactionAdded, transaction.ID, models.AuditStatusSuccess, map[string]string{"description": transaction.Description}, userID)
	s.invalidateAnalytics(ctx)
	return transaction, nil
}

// Upload bulk-creates transactions from an already decoded batch.
func (s *TransactionService) Upload(ctx context.Context, reqs []dto.TransactionCreateRequest, userID string) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0, len(reqs))
	var rowErrors []string
	for i := range reqs {
		transaction, err := s.buildTransaction(&reqs[i])
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i, err))
			continue
		}
		transactions = append(transactions, *transaction)
	}
	if len(rowErrors) > 0 {
		message := strings.Join(rowErrors, "; ")
		s.audit.Record(ctx, models.EventTypeValidationError, "transaction upload", models.AuditStatusFailure, map[string]interface{}{"errors": rowErrors}, userID)
		return nil, appErrors.Clone(appErrors.ErrValidation, message)
	}

	if err := s.repo.BulkCreate(ctx, transactions); err != nil {
		s.audit.Record(ctx, models.EventTypeTransactionAdded, "transaction upload", models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upload transactions")
	}

	s.audit.Record(ctx, models.EventTypeTransactionAdded, "transaction upload", models.AuditStatusSuccess, map[string]int{"count": len(transactions)}, userID)
	s.invalidateAnalytics(ctx)
	return transactions, nil
}

// Update replaces a transaction snapshot. createdAt is preserved from the
// stored record.
func (s *TransactionService) Update(ctx context.Context, req dto.TransactionUpdateRequest, userID string) (*models.Transaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transaction payload")
	}

	transaction, err := s.buildTransaction(&req.TransactionCreateRequest)
	if err != nil {
		s.audit.Record(ctx, models.EventTypeValidationError, req.ID, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, err
	}
	transaction.ID = req.ID

	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "transaction not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transaction")
	}

	if err := s.repo.Update(ctx, transaction); err != nil {
		s.audit.Record(ctx, models.EventTypeTransactionUpdated, req.ID, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update transaction")
	}

	s.audit.Record(ctx, models.EventTypeTransactionUpdated, req.ID, models.AuditStatusSuccess, map[string]string{"description": transaction.Description}, userID)
	s.invalidateAnalytics(ctx)

	transaction.CreatedAt = existing.CreatedAt
	return transaction, nil
}

// Delete removes a transaction by ID.
func (s *TransactionService) Delete(ctx context.Context, id string, userID string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "transaction not found")
		}
		s.audit.Record(ctx, models.EventTypeTransactionDeleted, id, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete transaction")
	}

	s.audit.Record(ctx, models.EventTypeTransactionDeleted, id, models.AuditStatusSuccess, nil, userID)
	s.invalidateAnalytics(ctx)
	return nil
}

func (s *TransactionService) buildTransaction(req *dto.TransactionCreateRequest) (*models.Transaction, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.TransactionType = strings.TrimSpace(req.TransactionType)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transaction payload")
	}
	if req.TransactionDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "transactionDate is required")
	}

	transaction, err := req.ToModel()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return transaction, nil
}

func (s *TransactionService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, analyticsCachePattern); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}
