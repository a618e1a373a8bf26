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

const analyticsCachePattern = "analytics:*"

type apprenticeRepository interface {
	All(ctx context.Context) ([]models.Apprentice, error)
	Find(ctx context.Context, filter models.ApprenticeFilter) ([]models.Apprentice, error)
	FindByID(ctx context.Context, id string) (*models.Apprentice, error)
	ExistsByULN(ctx context.Context, uln int64, excludeID string) (bool, error)
	Create(ctx context.Context, apprentice *models.Apprentice) error
	BulkCreate(ctx context.Context, apprentices []models.Apprentice) error
	Update(ctx context.Context, apprentice *models.Apprentice) error
	Delete(ctx context.Context, id string) error
}

// ApprenticeService handles apprentice use-cases.
type ApprenticeService struct {
	repo      apprenticeRepository
	audit     *AuditService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApprenticeService constructs the apprentice service.
func NewApprenticeService(repo apprenticeRepository, audit *AuditService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ApprenticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprenticeService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// All returns every apprentice with transactions attached.
func (s *ApprenticeService) All(ctx context.Context) ([]models.Apprentice, error) {
	apprentices, err := s.repo.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list apprentices")
	}
	if apprentices == nil {
		apprentices = []models.Apprentice{}
	}
	return apprentices, nil
}

// Find returns apprentices matching the filter.
func (s *ApprenticeService) Find(ctx context.Context, filter models.ApprenticeFilter) ([]models.Apprentice, error) {
	apprentices, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find apprentices")
	}
	if apprentices == nil {
		apprentices = []models.Apprentice{}
	}
	return apprentices, nil
}

// Create registers a new apprentice.
func (s *ApprenticeService) Create(ctx context.Context, req dto.ApprenticeCreateRequest, userID string) (*models.Apprentice, error) {
	apprentice, err := s.buildApprentice(&req)
	if err != nil {
		s.audit.Record(ctx, models.EventTypeValidationError, req.Name, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, err
	}

	if apprentice.ULN != nil {
		exists, err := s.repo.ExistsByULN(ctx, *apprentice.ULN, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate uln")
		}
		if exists {
			return nil, appErrors.ErrDuplicateULN
		}
	}

	if err := s.repo.Create(ctx, apprentice); err != nil {
		s.audit.Record(ctx, models.EventTypeApprenticeAdded, apprentice.Name, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		if errors.Is(err, appErrors.ErrDuplicateULN) {
			return nil, appErrors.ErrDuplicateULN
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create apprentice")
	}

	s.audit.Record(ctx, models.EventTypeApprenticeAdded, apprentice.ID, models.AuditStatusSuccess, map[string]interface{}{"name": apprentice.Name, "uln": apprentice.ULN}, userID)
	s.invalidateAnalytics(ctx)

	apprentice.Transactions = []models.Transaction{}
	return apprentice, nil
}

// Upload bulk-creates apprentices from an already decoded batch. Batch rows
// are validated more loosely than single creates: uploads come from spreadsheet
// exports where optional columns (ULN included) are routinely blank or
// unparseable, so only a missing status fails a row. Rows that fail abort the
// whole batch, reported by zero-based index.
func (s *ApprenticeService) Upload(ctx context.Context, reqs []dto.ApprenticeCreateRequest, userID string) ([]models.Apprentice, error) {
	apprentices := make([]models.Apprentice, 0, len(reqs))
	var rowErrors []string
	for i := range reqs {
		apprentice, err := s.buildUploadApprentice(&reqs[i])
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i, err))
			continue
		}
		apprentices = append(apprentices, *apprentice)
	}
	if len(rowErrors) > 0 {
		message := strings.Join(rowErrors, "; ")
		s.audit.Record(ctx, models.EventTypeValidationError, "apprentice upload", models.AuditStatusFailure, map[string]interface{}{"errors": rowErrors}, userID)
		return nil, appErrors.Clone(appErrors.ErrValidation, message)
	}

	if err := s.repo.BulkCreate(ctx, apprentices); err != nil {
		s.audit.Record(ctx, models.EventTypeApprenticeAdded, "apprentice upload", models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		if errors.Is(err, appErrors.ErrDuplicateULN) {
			return nil, appErrors.ErrDuplicateULN
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upload apprentices")
	}

	s.audit.Record(ctx, models.EventTypeApprenticeAdded, "apprentice upload", models.AuditStatusSuccess, map[string]int{"count": len(apprentices)}, userID)
	s.invalidateAnalytics(ctx)

	for i := range apprentices {
		apprentices[i].Transactions = []models.Transaction{}
	}
	return apprentices, nil
}

// Update replaces an apprentice snapshot. The stored createdAt always
// survives whatever the client sent.
func (s *ApprenticeService) Update(ctx context.Context, req dto.ApprenticeUpdateRequest, userID string) (*models.Apprentice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apprentice payload")
	}

	apprentice, err := s.buildApprentice(&req.ApprenticeCreateRequest)
	if err != nil {
		s.audit.Record(ctx, models.EventTypeValidationError, req.ID, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, err
	}
	apprentice.ID = req.ID

	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "apprentice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load apprentice")
	}

	if apprentice.ULN != nil {
		exists, err := s.repo.ExistsByULN(ctx, *apprentice.ULN, req.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate uln")
		}
		if exists {
			return nil, appErrors.ErrDuplicateULN
		}
	}

	if err := s.repo.Update(ctx, apprentice); err != nil {
		s.audit.Record(ctx, models.EventTypeApprenticeUpdated, req.ID, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		if errors.Is(err, appErrors.ErrDuplicateULN) {
			return nil, appErrors.ErrDuplicateULN
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update apprentice")
	}

	s.audit.Record(ctx, models.EventTypeApprenticeUpdated, req.ID, models.AuditStatusSuccess, map[string]interface{}{"name": apprentice.Name, "uln": apprentice.ULN}, userID)
	s.invalidateAnalytics(ctx)

	apprentice.CreatedAt = existing.CreatedAt
	apprentice.Transactions = existing.Transactions
	return apprentice, nil
}

// Delete removes an apprentice by ID.
func (s *ApprenticeService) Delete(ctx context.Context, id string, userID string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "apprentice not found")
		}
		s.audit.Record(ctx, models.EventTypeApprenticeDeleted, id, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete apprentice")
	}

	s.audit.Record(ctx, models.EventTypeApprenticeDeleted, id, models.AuditStatusSuccess, nil, userID)
	s.invalidateAnalytics(ctx)
	return nil
}

// buildApprentice validates and converts a create payload into the entity
// form.
func (s *ApprenticeService) buildApprentice(req *dto.ApprenticeCreateRequest) (*models.Apprentice, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apprentice payload")
	}
	if req.StartDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate is required")
	}

	apprentice, err := req.ToModel()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return apprentice, nil
}

// buildUploadApprentice converts a batch row into the entity form. Only the
// status is mandatory, matching what the legacy importer enforced.
func (s *ApprenticeService) buildUploadApprentice(req *dto.ApprenticeCreateRequest) (*models.Apprentice, error) {
	req.Name = strings.TrimSpace(req.Name)
	if strings.TrimSpace(req.Status) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status is required")
	}

	apprentice, err := req.ToModel()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return apprentice, nil
}

func (s *ApprenticeService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, analyticsCachePattern); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}
