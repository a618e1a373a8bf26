package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error)
}

// AuditService records and serves the audit trail.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record writes an audit entry. Failures are logged but never surfaced: an
// audit write must not fail the operation it describes.
func (s *AuditService) Record(ctx context.Context, eventType models.EventType, targetID string, status models.AuditLogStatus, details interface{}, userID string) {
	if s == nil || s.repo == nil {
		return
	}

	var payload json.RawMessage
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("audit details marshal failed", zap.String("event_type", string(eventType)), zap.Error(err))
		} else {
			payload = data
		}
	}

	entry := &models.AuditLog{
		EventType:         eventType,
		EventTypeTargetID: targetID,
		Status:            status,
		Details:           payload,
	}
	if userID != "" {
		entry.UserID = &userID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("event_type", string(eventType)),
			zap.String("target_id", targetID),
			zap.Error(err))
	}
}

// List returns audit entries matching the filter with pagination metadata.
func (s *AuditService) List(ctx context.Context, filter models.AuditLogFilter) (*models.AuditLogPage, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return &models.AuditLogPage{
		Items:      entries,
		Pagination: &models.Pagination{Page: page, PageSize: size, TotalCount: total},
	}, nil
}
