package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
	"github.com/lbhackney-it/apprenticeships-api/internal/ingest"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

type apprenticeUploader interface {
	Upload(ctx context.Context, reqs []dto.ApprenticeCreateRequest, userID string) ([]models.Apprentice, error)
}

type transactionUploader interface {
	Upload(ctx context.Context, reqs []dto.TransactionCreateRequest, userID string) ([]models.Transaction, error)
}

// IngestService turns uploaded CSV files into bulk create batches and keeps
// the audit trail and ingestion metrics for each upload.
type IngestService struct {
	apprentices  apprenticeUploader
	transactions transactionUploader
	audit        *AuditService
	metrics      *MetricsService
	maxFileSize  int64
	logger       *zap.Logger
}

// NewIngestService constructs the ingest service. maxFileSize caps the
// accepted upload size in bytes.
func NewIngestService(apprentices apprenticeUploader, transactions transactionUploader, audit *AuditService, metrics *MetricsService, maxFileSize int64, logger *zap.Logger) *IngestService {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		apprentices:  apprentices,
		transactions: transactions,
		audit:        audit,
		metrics:      metrics,
		maxFileSize:  maxFileSize,
		logger:       logger,
	}
}

// IngestApprentices parses an apprentice CSV and bulk-creates the decoded
// rows. A single invalid row fails the whole batch.
func (s *IngestService) IngestApprentices(ctx context.Context, filename string, size int64, file io.Reader, userID string) (*dto.IngestResult, error) {
	doc, err := s.parse(ctx, filename, size, file, userID)
	if err != nil {
		return nil, err
	}

	reqs := ingest.Apprentices(doc.Rows)
	created, err := s.apprentices.Upload(ctx, reqs, userID)
	if err != nil {
		s.recordFailure(ctx, "apprentices", filename, len(reqs), err, userID)
		return nil, err
	}

	s.recordSuccess(ctx, "apprentices", filename, len(created), userID)
	return &dto.IngestResult{
		Filename:    filename,
		RecordCount: len(reqs),
		Inserted:    len(created),
	}, nil
}

// IngestTransactions parses a levy statement CSV and bulk-creates the
// decoded rows.
func (s *IngestService) IngestTransactions(ctx context.Context, filename string, size int64, file io.Reader, userID string) (*dto.IngestResult, error) {
	doc, err := s.parse(ctx, filename, size, file, userID)
	if err != nil {
		return nil, err
	}

	reqs := ingest.Transactions(doc.Rows)
	created, err := s.transactions.Upload(ctx, reqs, userID)
	if err != nil {
		s.recordFailure(ctx, "transactions", filename, len(reqs), err, userID)
		return nil, err
	}

	s.recordSuccess(ctx, "transactions", filename, len(created), userID)
	return &dto.IngestResult{
		Filename:    filename,
		RecordCount: len(reqs),
		Inserted:    len(created),
	}, nil
}

func (s *IngestService) parse(ctx context.Context, filename string, size int64, file io.Reader, userID string) (*ingest.Document, error) {
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".csv") {
		return nil, appErrors.ErrUnsupportedFile
	}
	if size > s.maxFileSize {
		return nil, appErrors.ErrPayloadTooLarge
	}

	doc, err := ingest.Parse(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		s.audit.Record(ctx, models.EventTypeDataIngestion, filename, models.AuditStatusFailure, map[string]string{"error": err.Error()}, userID)
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedCSV.Code, appErrors.ErrMalformedCSV.Status, appErrors.ErrMalformedCSV.Message)
	}
	return doc, nil
}

func (s *IngestService) recordSuccess(ctx context.Context, dataset, filename string, inserted int, userID string) {
	s.metrics.RecordIngestion(dataset, inserted, 0)
	s.audit.Record(ctx, models.EventTypeDataIngestion, filename, models.AuditStatusSuccess, models.IngestionDetails{
		Filename:    filename,
		RecordCount: inserted,
	}, userID)
	s.logger.Info("csv ingestion complete",
		zap.String("dataset", dataset),
		zap.String("filename", filename),
		zap.Int("rows", inserted))
}

func (s *IngestService) recordFailure(ctx context.Context, dataset, filename string, rows int, cause error, userID string) {
	s.metrics.RecordIngestion(dataset, 0, rows)
	s.audit.Record(ctx, models.EventTypeDataIngestion, filename, models.AuditStatusFailure, models.IngestionDetails{
		Filename:     filename,
		RecordCount:  rows,
		ErrorCount:   rows,
		ErrorSamples: []string{cause.Error()},
	}, userID)
}
