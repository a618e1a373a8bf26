package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	"github.com/lbhackney-it/apprenticeships-api/pkg/export"
	"github.com/lbhackney-it/apprenticeships-api/pkg/storage"
)

type apprenticeReader interface {
	All(ctx context.Context) ([]models.Apprentice, error)
}

type transactionReader interface {
	All(ctx context.Context) ([]models.Transaction, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders apprentice and transaction datasets to files.
type ExportService struct {
	apprentices  apprenticeReader
	transactions transactionReader
	storage      fileStorage
	csv          csvRenderer
	pdf          pdfRenderer
	signer       *storage.SignedURLSigner
	logger       *zap.Logger
	cfg          ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(apprentices apprenticeReader, transactions transactionReader, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		apprentices:  apprentices,
		transactions: transactions,
		storage:      storage,
		csv:          csv,
		pdf:          pdf,
		signer:       signer,
		logger:       logger,
		cfg:          cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	signedURL := fmt.Sprintf("%s/Exports/download?token=%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", job.Params.Dataset, timestamp, job.Params.Format)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Params.Dataset {
	case models.ExportDatasetApprentices:
		return s.buildApprenticeDataset(ctx)
	case models.ExportDatasetTransactions:
		return s.buildTransactionDataset(ctx)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported dataset %s", job.Params.Dataset)
	}
}

func (s *ExportService) buildApprenticeDataset(ctx context.Context) (export.Dataset, string, error) {
	apprentices, err := s.apprentices.All(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(apprentices))
	for _, a := range apprentices {
		rows = append(rows, map[string]string{
			"Name":              a.Name,
			"ULN":               formatOptionalInt(a.ULN),
			"Status":            a.Status,
			"Directorate":       derefString(a.Directorate),
			"Programme":         derefString(a.Program),
			"Start Date":        a.StartDate.Format("2006-01-02"),
			"End Date":          formatOptionalDate(a.EndDate),
			"Training Provider": derefString(a.TrainingProvider),
			"Training Course":   derefString(a.TrainingCourse),
			"Agreed Price":      fmt.Sprintf("%.2f", a.TotalAgreedApprenticeshipPrice),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Name", "ULN", "Status", "Directorate", "Programme", "Start Date", "End Date", "Training Provider", "Training Course", "Agreed Price"},
		Rows:    rows,
	}
	return dataset, "Apprentices", nil
}

func (s *ExportService) buildTransactionDataset(ctx context.Context) (export.Dataset, string, error) {
	transactions, err := s.transactions.All(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, map[string]string{
			"Description":             t.Description,
			"Transaction Date":        t.TransactionDate.Format("2006-01-02"),
			"Type":                    t.TransactionType,
			"Apprentice":              derefString(t.ApprenticeName),
			"ULN":                     formatOptionalInt(t.ULN),
			"Payroll Month":           formatOptionalDate(t.PayrollMonth),
			"Levy Declared":           formatOptionalMoney(t.LevyDeclared),
			"Paid From Levy":          formatOptionalMoney(t.PaidFromLevy),
			"Government Contribution": formatOptionalMoney(t.GovernmentContribution),
			"10% Top Up":              formatOptionalMoney(t.TenPercentageTopUp),
			"Total":                   formatOptionalMoney(t.Total),
			"Training Provider":       derefString(t.TrainingProvider),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Description", "Transaction Date", "Type", "Apprentice", "ULN", "Payroll Month", "Levy Declared", "Paid From Levy", "Government Contribution", "10% Top Up", "Total", "Training Provider"},
		Rows:    rows,
	}
	return dataset, "Levy Transactions", nil
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatOptionalMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatOptionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
