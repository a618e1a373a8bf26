package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	"github.com/lbhackney-it/apprenticeships-api/pkg/storage"
)

type apprenticeReaderStub struct {
	apprentices []models.Apprentice
}

func (s apprenticeReaderStub) All(ctx context.Context) ([]models.Apprentice, error) {
	return s.apprentices, nil
}

type transactionReaderStub struct {
	transactions []models.Transaction
}

func (s transactionReaderStub) All(ctx context.Context) ([]models.Transaction, error) {
	return s.transactions, nil
}

func newTestExportService(t *testing.T) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	directorate := "CEx"
	levy := 2500.0
	svc := NewExportService(
		apprenticeReaderStub{apprentices: []models.Apprentice{{
			Name:        "Jordan Okafor",
			ULN:         ulnOf(1234567890),
			Status:      "Live",
			StartDate:   time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC),
			Directorate: &directorate,
		}}},
		transactionReaderStub{transactions: []models.Transaction{{
			Description:     "Levy declared",
			TransactionDate: time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC),
			TransactionType: "Levy",
			LevyDeclared:    &levy,
		}}},
		files, signer, ExportConfig{ResultTTL: time.Hour}, zap.NewNop(), nil, nil,
	)
	return svc, dir
}

func TestGenerateApprenticeCSV(t *testing.T) {
	svc, dir := newTestExportService(t)

	job := &models.ExportJob{
		ID:     "job-1",
		Params: models.ExportJobParams{Dataset: models.ExportDatasetApprentices, Format: models.ExportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, models.ExportFormatCSV, result.Format)
	assert.Contains(t, result.URL, "/Exports/download?token=")
	assert.NotEmpty(t, result.Token)

	data, err := os.ReadFile(filepath.Join(dir, result.RelativePath))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Name")
	assert.Contains(t, content, "Jordan Okafor")
	assert.Contains(t, content, "CEx")
}

func TestGenerateTransactionPDF(t *testing.T) {
	svc, dir := newTestExportService(t)

	job := &models.ExportJob{
		ID:     "job-2",
		Params: models.ExportJobParams{Dataset: models.ExportDatasetTransactions, Format: models.ExportFormatPDF},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, models.ExportFormatPDF, result.Format)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".pdf"))

	info, err := os.Stat(filepath.Join(dir, result.RelativePath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateUnsupportedDataset(t *testing.T) {
	svc, _ := newTestExportService(t)

	job := &models.ExportJob{
		ID:     "job-3",
		Params: models.ExportJobParams{Dataset: "payroll", Format: models.ExportFormatCSV},
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset")
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newTestExportService(t)

	job := &models.ExportJob{
		ID:     "job-4",
		Params: models.ExportJobParams{Dataset: models.ExportDatasetApprentices, Format: models.ExportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	jobID, relPath, expiresAt, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-4", jobID)
	assert.Equal(t, result.RelativePath, relPath)
	assert.True(t, expiresAt.After(time.Now()))

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func TestCleanupRemovesExpiredFiles(t *testing.T) {
	svc, dir := newTestExportService(t)

	job := &models.ExportJob{
		ID:     "job-5",
		Params: models.ExportJobParams{Dataset: models.ExportDatasetApprentices, Format: models.ExportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	removed, err := svc.Cleanup(time.Nanosecond)
	require.NoError(t, err)
	assert.Contains(t, removed, result.RelativePath)

	_, err = os.Stat(filepath.Join(dir, result.RelativePath))
	assert.True(t, os.IsNotExist(err))
}
