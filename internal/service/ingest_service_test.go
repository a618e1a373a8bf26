package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

type mockApprenticeUploader struct {
	received []dto.ApprenticeCreateRequest
	err      error
}

func (m *mockApprenticeUploader) Upload(ctx context.Context, reqs []dto.ApprenticeCreateRequest, userID string) ([]models.Apprentice, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.received = reqs
	created := make([]models.Apprentice, len(reqs))
	return created, nil
}

type mockTransactionUploader struct {
	received []dto.TransactionCreateRequest
}

func (m *mockTransactionUploader) Upload(ctx context.Context, reqs []dto.TransactionCreateRequest, userID string) ([]models.Transaction, error) {
	m.received = reqs
	return make([]models.Transaction, len(reqs)), nil
}

func newIngestService(apprentices *mockApprenticeUploader, transactions *mockTransactionUploader, audit *mockAuditRepo) *IngestService {
	return NewIngestService(apprentices, transactions, NewAuditService(audit, zap.NewNop()), nil, 1024, zap.NewNop())
}

func TestIngestServiceApprentices(t *testing.T) {
	uploader := &mockApprenticeUploader{}
	audit := &mockAuditRepo{}
	svc := newIngestService(uploader, &mockTransactionUploader{}, audit)

	csv := "Apprentice name,Planned start date,Status,ULN\nJordan Okafor,01/09/2023,Live,1234567890\n"
	result, err := svc.IngestApprentices(context.Background(), "apprentices.csv", int64(len(csv)), strings.NewReader(csv), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordCount)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, uploader.received, 1)
	assert.Equal(t, "Jordan Okafor", uploader.received[0].Name)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.EventTypeDataIngestion, audit.entries[0].EventType)
	assert.Equal(t, models.AuditStatusSuccess, audit.entries[0].Status)
}

func TestIngestServiceApprenticesToleratesUnparseableULN(t *testing.T) {
	repo := &mockApprenticeRepo{}
	audit := &mockAuditRepo{}
	apprentices := newApprenticeService(repo, audit)
	svc := NewIngestService(apprentices, &mockTransactionUploader{}, NewAuditService(audit, zap.NewNop()), nil, 1024, zap.NewNop())

	// A garbled ULN cell maps to null instead of failing the batch.
	csv := "Apprentice name,Planned start date,Status,ULN\n" +
		"Jordan Okafor,01/09/2023,Live,1234567890\n" +
		"Sam Reid,01/09/2023,Live,not-a-number\n"
	result, err := svc.IngestApprentices(context.Background(), "apprentices.csv", int64(len(csv)), strings.NewReader(csv), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	require.Len(t, repo.bulkBatches, 1)
	require.Len(t, repo.bulkBatches[0], 2)
	require.NotNil(t, repo.bulkBatches[0][0].ULN)
	assert.Equal(t, int64(1234567890), *repo.bulkBatches[0][0].ULN)
	assert.Nil(t, repo.bulkBatches[0][1].ULN)
}

func TestIngestServiceTransactions(t *testing.T) {
	uploader := &mockTransactionUploader{}
	svc := newIngestService(&mockApprenticeUploader{}, uploader, &mockAuditRepo{})

	csv := "Description,Transaction date,Transaction type\nLevy declared,03/04/2024,Levy\n"
	result, err := svc.IngestTransactions(context.Background(), "levy.csv", int64(len(csv)), strings.NewReader(csv), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, uploader.received, 1)
	assert.Equal(t, "Levy", uploader.received[0].TransactionType)
}

func TestIngestServiceRejectsNonCSV(t *testing.T) {
	svc := newIngestService(&mockApprenticeUploader{}, &mockTransactionUploader{}, &mockAuditRepo{})

	_, err := svc.IngestApprentices(context.Background(), "apprentices.xlsx", 10, strings.NewReader("x"), "user-1")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestIngestServiceRejectsOversizedFile(t *testing.T) {
	svc := newIngestService(&mockApprenticeUploader{}, &mockTransactionUploader{}, &mockAuditRepo{})

	_, err := svc.IngestApprentices(context.Background(), "apprentices.csv", 2048, strings.NewReader("x"), "user-1")
	require.Error(t, err)
	assert.Equal(t, 413, appErrors.FromError(err).Status)
}

func TestIngestServiceRejectsMalformedCSV(t *testing.T) {
	audit := &mockAuditRepo{}
	svc := newIngestService(&mockApprenticeUploader{}, &mockTransactionUploader{}, audit)

	csv := "Description,Total\n\"broken,1\n"
	_, err := svc.IngestTransactions(context.Background(), "levy.csv", int64(len(csv)), strings.NewReader(csv), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedCSV.Code, appErrors.FromError(err).Code)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditStatusFailure, audit.entries[0].Status)
}

func TestIngestServiceUploadFailureAudited(t *testing.T) {
	uploader := &mockApprenticeUploader{err: appErrors.Clone(appErrors.ErrValidation, "row 0: status required")}
	audit := &mockAuditRepo{}
	svc := newIngestService(uploader, &mockTransactionUploader{}, audit)

	csv := "Apprentice name,Planned start date,Status,ULN\nJordan Okafor,01/09/2023,,1234567890\n"
	_, err := svc.IngestApprentices(context.Background(), "apprentices.csv", int64(len(csv)), strings.NewReader(csv), "user-1")
	require.Error(t, err)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.EventTypeDataIngestion, audit.entries[0].EventType)
	assert.Equal(t, models.AuditStatusFailure, audit.entries[0].Status)
}
