package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

type mockTransactionRepo struct {
	transactions map[string]*models.Transaction
	bulkBatches  [][]models.Transaction
	createErr    error
}

func (m *mockTransactionRepo) All(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range m.transactions {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTransactionRepo) Find(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	return m.All(ctx)
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	if t, ok := m.transactions[id]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.transactions == nil {
		m.transactions = make(map[string]*models.Transaction)
	}
	transaction.ID = "generated-id"
	copy := *transaction
	m.transactions[transaction.ID] = &copy
	return nil
}

func (m *mockTransactionRepo) BulkCreate(ctx context.Context, transactions []models.Transaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.bulkBatches = append(m.bulkBatches, transactions)
	return nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, transaction *models.Transaction) error {
	if _, ok := m.transactions[transaction.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *transaction
	m.transactions[transaction.ID] = &copy
	return nil
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.transactions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.transactions, id)
	return nil
}

func validTransactionRequest() dto.TransactionCreateRequest {
	levy := 2500.0
	return dto.TransactionCreateRequest{
		Description:     "Levy declared",
		TransactionDate: dto.Date{Time: time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC)},
		TransactionType: "Levy",
		LevyDeclared:    &levy,
	}
}

func newTransactionService(repo *mockTransactionRepo, audit *mockAuditRepo) *TransactionService {
	return NewTransactionService(repo, NewAuditService(audit, zap.NewNop()), nil, validator.New(), zap.NewNop())
}

func TestTransactionServiceCreate(t *testing.T) {
	repo := &mockTransactionRepo{}
	audit := &mockAuditRepo{}
	svc := newTransactionService(repo, audit)

	transaction, err := svc.Create(context.Background(), validTransactionRequest(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "generated-id", transaction.ID)
	require.NotNil(t, transaction.LevyDeclared)
	assert.Equal(t, 2500.0, *transaction.LevyDeclared)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.EventTypeTransactionAdded, audit.entries[0].EventType)
}

func TestTransactionServiceCreateMissingDate(t *testing.T) {
	audit := &mockAuditRepo{}
	svc := newTransactionService(&mockTransactionRepo{}, audit)

	req := validTransactionRequest()
	req.TransactionDate = dto.Date{}
	_, err := svc.Create(context.Background(), req, "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.EventTypeValidationError, audit.entries[0].EventType)
}

func TestTransactionServiceCreateNullNumericsStayNull(t *testing.T) {
	svc := newTransactionService(&mockTransactionRepo{}, &mockAuditRepo{})

	req := validTransactionRequest()
	req.LevyDeclared = nil
	transaction, err := svc.Create(context.Background(), req, "user-1")
	require.NoError(t, err)
	assert.Nil(t, transaction.LevyDeclared)
	assert.Nil(t, transaction.Total)
}

func TestTransactionServiceUpload(t *testing.T) {
	repo := &mockTransactionRepo{}
	svc := newTransactionService(repo, &mockAuditRepo{})

	created, err := svc.Upload(context.Background(), []dto.TransactionCreateRequest{validTransactionRequest(), validTransactionRequest()}, "user-1")
	require.NoError(t, err)
	assert.Len(t, created, 2)
	require.Len(t, repo.bulkBatches, 1)
}

func TestTransactionServiceUploadReportsRowIndexes(t *testing.T) {
	repo := &mockTransactionRepo{}
	svc := newTransactionService(repo, &mockAuditRepo{})

	bad := validTransactionRequest()
	bad.Description = " "
	_, err := svc.Upload(context.Background(), []dto.TransactionCreateRequest{bad, validTransactionRequest()}, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
	assert.Empty(t, repo.bulkBatches)
}

func TestTransactionServiceUpdatePreservesCreatedAt(t *testing.T) {
	created := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	repo := &mockTransactionRepo{transactions: map[string]*models.Transaction{
		"transaction-1": {ID: "transaction-1", Description: "Old", CreatedAt: created},
	}}
	svc := newTransactionService(repo, &mockAuditRepo{})

	req := dto.TransactionUpdateRequest{ID: "transaction-1", TransactionCreateRequest: validTransactionRequest()}
	updated, err := svc.Update(context.Background(), req, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Levy declared", updated.Description)
	assert.Equal(t, created, updated.CreatedAt)
}

func TestTransactionServiceDeleteNotFound(t *testing.T) {
	svc := newTransactionService(&mockTransactionRepo{}, &mockAuditRepo{})

	err := svc.Delete(context.Background(), "missing", "user-1")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestTransactionServiceAllNeverNil(t *testing.T) {
	svc := newTransactionService(&mockTransactionRepo{}, &mockAuditRepo{})
	transactions, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, transactions)
}
