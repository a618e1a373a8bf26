package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
)

type mockAuditRepo struct {
	entries   []*models.AuditLog
	createErr error
	listItems []models.AuditLog
	listTotal int
	listErr   error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listItems, m.listTotal, nil
}

func TestAuditServiceRecord(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop())

	svc.Record(context.Background(), models.EventTypeApprenticeAdded, "apprentice-1", models.AuditStatusSuccess, map[string]string{"name": "Jordan"}, "user-1")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, models.EventTypeApprenticeAdded, entry.EventType)
	assert.Equal(t, "apprentice-1", entry.EventTypeTargetID)
	assert.Equal(t, models.AuditStatusSuccess, entry.Status)
	assert.JSONEq(t, `{"name":"Jordan"}`, string(entry.Details))
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "user-1", *entry.UserID)
}

func TestAuditServiceRecordAnonymous(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop())

	svc.Record(context.Background(), models.EventTypeDataIngestion, "upload.csv", models.AuditStatusFailure, nil, "")

	require.Len(t, repo.entries, 1)
	assert.Nil(t, repo.entries[0].UserID)
	assert.Nil(t, repo.entries[0].Details)
}

func TestAuditServiceRecordSwallowsWriteErrors(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	svc := NewAuditService(repo, zap.NewNop())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), models.EventTypeApprenticeDeleted, "x", models.AuditStatusFailure, nil, "user-1")
	})
}

func TestAuditServiceList(t *testing.T) {
	repo := &mockAuditRepo{
		listItems: []models.AuditLog{{ID: "1"}, {ID: "2"}},
		listTotal: 12,
	}
	svc := NewAuditService(repo, zap.NewNop())

	page, err := svc.List(context.Background(), models.AuditLogFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 12, page.Pagination.TotalCount)
}

func TestAuditServiceListDefaultsPagination(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop())

	page, err := svc.List(context.Background(), models.AuditLogFilter{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 20, page.Pagination.PageSize)
}
