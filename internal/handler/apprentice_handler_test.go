package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/middleware"
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	"github.com/lbhackney-it/apprenticeships-api/internal/service"
)

type apprenticeRepoStub struct {
	apprentices []models.Apprentice
	lastFilter  models.ApprenticeFilter
	ulnTaken    bool
}

func (s *apprenticeRepoStub) All(ctx context.Context) ([]models.Apprentice, error) {
	return s.apprentices, nil
}

func (s *apprenticeRepoStub) Find(ctx context.Context, filter models.ApprenticeFilter) ([]models.Apprentice, error) {
	s.lastFilter = filter
	return s.apprentices, nil
}

func (s *apprenticeRepoStub) FindByID(ctx context.Context, id string) (*models.Apprentice, error) {
	for i := range s.apprentices {
		if s.apprentices[i].ID == id {
			return &s.apprentices[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *apprenticeRepoStub) ExistsByULN(ctx context.Context, uln int64, excludeID string) (bool, error) {
	return s.ulnTaken, nil
}

func (s *apprenticeRepoStub) Create(ctx context.Context, apprentice *models.Apprentice) error {
	apprentice.ID = "apprentice-1"
	s.apprentices = append(s.apprentices, *apprentice)
	return nil
}

func (s *apprenticeRepoStub) BulkCreate(ctx context.Context, apprentices []models.Apprentice) error {
	s.apprentices = append(s.apprentices, apprentices...)
	return nil
}

func (s *apprenticeRepoStub) Update(ctx context.Context, apprentice *models.Apprentice) error {
	for i := range s.apprentices {
		if s.apprentices[i].ID == apprentice.ID {
			s.apprentices[i] = *apprentice
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *apprenticeRepoStub) Delete(ctx context.Context, id string) error {
	for i := range s.apprentices {
		if s.apprentices[i].ID == id {
			s.apprentices = append(s.apprentices[:i], s.apprentices[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type auditRepoStub struct {
	entries []*models.AuditLog
}

func (s *auditRepoStub) Create(ctx context.Context, entry *models.AuditLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *auditRepoStub) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	items := make([]models.AuditLog, 0, len(s.entries))
	for _, e := range s.entries {
		items = append(items, *e)
	}
	return items, len(items), nil
}

func newApprenticeTestHandler(repo *apprenticeRepoStub) *ApprenticeHandler {
	audit := service.NewAuditService(&auditRepoStub{}, zap.NewNop())
	apprentices := service.NewApprenticeService(repo, audit, nil, validator.New(), zap.NewNop())
	ingest := service.NewIngestService(apprentices, nil, audit, nil, 1<<20, zap.NewNop())
	return NewApprenticeHandler(apprentices, ingest)
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.SessionClaims{UserID: "user-1"})
	return c, w
}

func TestApprenticeHandlerAll(t *testing.T) {
	repo := &apprenticeRepoStub{apprentices: []models.Apprentice{{ID: "apprentice-1", Name: "Jordan Okafor"}}}
	handler := newApprenticeTestHandler(repo)

	c, w := testContext(t, http.MethodGet, "/Apprentices/all", nil)
	handler.All(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Apprentice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Jordan Okafor", got[0].Name)
}

func TestApprenticeHandlerFindResolvesOrdinals(t *testing.T) {
	repo := &apprenticeRepoStub{}
	handler := newApprenticeTestHandler(repo)

	c, w := testContext(t, http.MethodGet, "/Apprentices/find?directorate=1&apprenticeProgram=0&status=Live&startDate=2023-09-01", nil)
	handler.Find(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.lastFilter.Directorate)
	assert.Equal(t, "CEx", *repo.lastFilter.Directorate)
	require.NotNil(t, repo.lastFilter.Program)
	assert.Equal(t, "CDQ", *repo.lastFilter.Program)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, "Live", *repo.lastFilter.Status)
	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Equal(t, time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC), *repo.lastFilter.StartDate)
}

func TestApprenticeHandlerFindRejectsBadDate(t *testing.T) {
	handler := newApprenticeTestHandler(&apprenticeRepoStub{})

	c, w := testContext(t, http.MethodGet, "/Apprentices/find?startDate=tomorrow", nil)
	handler.Find(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprenticeHandlerCreateAcceptsOrdinals(t *testing.T) {
	repo := &apprenticeRepoStub{}
	handler := newApprenticeTestHandler(repo)

	payload := []byte(`{"name":"Jordan Okafor","startDate":"2023-09-01","status":"Live","uln":1234567890,"directorate":1,"apprenticeProgram":0}`)
	c, w := testContext(t, http.MethodPost, "/Apprentices/create", payload)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var got models.Apprentice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Directorate)
	assert.Equal(t, "CEx", *got.Directorate)
	require.NotNil(t, got.Program)
	assert.Equal(t, "CDQ", *got.Program)
	assert.NotNil(t, got.Transactions)
}

func TestApprenticeHandlerCreateDuplicateULN(t *testing.T) {
	repo := &apprenticeRepoStub{ulnTaken: true}
	handler := newApprenticeTestHandler(repo)

	payload := []byte(`{"name":"Jordan Okafor","startDate":"2023-09-01","status":"Live","uln":1234567890}`)
	c, w := testContext(t, http.MethodPost, "/Apprentices/create", payload)
	handler.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DUPLICATE_ULN", body["code"])
}

func TestApprenticeHandlerCreateInvalidBody(t *testing.T) {
	handler := newApprenticeTestHandler(&apprenticeRepoStub{})

	c, w := testContext(t, http.MethodPost, "/Apprentices/create", []byte(`{"name":`))
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprenticeHandlerUploadReportsRowErrors(t *testing.T) {
	handler := newApprenticeTestHandler(&apprenticeRepoStub{})

	payload := []byte(`[{"name":"Jordan","startDate":"2023-09-01","status":"Live","uln":1},{"name":"Sam","startDate":"2023-09-01","uln":2}]`)
	c, w := testContext(t, http.MethodPost, "/Apprentices/upload", payload)
	handler.Upload(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "row 1")
}

func TestApprenticeHandlerDelete(t *testing.T) {
	repo := &apprenticeRepoStub{apprentices: []models.Apprentice{{ID: "apprentice-1"}}}
	handler := newApprenticeTestHandler(repo)

	c, w := testContext(t, http.MethodDelete, "/Apprentices/apprentice-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "apprentice-1"}}
	handler.Delete(c)
	// The handler is invoked outside gin's engine, so flush the status
	// written via c.Status to the recorder.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.apprentices)
}

func TestApprenticeHandlerIngestRejectsNonCSV(t *testing.T) {
	handler := newApprenticeTestHandler(&apprenticeRepoStub{})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "apprentices.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a csv"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/Apprentices/ingest", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.SessionClaims{UserID: "user-1"})

	handler.Ingest(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprenticeHandlerIngestCSV(t *testing.T) {
	repo := &apprenticeRepoStub{}
	handler := newApprenticeTestHandler(repo)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "apprentices.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Apprentice name,Planned start date,Status,ULN\nJordan Okafor,01/09/2023,Live,1234567890\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/Apprentices/ingest", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.SessionClaims{UserID: "user-1"})

	handler.Ingest(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.apprentices, 1)
	assert.Equal(t, "Jordan Okafor", repo.apprentices[0].Name)
}
