package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func TestCreateApprenticeEncodesOrdinals(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/Apprentices/create", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusCreated)
		w.Write(body)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateApprentice(context.Background(), Apprentice{
		Name:        "Jordan Okafor",
		StartDate:   time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC),
		Status:      "Live",
		ULN:         int64Ptr(1234567890),
		Directorate: strPtr("CEx"),
		Program:     strPtr("CDQ"),
		Gender:      strPtr("Non-Binary"),
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1), captured["directorate"])
	assert.Equal(t, float64(0), captured["apprenticeProgram"])
	assert.Equal(t, float64(3), captured["apprenticeGender"])
	assert.Equal(t, "Live", captured["status"])
	assert.Nil(t, captured["apprenticeEthnicity"])
}

func TestCreateApprenticeUnknownLabelPassesThrough(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateApprentice(context.Background(), Apprentice{
		Name:        "Jordan Okafor",
		StartDate:   time.Now(),
		Status:      "Live",
		ULN:         int64Ptr(1),
		Directorate: strPtr("Parks Department"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Parks Department", captured["directorate"])
}

func TestAllApprenticesDecodesOrdinalResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Jordan Okafor","startDate":"2023-09-01T00:00:00Z","status":"Live","uln":1,"directorate":1,"apprenticeProgram":"CDQ"}]`))
	}))
	defer server.Close()

	c := New(server.URL)
	apprentices, err := c.AllApprentices(context.Background())
	require.NoError(t, err)
	require.Len(t, apprentices, 1)
	require.NotNil(t, apprentices[0].Directorate)
	assert.Equal(t, "CEx", *apprentices[0].Directorate)
	require.NotNil(t, apprentices[0].Program)
	assert.Equal(t, "CDQ", *apprentices[0].Program)
}

func TestFindApprenticesQueryEncoding(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL)
	start := time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)
	_, err := c.FindApprentices(context.Background(), ApprenticeQuery{
		StartDate:   &start,
		Status:      strPtr("Live"),
		Directorate: strPtr("F & R"),
		Program:     strPtr("School CDQ"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-09-01T00:00:00Z"}, query["startDate"])
	assert.Equal(t, []string{"Live"}, query["status"])
	assert.Equal(t, []string{"5"}, query["directorate"])
	assert.Equal(t, []string{"2"}, query["apprenticeProgram"])
}

func TestFindApprenticesOmitsUnsetFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.FindApprentices(context.Background(), ApprenticeQuery{})
	require.NoError(t, err)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"DUPLICATE_ULN","message":"uln already registered","status":409}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateApprentice(context.Background(), Apprentice{Name: "x", Status: "Live", ULN: int64Ptr(1), StartDate: time.Now()})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "DUPLICATE_ULN")
}

func TestEmpty2xxBodyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL)
	assert.NoError(t, c.DeleteApprentice(context.Background(), "apprentice-1"))
}

func TestCreateTransactionNullNumericsStayNull(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	levy := 2500.0
	c := New(server.URL)
	_, err := c.CreateTransaction(context.Background(), Transaction{
		Description:     "Levy declared",
		TransactionDate: time.Now(),
		TransactionType: "Levy",
		LevyDeclared:    &levy,
	})
	require.NoError(t, err)

	assert.Equal(t, 2500.0, captured["levyDeclared"])
	value, present := captured["total"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestAllTransactionsDecodesEnrichment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"description":"Levy","transactionDate":"2024-04-03T00:00:00Z","transactionType":"Levy","apprenticeDirectorate":0,"apprenticeStatus":"Live"}]`))
	}))
	defer server.Close()

	c := New(server.URL)
	transactions, err := c.AllTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.NotNil(t, transactions[0].ApprenticeDirectorate)
	assert.Equal(t, "AHI", *transactions[0].ApprenticeDirectorate)
	require.NotNil(t, transactions[0].ApprenticeStatus)
	assert.Equal(t, "Live", *transactions[0].ApprenticeStatus)
}

func TestClientSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, WithToken("session-token"))
	_, err := c.AllApprentices(context.Background())
	require.NoError(t, err)
}
