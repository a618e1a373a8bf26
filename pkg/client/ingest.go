package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// IngestResult summarises a CSV bulk upload as reported by the API.
type IngestResult struct {
	Filename    string   `json:"filename"`
	RecordCount int      `json:"recordCount"`
	Inserted    int      `json:"inserted"`
	ErrorCount  int      `json:"errorCount"`
	Errors      []string `json:"errors,omitempty"`
}

// IngestApprentices streams a CSV file to the apprentice ingest endpoint.
func (c *Client) IngestApprentices(ctx context.Context, filename string, file io.Reader) (*IngestResult, error) {
	return c.ingest(ctx, "/Apprentices/ingest", filename, file)
}

// IngestTransactions streams a CSV file to the transaction ingest endpoint.
func (c *Client) IngestTransactions(ctx context.Context, filename string, file io.Reader) (*IngestResult, error) {
	return c.ingest(ctx, "/Transactions/ingest", filename, file)
}

func (c *Client) ingest(ctx context.Context, path, filename string, file io.Reader) (*IngestResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalise multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var result IngestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
