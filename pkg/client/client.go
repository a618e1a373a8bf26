// Package client is a Go client for the apprenticeships API. It speaks the
// same wire dialect as the original browser application: enum fields are
// encoded as zero-based ordinals exactly once at marshal time, status and
// transactionType stay literal strings, and query filters carry ordinals for
// directorate and programme.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lbhackney-it/apprenticeships-api/pkg/enums"
)

// APIError carries a non-2xx response: the status code and the raw body,
// undecoded. The caller decides what to make of it; the client never
// retries.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d, body: %s", e.StatusCode, e.Body)
}

// Client talks to the apprenticeships API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client. Timeouts and transport
// policy are the caller's business.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New constructs a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one request. A non-2xx status becomes an *APIError; an empty
// 2xx body is success with out left untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// encodeEnum produces the wire form of an enum label: its ordinal when the
// label belongs to the set, the label itself when it does not (unknown
// values pass through unchanged), and nil when unset.
func encodeEnum(set enums.Set, label *string) interface{} {
	if label == nil {
		return nil
	}
	if ordinal, ok := set.Index(*label); ok {
		return ordinal
	}
	return *label
}

// decodeEnum reads the wire form back: ordinals map onto labels (out of
// range is an error), literal strings pass through, null stays nil.
func decodeEnum(set enums.Set, raw json.RawMessage) (*string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return &s, nil
	}
	var ordinal int
	if err := json.Unmarshal(trimmed, &ordinal); err != nil {
		return nil, fmt.Errorf("%s: invalid enum value %s", set.Name(), trimmed)
	}
	label, ok := set.Label(ordinal)
	if !ok {
		return nil, fmt.Errorf("%s: ordinal %d out of range", set.Name(), ordinal)
	}
	return &label, nil
}

// queryEnum renders a filter label as the ordinal string the API expects;
// labels outside the set go through as-is.
func queryEnum(set enums.Set, label *string) string {
	if label == nil {
		return ""
	}
	if ordinal, ok := set.Index(*label); ok {
		return fmt.Sprintf("%d", ordinal)
	}
	return *label
}
