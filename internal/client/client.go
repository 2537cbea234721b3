// Package client implements the sync-layer backend interfaces over the JSON
// API and the websocket channel. It is also where identifiers are normalized:
// the server speaks int64 ids, everything above this package speaks canonical
// decimal strings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/andywinn76/todo-app/internal/apperr"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the given server using a session token obtained
// from Login or Register.
func New(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Token returns the session token, for the websocket dial.
func (c *Client) Token() string { return c.token }

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// wireError is the server's JSON error envelope.
type wireError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do issues one request and decodes the response into out (which may be
// nil). Transport failures map to Unavailable; HTTP error statuses map back
// to their apperr kinds, carrying the server's message and code.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var we wireError
		if err := json.NewDecoder(resp.Body).Decode(&we); err != nil || we.Error == "" {
			we.Error = fmt.Sprintf("server returned %d", resp.StatusCode)
		}
		return apperr.NewCode(apperr.FromStatus(resp.StatusCode), we.Code, we.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// formatID renders a server id in the canonical string form used above the
// transport boundary.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseID parses a canonical id back to the server's form. Temporary ids
// never reach the server, so any non-numeric id here is a caller bug.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return n, nil
}
