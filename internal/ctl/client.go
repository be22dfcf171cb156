// Package ctl is the HTTP client behind mjoyctl.
package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRequest is returned for transport failures and non-2xx replies.
var ErrRequest = errors.New("request failed")

// Views accepted by Show.
var Views = []string{"stats", "roster", "bindings", "feedback"}

// Client talks to the session daemon's operator API.
type Client struct {
	base   string
	client *http.Client
}

// New returns a Client for baseURL, e.g. http://localhost:5001.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Setup restarts binding.
func (c *Client) Setup(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/setup", nil)
}

// Start begins a game.
func (c *Client) Start(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/start", nil)
}

// Teams resizes the roster to n teams and enters team select.
func (c *Client) Teams(ctx context.Context, n int) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/teams", map[string]int{"teams": n})
}

// Show fetches one read-only view, pretty-printed.
func (c *Client) Show(ctx context.Context, view string) ([]byte, error) {
	known := false
	for _, v := range Views {
		known = known || v == view
	}
	if !known {
		return nil, fmt.Errorf("unknown view %q (want one of %s)", view, strings.Join(Views, ", "))
	}
	body, err := c.do(ctx, http.MethodGet, "/"+view, nil)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return body, nil
	}
	return out.Bytes(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRequest, path, err)
	}
	if resp.StatusCode/100 != 2 {
		return data, fmt.Errorf("%w: %s %s: %s: %s", ErrRequest, method, path, resp.Status, strings.TrimSpace(string(data)))
	}
	return data, nil
}
