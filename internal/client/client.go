// Package client talks to the task API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/metalagman/taskdeck/internal/task"
)

// Client is a task API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// List fetches the tasks matching q.
func (c *Client) List(ctx context.Context, q task.Query) ([]task.Task, error) {
	params := url.Values{}
	if q.Status != "" && q.Status != task.All {
		params.Set("status", q.Status)
	}
	if q.Priority != "" && q.Priority != task.All {
		params.Set("priority", q.Priority)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}
	path := "/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out []task.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if out == nil {
		out = []task.Task{}
	}
	return out, nil
}

// Get fetches a task by id.
func (c *Client) Get(ctx context.Context, id string) (task.Task, error) {
	var out task.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &out); err != nil {
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return out, nil
}

// Create posts a new task.
func (c *Client) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	var out task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", d, &out); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	return out, nil
}

// Update sends a partial update.
func (c *Client) Update(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	var out task.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), p, &out); err != nil {
		return task.Task{}, fmt.Errorf("update task: %w", err)
	}
	return out, nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Ping checks the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return errors.Join(apiErr, fmt.Errorf("read error body: %w", err))
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
