package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/metalagman/taskdeck/internal/task"
)

const (
	defaultBaseURL = "http://127.0.0.1:8080"
	defaultTimeout = 10 * time.Second
)

// ErrNotFound is matched by errors.Is for 404 responses.
var ErrNotFound = task.ErrNotFound

// Config is the task API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// APIError is a non-2xx response from the task API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task api: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("task api: %s", e.Message)
}

// Unwrap exposes ErrNotFound for 404 responses.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}
