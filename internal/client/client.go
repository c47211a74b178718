// Package client is a typed HTTP client for the todo gateway, used by the CLI subcommands.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Unwrap lets callers match gateway failures with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return shared.ErrTodoNotFound
	case http.StatusBadRequest:
		return shared.ErrInvalidInput
	case http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case http.StatusTooManyRequests:
		return shared.ErrRateLimited
	default:
		return shared.ErrAPIRequest
	}
}

// Opts configures a [Client].
type Opts struct {
	BaseURL        string
	IdentityHeader string
	UserID         string
	HTTPClient     *http.Client
}

// Client calls the /api/todos endpoints, sending the identity header on every request.
type Client struct {
	baseURL    string
	header     string
	userID     string
	httpClient *http.Client
}

// New creates a [Client], filling unset options with defaults.
func New(opts Opts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://127.0.0.1:3000"
	}
	if opts.IdentityHeader == "" {
		opts.IdentityHeader = "x-user-id"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		header:     opts.IdentityHeader,
		userID:     opts.UserID,
		httpClient: opts.HTTPClient,
	}
}

// List returns live todos whose title contains search.
func (c *Client) List(ctx context.Context, search string) ([]models.Todo, error) {
	path := "/api/todos"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// LegacySearch queries the older /api/todos/search endpoint.
func (c *Client) LegacySearch(ctx context.Context, title string) ([]models.Todo, error) {
	path := "/api/todos/search"
	if title != "" {
		path += "?title=" + url.QueryEscape(title)
	}

	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Create adds a todo.
func (c *Client) Create(ctx context.Context, title string) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodPost, "/api/todos", models.CreateTodo{Title: &title}, &todo)
	return todo, err
}

// Update sends the fields set in patch.
func (c *Client) Update(ctx context.Context, id int64, patch models.UpdateTodo) (models.Todo, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Completed != nil {
		body["completed"] = *patch.Completed
	}

	var todo models.Todo
	err := c.do(ctx, http.MethodPut, todoPath(id), body, &todo)
	return todo, err
}

// Toggle flips a todo's completed flag.
func (c *Client) Toggle(ctx context.Context, id int64) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodPatch, todoPath(id), nil, &todo)
	return todo, err
}

// Delete removes a todo.
func (c *Client) Delete(ctx context.Context, id int64) (models.DeleteResult, error) {
	var res models.DeleteResult
	err := c.do(ctx, http.MethodDelete, todoPath(id), nil, &res)
	return res, err
}

func todoPath(id int64) string {
	return "/api/todos/" + strconv.FormatInt(id, 10)
}

// do sends a JSON request and decodes a 2xx JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userID != "" {
		req.Header.Set(c.header, c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	} else if text := strings.TrimSpace(string(data)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}

