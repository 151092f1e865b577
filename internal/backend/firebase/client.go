// Package firebase implements the service.Service interface against the
// Firebase Realtime Database REST API.
package firebase

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
	"time"

	"github.com/rs/zerolog"

	"todo/internal/config"
	"todo/internal/service"
)

const (
	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20

	// maxErrorBytes caps how much of an error body is kept for messages.
	maxErrorBytes = 512
)

// Client implements service.Service using the Realtime Database REST API.
type Client struct {
	http       *http.Client
	baseURL    string
	collection string
	timeout    time.Duration
	log        zerolog.Logger
}

// New creates a new client from config, building an authenticated
// HTTP client when credentials are configured.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	httpClient, err := NewHTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(httpClient, cfg, logger), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, cfg *config.Config, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: strings.Trim(cfg.Collection, "/"),
		timeout:    cfg.Timeout(),
		log:        logger.With().Str("component", "firebase").Logger(),
	}
}

// wireTask is the stored record shape.
type wireTask struct {
	TaskName string `json:"taskName"`
}

// pushResponse is the body returned by a successful POST.
type pushResponse struct {
	Name string `json:"name"`
}

// ListTasks returns all tasks in the order the store sent them.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return nil, &service.Error{Op: "list", Kind: service.KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError("list", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("list", resp); err != nil {
		return nil, err
	}

	tasks, err := decodeCollection(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &service.Error{Op: "list", Kind: service.KindDecode, Err: err}
	}

	c.log.Debug().Int("count", len(tasks)).Msg("fetched tasks")
	return tasks, nil
}

// CreateTask posts a new task and returns it with the store-generated ID.
func (c *Client) CreateTask(ctx context.Context, name string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(wireTask{TaskName: name})
	if err != nil {
		return service.Task{}, &service.Error{Op: "create", Kind: service.KindDecode, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.collectionURL(), bytes.NewReader(body))
	if err != nil {
		return service.Task{}, &service.Error{Op: "create", Kind: service.KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return service.Task{}, wrapError("create", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("create", resp); err != nil {
		return service.Task{}, err
	}

	var pushed pushResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&pushed); err != nil {
		return service.Task{}, &service.Error{Op: "create", Kind: service.KindDecode, Err: err}
	}
	if pushed.Name == "" {
		return service.Task{}, &service.Error{Op: "create", Kind: service.KindDecode, Err: errors.New("response has no generated id")}
	}

	c.log.Debug().Str("id", pushed.Name).Msg("created task")
	return service.Task{ID: pushed.Name, Name: name}, nil
}

// DeleteTask removes a task record from the store.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete: task id required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.recordURL(id), nil)
	if err != nil {
		return &service.Error{Op: "delete", Kind: service.KindTransport, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError("delete", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("delete", resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	c.log.Debug().Str("id", id).Msg("deleted task")
	return nil
}

// collectionURL returns <base>/<collection>.json.
func (c *Client) collectionURL() string {
	return c.baseURL + "/" + escapePath(c.collection) + ".json"
}

// recordURL returns <base>/<collection>/<id>.json.
func (c *Client) recordURL(id string) string {
	return c.baseURL + "/" + escapePath(c.collection) + "/" + url.PathEscape(id) + ".json"
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// checkStatus turns a non-2xx response into a status error carrying the
// store's error message when it sent one.
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	message := strings.TrimSpace(string(data))

	var storeErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &storeErr) == nil && storeErr.Error != "" {
		message = storeErr.Error
	}

	return &service.Error{
		Op:         op,
		Kind:       service.KindStatus,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// wrapError classifies a failed round trip.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Error{Op: op, Kind: service.KindTransport, Message: "request timed out", Err: err}
	}
	return &service.Error{Op: op, Kind: service.KindTransport, Err: err}
}
