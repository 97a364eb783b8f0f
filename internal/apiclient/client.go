// Package apiclient talks to the FocusFlow REST API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/models"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration // per request; 0 leaves it to the transport
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// Client is a thin wrapper over the API endpoints. It never retries.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	log     *log.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = constants.DefaultAPIURL
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = constants.DefaultRequestsPerSecond
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = constants.DefaultRequestBurst
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: base,
		timeout: opts.Timeout,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		log:     logger.For(logger.APIClient),
	}
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", "", req, nil)
}

// Login exchanges credentials for a token. The token may be empty if the
// server omitted it; callers decide what that means.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", creds, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Profile resolves the identity behind token.
func (c *Client) Profile(ctx context.Context, token string) (models.Profile, error) {
	var p models.Profile
	if token == "" {
		return p, ErrNoToken
	}
	err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil, &p)
	return p, err
}

// ListTasks returns every task owned by the token's user.
func (c *Client) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", token, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// CreateTask adds a task. The created task is returned when the server
// echoes it back, nil otherwise.
func (c *Client) CreateTask(ctx context.Context, token string, in models.TaskInput) (*models.Task, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var t models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", token, in, &t); err != nil {
		return nil, err
	}
	return taskOrNil(t), nil
}

// UpdateTask replaces the editable fields and completion flag of a task.
func (c *Client) UpdateTask(ctx context.Context, token, id string, body models.TaskReplace) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodPut, taskPath(id), token, body, nil)
}

// SetCompleted sends the new completion flag as a bare JSON boolean.
// If the server answers with the task it is returned.
func (c *Client) SetCompleted(ctx context.Context, token, id string, completed bool) (*models.Task, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var t models.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), token, completed, &t); err != nil {
		return nil, err
	}
	return taskOrNil(t), nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodDelete, taskPath(id), token, nil, nil)
}

// Ping checks that the API answers at all. Any HTTP response counts,
// including the 401 an anonymous profile request gets.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/auth/profile", "", nil, nil)
	var apiErr *APIError
	if err == nil || errors.As(err, &apiErr) {
		return nil
	}
	return err
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

func taskOrNil(t models.Task) *models.Task {
	if t.ID == "" {
		return nil
	}
	return &t
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	requestID := uuid.New().String()
	req.Header.Set(constants.RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:    resp.StatusCode,
			Method:    method,
			Path:      path,
			RequestID: requestID,
			Payload:   ClassifyPayload(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		// Writes may answer with a body we do not model; only reads must decode.
		if method == http.MethodGet || path == "/auth/login" {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
		c.log.Debug("ignoring undecodable response body", "method", method, "path", path, "error", err)
		rv := reflect.ValueOf(out).Elem()
		rv.Set(reflect.Zero(rv.Type()))
	}
	return nil
}
