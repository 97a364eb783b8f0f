// Package fakeapi is an in-memory stand-in for the FocusFlow REST API. It
// backs package tests and the hidden `dev serve` command.
package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

// Options configures a Server.
type Options struct {
	// Secret signs issued tokens. A fixed development secret is used if empty.
	Secret string
	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration
	// BcryptCost is the password hashing cost; tests use bcrypt.MinCost.
	BcryptCost int
	// EchoToggles makes PATCH /tasks/{id} answer with the updated task
	// instead of an empty 204.
	EchoToggles bool
}

type user struct {
	profile models.Profile
	hash    []byte
}

// Server holds users and tasks in memory.
type Server struct {
	echo *echo.Echo
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	users    map[string]*user // by lower-cased email
	byID     map[string]*user
	tasks    map[string][]models.Task // by owner id
	nextUser int
	nextTask int
	failures Failures
}

// Failures lets tests make individual endpoints fail.
type Failures struct {
	Profile bool
	List    bool
	// NextWrite, when non-zero, is the status returned by the next
	// create, update, toggle or delete. It resets after one use.
	NextWrite int
}

// New creates a server with routes under /api.
func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = "focusflow-development-secret"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = errorHandler

	s := &Server{
		echo:  e,
		opts:  opts,
		now:   time.Now,
		users: make(map[string]*user),
		byID:  make(map[string]*user),
		tasks: make(map[string][]models.Task),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		TargetHeader: echo.HeaderXRequestID,
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.For(logger.FakeAPI).Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", s.signUp)
	auth.POST("/login", s.login)
	auth.GET("/profile", s.profile, s.requireAuth)

	tasks := api.Group("/tasks", s.requireAuth)
	tasks.GET("", s.listTasks)
	tasks.POST("", s.createTask)
	tasks.PUT("/:id", s.updateTask)
	tasks.PATCH("/:id", s.setCompleted)
	tasks.DELETE("/:id", s.deleteTask)
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// SetFailures replaces the failure injection settings.
func (s *Server) SetFailures(f Failures) {
	s.mu.Lock()
	s.failures = f
	s.mu.Unlock()
}

func (s *Server) takeWriteFailure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.failures.NextWrite
	s.failures.NextWrite = 0
	return status
}

// sonicSerializer plugs sonic into echo's Bind and JSON responses.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "The request body is not valid JSON.").SetInternal(err)
	}
	return nil
}
