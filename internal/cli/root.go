package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MarkBevz50/focusflow/internal/apiclient"
	"github.com/MarkBevz50/focusflow/internal/calendar"
	"github.com/MarkBevz50/focusflow/internal/config"
	"github.com/MarkBevz50/focusflow/internal/keyring"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/session"
	"github.com/MarkBevz50/focusflow/internal/storage"
	"github.com/MarkBevz50/focusflow/internal/storage/sqlite"
	"github.com/MarkBevz50/focusflow/internal/tasks"
)

// ErrNotLoggedIn is returned by commands that need a session when there is none.
var ErrNotLoggedIn error = notLoggedIn{}

type notLoggedIn struct{}

func (notLoggedIn) Error() string { return "not logged in" }
func (notLoggedIn) Hint() string  { return "Run 'focusflow auth login EMAIL' first." }

// Options describe where the local state lives and how to reach the API.
type Options struct {
	ConfigDir  string
	DBPath     string
	ConfigFile string
	Overrides  config.Overrides

	// HTTPClient replaces the API client's transport.
	HTTPClient *http.Client
	// Tokens replaces the token store chosen by the configured backend.
	Tokens storage.TokenStore
	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
	// Diagnose opens a degraded context for `doctor`: config and database
	// failures are kept on the Context instead of failing Open, and an
	// existing database is opened without being created or migrated.
	Diagnose bool
}

// Context carries the services every command runs against. It is built once
// by Open and torn down by Close.
type Context struct {
	Config     *config.Config
	ConfigFile string
	ConfigDir  string
	Store      storage.Provider
	API        *apiclient.Client
	Session    *session.Store
	Tasks      *tasks.Store
	Out        io.Writer

	// Now is the clock used for "today". Defaults to time.Now.
	Now func() time.Time

	// ConfigErr and StoreErr are only set on a Diagnose context.
	ConfigErr error
	StoreErr  error

	base     context.Context
	restored bool
}

// Open initializes the local database, resolves the configuration and wires
// the API client, session and task stores. The saved session is not checked
// against the server until a command asks for it.
func Open(ctx context.Context, opts Options) (*Context, error) {
	var configErr, storeErr error

	file, err := config.LoadFile(opts.ConfigFile)
	if err != nil {
		if !opts.Diagnose {
			return nil, err
		}
		configErr = err
	}

	store := sqlite.NewStore(opts.DBPath)
	if opts.Diagnose {
		storeErr = store.Load(ctx)
	} else if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open local state: %w", err)
	}

	var settings models.Settings
	if storeErr == nil {
		settings, err = store.GetSettings(ctx)
		if err != nil {
			if !opts.Diagnose {
				store.Close()
				return nil, fmt.Errorf("failed to read settings: %w", err)
			}
			storeErr = fmt.Errorf("failed to read settings: %w", err)
		}
	}

	cfg, err := config.Resolve(file, settings, opts.Overrides)
	if err != nil {
		if !opts.Diagnose {
			store.Close()
			return nil, err
		}
		if configErr == nil {
			configErr = err
		}
		// defaults alone always resolve
		cfg, _ = config.Resolve(config.File{}, models.Settings{}, config.Overrides{})
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens, err = keyring.Select(cfg.TokenBackend, storage.NewLocalTokens(store))
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	api := apiclient.New(apiclient.Options{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		HTTPClient:        opts.HTTPClient,
	})
	sess := session.New(api, tokens)
	taskStore := tasks.New(api, sess)

	// Logging out empties the cache: a list without a token makes no request.
	sess.OnLogout(func() {
		_ = taskStore.List(context.Background())
	})

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger.Debug("context opened", "api_url", cfg.APIURL, "db", store.Path(), "token_backend", cfg.TokenBackend)

	return &Context{
		Config:     cfg,
		ConfigFile: opts.ConfigFile,
		ConfigDir:  opts.ConfigDir,
		Store:      store,
		API:        api,
		Session:    sess,
		Tasks:      taskStore,
		Out:        out,
		Now:        time.Now,
		ConfigErr:  configErr,
		StoreErr:   storeErr,
		base:       ctx,
	}, nil
}

// Close releases the session hooks and the database.
func (c *Context) Close() error {
	var errs []error
	if c.Session != nil {
		errs = append(errs, c.Session.Close())
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}

// Context is the context remote calls run under.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

// Today is the current local date.
func (c *Context) Today() calendar.Date {
	if c.Now == nil {
		return calendar.Today()
	}
	return calendar.DateOf(c.Now())
}

// RestoreSession validates the saved token once per run.
func (c *Context) RestoreSession() error {
	if c.restored {
		return nil
	}
	if err := c.Session.Init(c.Context()); err != nil {
		return err
	}
	c.restored = true
	return nil
}

// RequireLogin restores the session and fails when nobody is logged in.
func (c *Context) RequireLogin() error {
	if err := c.RestoreSession(); err != nil {
		return err
	}
	if !c.Session.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// LoadTasks requires a session and refreshes the task cache.
func (c *Context) LoadTasks() ([]models.Task, error) {
	if err := c.RequireLogin(); err != nil {
		return nil, err
	}
	if err := c.Tasks.List(c.Context()); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Tasks.LastError(), err)
	}
	return c.Tasks.Tasks(), nil
}

// FindTask resolves an id or a unique id prefix against the cached list.
func (c *Context) FindTask(ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if t, ok := c.Tasks.Get(ref); ok {
		return t, nil
	}
	var matches []models.Task
	for _, t := range c.Tasks.Tasks() {
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s", tasks.ErrTaskNotFound, ref)
	default:
		return models.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Println writes a line to the command output.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}
