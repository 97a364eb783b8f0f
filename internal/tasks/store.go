// Package tasks keeps the client-side copy of the user's task list. Every
// write is followed by a full re-read, so the cache always mirrors the server.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/MarkBevz50/focusflow/internal/apiclient"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

var (
	// ErrTaskNotFound is returned when an id is not in the cached list.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotAuthenticated is returned by writes attempted without a token.
	ErrNotAuthenticated = errors.New("you must be logged in")
)

const (
	loadFailed   = "Failed to load tasks."
	createFailed = "Failed to create task."
	updateFailed = "Failed to update task."
	deleteFailed = "Failed to delete task."
	toggleFailed = "Failed to update task status."
)

// API is the subset of the remote API the store needs.
type API interface {
	ListTasks(ctx context.Context, token string) ([]models.Task, error)
	CreateTask(ctx context.Context, token string, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, token, id string, body models.TaskReplace) error
	SetCompleted(ctx context.Context, token, id string, completed bool) (*models.Task, error)
	DeleteTask(ctx context.Context, token, id string) error
}

// TokenSource supplies the current bearer token, "" when logged out.
type TokenSource interface {
	Token() string
}

// Store is the task cache.
type Store struct {
	api       API
	tokens    TokenSource
	validator *validation.Validator
	log       *log.Logger

	mu      sync.RWMutex
	tasks   []models.Task
	lastErr string
	issued  uint64 // last sequence number handed to a read
	applied uint64 // sequence number of the read the cache reflects

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates an empty store.
func New(api API, tokens TokenSource) *Store {
	return &Store{
		api:       api,
		tokens:    tokens,
		validator: validation.New(),
		log:       logger.For(logger.Tasks),
		tasks:     []models.Task{},
		locks:     make(map[string]*sync.Mutex),
	}
}

// Tasks returns a copy of the cached list in server order.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get looks a task up in the cache.
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// LastError is the message of the most recent failed operation, "" if the
// last one succeeded.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// List re-reads the full list from the server. Logged out, the cache is
// emptied and no request is made. On failure the cache is emptied too.
// A read that finishes after a newer one has been applied is discarded.
func (s *Store) List(ctx context.Context) error {
	seq := s.nextSeq()
	token := s.tokens.Token()
	if token == "" {
		s.apply(seq, []models.Task{}, "")
		return nil
	}

	tasks, err := s.api.ListTasks(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.log.Warn("list failed", "error", err)
		s.apply(seq, []models.Task{}, apiclient.UserMessage(err, loadFailed))
		return err
	}
	s.apply(seq, tasks, "")
	return nil
}

// Create validates in, posts it and resyncs. It returns the created task
// when the server echoed it.
func (s *Store) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in = in.Normalize()
	if err := s.validator.Task(in); err != nil {
		return nil, err
	}
	token := s.tokens.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	created, err := s.api.CreateTask(ctx, token, in)
	return created, s.afterWrite(ctx, "create", err, createFailed)
}

// Update replaces the editable fields of a cached task. The completion flag
// is sent unchanged.
func (s *Store) Update(ctx context.Context, id string, in models.TaskInput) error {
	in = in.Normalize()
	if err := s.validator.Task(in); err != nil {
		return err
	}
	token := s.tokens.Token()
	if token == "" {
		return ErrNotAuthenticated
	}
	current, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	err := s.api.UpdateTask(ctx, token, id, models.TaskReplace{TaskInput: in, Completed: current.Completed})
	return s.afterWrite(ctx, "update", err, updateFailed)
}

// Delete removes a task and resyncs.
func (s *Store) Delete(ctx context.Context, id string) error {
	token := s.tokens.Token()
	if token == "" {
		return ErrNotAuthenticated
	}
	err := s.api.DeleteTask(ctx, token, id)
	return s.afterWrite(ctx, "delete", err, deleteFailed)
}

// ToggleComplete sends the negation of the cached completion flag and
// resyncs. Toggles of one task through this store run one at a time, so
// each computes its value from the previous toggle's result. The returned
// task is the server's echo when it sent one, else the resynced entry.
func (s *Store) ToggleComplete(ctx context.Context, id string) (models.Task, error) {
	lock := s.taskLock(id)
	lock.Lock()
	defer lock.Unlock()

	token := s.tokens.Token()
	if token == "" {
		return models.Task{}, ErrNotAuthenticated
	}
	current, ok := s.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	echoed, werr := s.api.SetCompleted(ctx, token, id, !current.Completed)
	if err := s.afterWrite(ctx, "toggle", werr, toggleFailed); err != nil {
		return models.Task{}, err
	}
	if echoed != nil {
		return *echoed, nil
	}
	if t, ok := s.Get(id); ok {
		return t, nil
	}
	current.Completed = !current.Completed
	return current, nil
}

// afterWrite resyncs unconditionally, then records the write error, if
// any, so it survives the resync clearing the previous one.
func (s *Store) afterWrite(ctx context.Context, op string, writeErr error, fallback string) error {
	if writeErr != nil {
		s.log.Warn(op+" failed", "error", writeErr)
	}
	if err := s.List(ctx); err != nil {
		s.log.Debug("resync after "+op+" failed", "error", err)
	}
	if writeErr != nil {
		s.mu.Lock()
		s.lastErr = apiclient.UserMessage(writeErr, fallback)
		s.mu.Unlock()
		return writeErr
	}
	return nil
}

func (s *Store) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

func (s *Store) apply(seq uint64, tasks []models.Task, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.log.Debug("discarding stale list", "seq", seq, "applied", s.applied)
		return
	}
	s.applied = seq
	s.tasks = tasks
	s.lastErr = errMsg
	s.pruneLocks(tasks)
}

// pruneLocks drops the toggle locks of ids that left the list. A lock held
// by an in-flight toggle is kept until a later resync.
func (s *Store) pruneLocks(tasks []models.Task) {
	live := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		live[t.ID] = struct{}{}
	}
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	for id, l := range s.locks {
		if _, ok := live[id]; ok || !l.TryLock() {
			continue
		}
		delete(s.locks, id)
		l.Unlock()
	}
}

func (s *Store) taskLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}
