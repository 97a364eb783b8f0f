package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"testing"

	"github.com/MarkBevz50/focusflow/internal/apiclient"
	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// memoryAPI is an in-memory server double.
type memoryAPI struct {
	mu      sync.Mutex
	tasks   []models.Task
	nextID  int
	calls   []string
	patches []bool
	puts    []models.TaskReplace

	listErr  error
	writeErr error
	echo     bool

	// gate, when set, blocks the next ListTasks call until it is closed
	gate chan struct{}
}

func (m *memoryAPI) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memoryAPI) ListTasks(ctx context.Context, _ string) ([]models.Task, error) {
	m.mu.Lock()
	m.record("list")
	snapshot := append([]models.Task(nil), m.tasks...)
	gate := m.gate
	m.gate = nil
	err := m.listErr
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (m *memoryAPI) CreateTask(_ context.Context, _ string, in models.TaskInput) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create")
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.nextID++
	t := models.Task{ID: fmt.Sprint(m.nextID), Title: in.Title, Description: in.Description, Deadline: in.Deadline}
	m.tasks = append(m.tasks, t)
	return &t, nil
}

func (m *memoryAPI) UpdateTask(_ context.Context, _ string, id string, body models.TaskReplace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("update")
	m.puts = append(m.puts, body)
	if m.writeErr != nil {
		return m.writeErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Title = body.Title
			m.tasks[i].Completed = body.Completed
			return nil
		}
	}
	return &apiclient.APIError{Status: http.StatusNotFound}
}

func (m *memoryAPI) SetCompleted(_ context.Context, _ string, id string, completed bool) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("patch")
	m.patches = append(m.patches, completed)
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = completed
			if m.echo {
				t := m.tasks[i]
				return &t, nil
			}
			return nil, nil
		}
	}
	return nil, &apiclient.APIError{Status: http.StatusNotFound}
}

func (m *memoryAPI) DeleteTask(_ context.Context, _ string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete")
	if m.writeErr != nil {
		return m.writeErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return &apiclient.APIError{Status: http.StatusNotFound}
}

func (m *memoryAPI) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func seeded(n int) *memoryAPI {
	m := &memoryAPI{}
	for i := 1; i <= n; i++ {
		m.tasks = append(m.tasks, models.Task{ID: fmt.Sprint(i), Title: fmt.Sprintf("task %d", i)})
	}
	m.nextID = n
	return m
}

func TestListUnauthenticatedIsEmpty(t *testing.T) {
	api := seeded(2)
	s := New(api, staticToken(""))
	if err := s.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Errorf("Tasks() = %v, want empty", s.Tasks())
	}
	if api.callCount() != 0 {
		t.Error("request sent without a token")
	}
}

func TestListReflectsServer(t *testing.T) {
	s := New(seeded(3), staticToken("tok"))
	if err := s.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := s.Tasks()
	if len(got) != 3 || got[0].ID != "1" || got[2].ID != "3" {
		t.Errorf("Tasks() = %+v", got)
	}
}

func TestListFailureEmptiesCache(t *testing.T) {
	api := seeded(2)
	s := New(api, staticToken("tok"))
	ctx := context.Background()
	_ = s.List(ctx)

	api.listErr = &apiclient.APIError{Status: 500, Payload: apiclient.ClassifyPayload(nil)}
	if err := s.List(ctx); err == nil {
		t.Fatal("List() error = nil")
	}
	if len(s.Tasks()) != 0 {
		t.Error("cache kept after failed list")
	}
	if s.LastError() != "Failed to load tasks." {
		t.Errorf("LastError() = %q", s.LastError())
	}

	api.listErr = nil
	_ = s.List(ctx)
	if s.LastError() != "" || len(s.Tasks()) != 2 {
		t.Errorf("after recovery: LastError() = %q, tasks = %d", s.LastError(), len(s.Tasks()))
	}
}

func TestCreateRejectsBlankTitleLocally(t *testing.T) {
	api := seeded(0)
	s := New(api, staticToken("tok"))
	_, err := s.Create(context.Background(), models.TaskInput{Title: "   "})
	var verrs validation.Errors
	if !errors.As(err, &verrs) || verrs["title"] == "" {
		t.Errorf("Create() error = %v, want title validation error", err)
	}
	if api.callCount() != 0 {
		t.Errorf("%d remote calls for an invalid task", api.callCount())
	}
}

func TestWritesRequireToken(t *testing.T) {
	api := seeded(1)
	s := New(api, staticToken(""))
	ctx := context.Background()

	if _, err := s.Create(ctx, models.TaskInput{Title: "x"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Create() error = %v", err)
	}
	if err := s.Delete(ctx, "1"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := s.ToggleComplete(ctx, "1"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("ToggleComplete() error = %v", err)
	}
	if api.callCount() != 0 {
		t.Error("writes reached the server without a token")
	}
}

func TestCreateResyncs(t *testing.T) {
	api := seeded(2)
	s := New(api, staticToken("tok"))
	created, err := s.Create(context.Background(), models.TaskInput{Title: "  Buy milk  "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created == nil || created.Title != "Buy milk" {
		t.Errorf("created = %+v", created)
	}
	if len(s.Tasks()) != 3 {
		t.Errorf("Tasks() has %d entries, want 3 after resync", len(s.Tasks()))
	}
	if got := api.calls; len(got) != 2 || got[0] != "create" || got[1] != "list" {
		t.Errorf("calls = %v, want [create list]", got)
	}
}

func TestWriteFailureRecordedAfterResync(t *testing.T) {
	api := seeded(2)
	s := New(api, staticToken("tok"))
	api.writeErr = &apiclient.APIError{Status: 400, Payload: apiclient.ClassifyPayload([]byte(`{"message":"Title too long"}`))}

	_, err := s.Create(context.Background(), models.TaskInput{Title: "x"})
	if err == nil {
		t.Fatal("Create() error = nil")
	}
	if s.LastError() != "Title too long" {
		t.Errorf("LastError() = %q", s.LastError())
	}
	if len(s.Tasks()) != 2 {
		t.Error("resync did not run after failed write")
	}
}

func TestToggleSendsNegation(t *testing.T) {
	api := seeded(1)
	s := New(api, staticToken("tok"))
	ctx := context.Background()
	_ = s.List(ctx)

	got, err := s.ToggleComplete(ctx, "1")
	if err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if !got.Completed {
		t.Error("task not completed after first toggle")
	}
	if _, err := s.ToggleComplete(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if len(api.patches) != 2 || api.patches[0] != true || api.patches[1] != false {
		t.Errorf("patches = %v, want [true false]", api.patches)
	}
	if task, _ := s.Get("1"); task.Completed {
		t.Error("cache shows completed after second toggle")
	}
}

func TestToggleUnknownTask(t *testing.T) {
	api := seeded(1)
	s := New(api, staticToken("tok"))
	_ = s.List(context.Background())
	before := api.callCount()

	if _, err := s.ToggleComplete(context.Background(), "99"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("ToggleComplete() error = %v", err)
	}
	if api.callCount() != before {
		t.Error("unknown id reached the server")
	}
}

func TestToggleUsesEchoedTask(t *testing.T) {
	api := seeded(1)
	api.echo = true
	s := New(api, staticToken("tok"))
	_ = s.List(context.Background())

	got, err := s.ToggleComplete(context.Background(), "1")
	if err != nil || got.ID != "1" || !got.Completed {
		t.Errorf("ToggleComplete() = %+v, %v", got, err)
	}
}

func TestConcurrentTogglesAreSerialized(t *testing.T) {
	api := seeded(1)
	s := New(api, staticToken("tok"))
	_ = s.List(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ToggleComplete(context.Background(), "1"); err != nil {
				t.Errorf("ToggleComplete() error = %v", err)
			}
		}()
	}
	wg.Wait()

	want := []bool{true, false, true, false}
	if fmt.Sprint(api.patches) != fmt.Sprint(want) {
		t.Errorf("patches = %v, want %v", api.patches, want)
	}
	if task, _ := s.Get("1"); task.Completed {
		t.Error("four toggles left the task completed")
	}
}

func TestUpdateKeepsCompletedFlag(t *testing.T) {
	api := seeded(1)
	api.tasks[0].Completed = true
	s := New(api, staticToken("tok"))
	ctx := context.Background()
	_ = s.List(ctx)

	if err := s.Update(ctx, "1", models.TaskInput{Title: "renamed"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(api.puts) != 1 || !api.puts[0].Completed || api.puts[0].Title != "renamed" {
		t.Errorf("PUT bodies = %+v", api.puts)
	}
	if task, _ := s.Get("1"); task.Title != "renamed" {
		t.Errorf("cache title = %q", task.Title)
	}
	if err := s.Update(ctx, "42", models.TaskInput{Title: "x"}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Update(unknown) error = %v", err)
	}
}

func TestDeleteResyncs(t *testing.T) {
	api := seeded(3)
	s := New(api, staticToken("tok"))
	ctx := context.Background()
	_ = s.List(ctx)

	if err := s.Delete(ctx, "2"); err != nil {
		t.Fatal(err)
	}
	got := s.Tasks()
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Tasks() = %+v", got)
	}
}

func TestResyncPrunesToggleLocks(t *testing.T) {
	api := seeded(3)
	s := New(api, staticToken("tok"))
	ctx := context.Background()
	_ = s.List(ctx)

	for _, id := range []string{"1", "2", "3"} {
		if _, err := s.ToggleComplete(ctx, id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	if err := s.Delete(ctx, "2"); err != nil {
		t.Fatal(err)
	}

	s.locksMu.Lock()
	_, kept := s.locks["2"]
	n := len(s.locks)
	s.locksMu.Unlock()
	if kept || n != 2 {
		t.Errorf("locks after delete = %d (id 2 kept: %v), want 2 without id 2", n, kept)
	}

	held := s.taskLock("1")
	held.Lock()
	api.mu.Lock()
	api.tasks = nil
	api.mu.Unlock()
	_ = s.List(ctx)
	held.Unlock()

	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if _, ok := s.locks["1"]; !ok || len(s.locks) != 1 {
		t.Errorf("locks after emptying = %v, want only the held id 1", s.locks)
	}
}

func TestStaleListIsDiscarded(t *testing.T) {
	api := seeded(1)
	s := New(api, staticToken("tok"))

	gate := make(chan struct{})
	api.gate = gate

	slowDone := make(chan error)
	go func() { slowDone <- s.List(context.Background()) }()

	// wait until the slow read has taken its snapshot
	for api.callCount() == 0 {
		runtime.Gosched()
	}

	api.mu.Lock()
	api.tasks = append(api.tasks, models.Task{ID: "2", Title: "new"})
	api.mu.Unlock()
	if err := s.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	close(gate)
	if err := <-slowDone; err != nil {
		t.Fatal(err)
	}

	if len(s.Tasks()) != 2 {
		t.Errorf("Tasks() = %+v; the older response overwrote the newer one", s.Tasks())
	}
}

func TestCancelledResyncLeavesCache(t *testing.T) {
	api := seeded(2)
	s := New(api, staticToken("tok"))
	_ = s.List(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api.listErr = context.Canceled
	if err := s.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List() error = %v", err)
	}
	if len(s.Tasks()) != 2 {
		t.Error("cancelled read cleared the cache")
	}
}
