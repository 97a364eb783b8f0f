package fakeapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MarkBevz50/focusflow/internal/models"
)

func (s *Server) listTasks(c echo.Context) error {
	owner := currentUser(c).ID
	s.mu.Lock()
	fail := s.failures.List
	out := append([]models.Task{}, s.tasks[owner]...)
	s.mu.Unlock()
	if fail {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Task storage is unavailable.")
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createTask(c echo.Context) error {
	if status := s.takeWriteFailure(); status != 0 {
		return echo.NewHTTPError(status)
	}
	var in models.TaskInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in = in.Normalize()
	if err := c.Validate(&in); err != nil {
		return err
	}
	t := s.AddTask(currentUser(c).ID, models.Task{Title: in.Title, Description: in.Description, Deadline: in.Deadline})
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTask(c echo.Context) error {
	if status := s.takeWriteFailure(); status != 0 {
		return echo.NewHTTPError(status)
	}
	var body models.TaskReplace
	if err := c.Bind(&body); err != nil {
		return err
	}
	body.TaskInput = body.TaskInput.Normalize()
	if err := c.Validate(&body.TaskInput); err != nil {
		return err
	}
	_, ok := s.mutate(currentUser(c).ID, c.Param("id"), func(t *models.Task) {
		t.Title = body.Title
		t.Description = body.Description
		t.Deadline = body.Deadline
		t.Completed = body.Completed
	})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found.")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) setCompleted(c echo.Context) error {
	if status := s.takeWriteFailure(); status != 0 {
		return echo.NewHTTPError(status)
	}
	var completed bool
	if err := c.Bind(&completed); err != nil {
		return err
	}
	t, ok := s.mutate(currentUser(c).ID, c.Param("id"), func(t *models.Task) {
		t.Completed = completed
	})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found.")
	}
	if s.opts.EchoToggles {
		return c.JSON(http.StatusOK, t)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteTask(c echo.Context) error {
	if status := s.takeWriteFailure(); status != 0 {
		return echo.NewHTTPError(status)
	}
	owner := currentUser(c).ID
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.tasks[owner]
	for i := range list {
		if list[i].ID == id {
			s.tasks[owner] = append(list[:i:i], list[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Task not found.")
}

// AddTask stores t for owner, assigning an id, and returns it.
func (s *Server) AddTask(owner string, t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTask++
	t.ID = fmt.Sprint(s.nextTask)
	t.OwnerID = owner
	s.tasks[owner] = append(s.tasks[owner], t)
	return t
}

// Tasks returns owner's tasks in insertion order.
func (s *Server) Tasks(owner string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task{}, s.tasks[owner]...)
}

func (s *Server) mutate(owner, id string, fn func(*models.Task)) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.tasks[owner]
	for i := range list {
		if list[i].ID == id {
			fn(&list[i])
			return list[i], true
		}
	}
	return models.Task{}, false
}
