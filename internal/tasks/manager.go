// Package tasks owns the in-memory task collection and mediates all persistence.
package tasks

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tgienger/smarttask/internal/db"
	"github.com/tgienger/smarttask/internal/models"
)

// Manager holds the ordered task collection backed by a JSON file.
// Every mutation rewrites the whole file.
type Manager struct {
	mu         sync.Mutex
	path       string
	tasks      []models.Task
	diagnostic error
	backedUp   bool
	logger     *log.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for manager events
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Open creates a manager for path and loads its tasks.
// A malformed file is not fatal: the manager starts empty and Diagnostic reports the problem.
func Open(path string, opts ...Option) (*Manager, error) {
	m := &Manager{path: path, logger: log.Default()}
	for _, opt := range opts {
		opt(m)
	}

	loaded, err := db.LoadTasks(path)
	switch {
	case errors.Is(err, db.ErrMalformedStorage):
		m.diagnostic = err
	case err != nil:
		return nil, err
	}
	m.tasks = loaded

	m.logger.Info("task manager ready", "path", path, "tasks", len(m.tasks))
	return m, nil
}

// Path returns the backing file
func (m *Manager) Path() string {
	return m.path
}

// Diagnostic returns the load problem, if the backing file was malformed
func (m *Manager) Diagnostic() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diagnostic
}

// Len returns the number of tasks
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Add validates a task, appends it and persists the collection. Ids are not
// checked for collisions. A failed write leaves the collection unchanged.
func (m *Manager) Add(task models.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks = append(m.tasks, task)
	if err := m.save(); err != nil {
		m.tasks = m.tasks[:len(m.tasks)-1]
		return err
	}
	m.logger.Debug("task added", "id", task.ID, "title", task.Title)
	return nil
}

// Get returns a copy of the first task with id
func (m *Manager) Get(id string) (models.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(id); i >= 0 {
		return m.tasks[i], true
	}
	return models.Task{}, false
}

// Update applies patch to the task with id and persists the collection.
// It returns false with no write when the id is unknown, and false with an error
// when the patch is invalid (the task is left unchanged). When the write fails
// the change is undone and true is returned with the error.
func (m *Manager) Update(id string, patch models.Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return false, nil
	}

	prev := m.tasks[i]
	if err := patch.Apply(&m.tasks[i]); err != nil {
		return false, fmt.Errorf("update %s: %w", id, err)
	}
	if err := m.save(); err != nil {
		m.tasks[i] = prev
		return true, err
	}
	m.logger.Debug("task updated", "id", id)
	return true, nil
}

// SetStatus is shorthand for an Update that only changes the status
func (m *Manager) SetStatus(id string, status models.Status) (bool, error) {
	return m.Update(id, models.SetStatus(status))
}

// Delete removes every task with id and persists the collection, even when nothing matched.
// A failed write leaves the collection unchanged.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	prev := m.tasks
	m.tasks = kept
	if err := m.save(); err != nil {
		m.tasks = prev
		return err
	}
	if removed := len(prev) - len(kept); removed > 0 {
		m.logger.Debug("task deleted", "id", id, "removed", removed)
	}
	return nil
}

// List returns copies of the tasks, optionally only those with the given status
func (m *Manager) List(status *models.Status) []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Reload replaces the collection with the current file content
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loaded, err := db.LoadTasks(m.path)
	switch {
	case errors.Is(err, db.ErrMalformedStorage):
		m.diagnostic = err
		m.backedUp = false
	case err != nil:
		return err
	default:
		m.diagnostic = nil
	}
	m.tasks = loaded
	return nil
}

func (m *Manager) index(id string) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// save persists the collection. Callers hold mu.
func (m *Manager) save() error {
	if m.diagnostic != nil && !m.backedUp {
		// Keep a copy of the unreadable file before it gets overwritten.
		if _, err := db.BackupMalformed(m.path); err != nil {
			m.logger.Error("could not back up malformed task file", "path", m.path, "err", err)
		}
		m.backedUp = true
	}

	if err := db.SaveTasks(m.tasks, m.path); err != nil {
		m.logger.Error("saving tasks failed", "path", m.path, "err", err)
		return err
	}
	return nil
}
