package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager creates and executes tasks.
type Manager struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
	onDone func(name string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithDoneHook is called once for every task that reaches done.
func WithDoneHook(fn func(name string)) Option {
	return func(m *Manager) {
		m.onDone = fn
	}
}

// NewManager creates a task manager backed by store.
func NewManager(store Store, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: logger.With().Str("component", "task_manager").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes the named process and returns its finished task.
func (m *Manager) Run(ctx context.Context, name string, params map[string]any) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidNameError()
	}

	now := m.now()
	task := &Task{
		ID:        m.newID(),
		Name:      name,
		Status:    StatusQueued,
		Params:    params,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Put(ctx, task); err != nil {
		return nil, NewStorageError("create", err)
	}

	if err := m.step(ctx, task, StatusRunning); err != nil {
		return nil, err
	}
	task.Result = map[string]any{"name": name, "message": "Proceso ejecutado"}
	if err := m.step(ctx, task, StatusDone); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("task_id", task.ID).
		Str("name", name).
		Msg("Process executed")
	if m.onDone != nil {
		m.onDone(name)
	}
	return task.clone(), nil
}

func (m *Manager) step(ctx context.Context, task *Task, to Status) error {
	if err := task.advance(to, m.now()); err != nil {
		return err
	}
	if err := m.store.Put(ctx, task); err != nil {
		m.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Str("status", string(to)).
			Msg("Failed to store task")
		return NewStorageError(string(to), err)
	}
	return nil
}

// Get returns a task by ID.
func (m *Manager) Get(ctx context.Context, taskID string) (*Task, error) {
	return m.store.Get(ctx, taskID)
}
