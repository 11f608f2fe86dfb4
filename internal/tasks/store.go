package tasks

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// MemoryStore implements Store using in-memory storage. Tasks are never
// evicted.
type MemoryStore struct {
	tasks  map[string]*Task
	mutex  sync.RWMutex
	logger zerolog.Logger
}

// NewMemoryStore creates a new in-memory task store
func NewMemoryStore(logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[string]*Task),
		logger: logger.With().Str("component", "task_store").Logger(),
	}
}

// Put stores a copy of task
func (s *MemoryStore) Put(ctx context.Context, task *Task) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks[task.ID] = task.clone()
	s.logger.Debug().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("Stored task")
	return nil
}

// Get returns a copy of the stored task
func (s *MemoryStore) Get(ctx context.Context, taskID string) (*Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, NewTaskNotFoundError(taskID)
	}
	return task.clone(), nil
}

// Count returns the number of stored tasks
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.tasks), nil
}
