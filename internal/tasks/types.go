// Package tasks runs named processes and tracks them as tasks.
//
// A task moves queued -> running -> done. Processes are executed
// synchronously, so a task is already done when Run returns.
package tasks

import (
	"context"
	"time"
)

// Status is a task lifecycle state.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
)

// next lists the only allowed transition out of each state.
var next = map[Status]Status{
	StatusQueued:  StatusRunning,
	StatusRunning: StatusDone,
}

// Task is one execution of a named process.
type Task struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    Status         `json:"status"`
	Params    map[string]any `json:"params,omitempty"`
	Result    map[string]any `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// advance moves the task to status to, enforcing the lifecycle order.
func (t *Task) advance(to Status, now time.Time) error {
	if next[t.Status] != to {
		return NewTransitionError(t.Status, to)
	}
	t.Status = to
	t.UpdatedAt = now
	return nil
}

func (t *Task) clone() *Task {
	c := *t
	if t.Params != nil {
		c.Params = make(map[string]any, len(t.Params))
		for k, v := range t.Params {
			c.Params[k] = v
		}
	}
	if t.Result != nil {
		c.Result = make(map[string]any, len(t.Result))
		for k, v := range t.Result {
			c.Result[k] = v
		}
	}
	return &c
}

// Store defines the interface for task storage operations
type Store interface {
	// Put inserts or overwrites a task
	Put(ctx context.Context, task *Task) error

	// Get retrieves a task by ID
	Get(ctx context.Context, taskID string) (*Task, error)

	// Count returns the number of stored tasks
	Count(ctx context.Context) (int, error)
}
