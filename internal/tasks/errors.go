package tasks

import (
	"errors"
	"fmt"
)

// TaskError represents a task-related error
type TaskError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// Error codes for task operations
const (
	ErrTaskNotFound    = "TASK_NOT_FOUND"
	ErrTaskInvalidName = "TASK_INVALID_NAME"
	ErrTaskTransition  = "TASK_INVALID_TRANSITION"
	ErrTaskStorage     = "TASK_STORAGE_ERROR"
)

// NewTaskNotFoundError creates a task not found error
func NewTaskNotFoundError(taskID string) *TaskError {
	return &TaskError{
		Code:    ErrTaskNotFound,
		Message: fmt.Sprintf("task not found: %s", taskID),
	}
}

// NewInvalidNameError is returned when a process name is empty
func NewInvalidNameError() *TaskError {
	return &TaskError{
		Code:    ErrTaskInvalidName,
		Message: "process name is required",
	}
}

// NewTransitionError is returned for a status change the lifecycle forbids
func NewTransitionError(from, to Status) *TaskError {
	return &TaskError{
		Code:    ErrTaskTransition,
		Message: fmt.Sprintf("cannot move task from %s to %s", from, to),
	}
}

// NewStorageError wraps a store failure
func NewStorageError(operation string, cause error) *TaskError {
	return &TaskError{
		Code:    ErrTaskStorage,
		Message: fmt.Sprintf("task storage error during %s", operation),
		Cause:   cause,
	}
}

// errorCode extracts the task error code, if any
func errorCode(err error) string {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Code
	}
	return "UNKNOWN_ERROR"
}
