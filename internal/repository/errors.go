package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task does not exist or is not
	// visible to the caller (soft-deleted tasks are invisible outside the
	// dedicated deleted-tasks paths)
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskConflict is returned when a guarded state transition affects
	// zero rows because a concurrent actor already moved the task out of the
	// expected state; the caller should re-fetch and retry
	ErrTaskConflict = errors.New("task state conflict")

	// ErrTaskAccepted is returned when trying to mutate a task that reached
	// the terminal ACCEPTED state
	ErrTaskAccepted = errors.New("task already accepted")

	// ErrTaskAlreadyDeleted is returned when deleting a task that is already
	// soft-deleted
	ErrTaskAlreadyDeleted = errors.New("task already deleted")
)
