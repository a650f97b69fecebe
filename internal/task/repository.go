package task

import "context"

// Repository keeps task records for the lifetime of the process.
type Repository interface {
	// All returns every task in insertion order.
	All(ctx context.Context) ([]Task, error)
	Add(ctx context.Context, t Task) error
	// Update merges p into the task with the given id and returns the result.
	Update(ctx context.Context, id string, p Patch) (Task, error)
	// Delete removes the task and reports whether one was removed.
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (Task, error)
}
