// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for remote store operations.
// All remote store calls go through this interface.
// Pages and commands never speak the store's wire format directly.
type Service interface {
	// ListTasks returns every task in the collection, in the order the
	// store returned them. An empty collection yields an empty slice.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask stores a new task and returns it with its generated ID.
	CreateTask(ctx context.Context, name string) (Task, error)

	// DeleteTask removes a task from the store by ID.
	DeleteTask(ctx context.Context, id string) error
}
