// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task record.
// ID is assigned by the remote store; it is empty until a create call returns.
type Task struct {
	ID   string `json:"id"`
	Name string `json:"taskName"`
}
