// Package tasklist holds the ordered, in-memory task sequence owned by a
// page session. ReplaceAll, Prepend and RemoveAt are its only mutation
// entry points.
//
// A List is not safe for concurrent use; its owner serializes access.
package tasklist

import (
	"errors"
	"fmt"

	"todo/internal/service"
)

// ErrOutOfRange is returned when a position does not address a task.
var ErrOutOfRange = errors.New("position out of range")

// List is an ordered sequence of tasks, newest first after prepends.
type List struct {
	tasks []service.Task
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// ReplaceAll overwrites the whole sequence.
func (l *List) ReplaceAll(tasks []service.Task) {
	l.tasks = make([]service.Task, len(tasks))
	copy(l.tasks, tasks)
}

// Prepend inserts a task at the head.
func (l *List) Prepend(task service.Task) {
	l.tasks = append([]service.Task{task}, l.tasks...)
}

// RemoveAt removes the task at the zero-based position and returns it.
// Removal is by position, not identity: callers holding a stale position
// remove whatever task is there now.
func (l *List) RemoveAt(position int) (service.Task, error) {
	if position < 0 || position >= len(l.tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, position)
	}
	removed := l.tasks[position]
	l.tasks = append(l.tasks[:position:position], l.tasks[position+1:]...)
	return removed, nil
}

// Tasks returns a copy of the sequence.
func (l *List) Tasks() []service.Task {
	out := make([]service.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// At returns the task at position.
func (l *List) At(position int) (service.Task, bool) {
	if position < 0 || position >= len(l.tasks) {
		return service.Task{}, false
	}
	return l.tasks[position], true
}

// IndexOf returns the position of the task with the given ID, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
