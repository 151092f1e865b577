package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"todo/internal/service"
)

var (
	// ErrTaskNumRequired indicates no task number was provided.
	ErrTaskNumRequired = errors.New("task number required")

	// ErrTaskNumOutOfRange indicates the number does not name a task.
	ErrTaskNumOutOfRange = errors.New("task number out of range")
)

// ParseTaskNum parses the 1-based task number in args[0], as printed by
// `todo list`.
func ParseTaskNum(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskNumRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	if !isAllDigits(args[0]) {
		return 0, fmt.Errorf("invalid task number: %s", args[0])
	}
	num, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task number: %s", args[0])
	}
	return num, nil
}

// findTaskByNumber fetches the collection and returns its num'th task in
// store order.
func findTaskByNumber(ctx context.Context, svc service.Service, num int) (service.Task, error) {
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return service.Task{}, err
	}
	if num < 1 || num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrTaskNumOutOfRange, num)
	}
	return tasks[num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
