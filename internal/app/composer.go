// Package app wires the remote store to the task list for one page session.
//
// The composer is split in two halves. Fetch, Create and DeleteRemote do
// network I/O and never touch the list; they can run off the event thread.
// Apply and Remove mutate the list and must run on the owner's event
// thread (the Bubble Tea update loop, or under a web session's lock).
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"todo/internal/service"
	"todo/internal/tasklist"
)

// ErrStale is returned when a removal names a task that is no longer at
// the given position.
var ErrStale = errors.New("task list changed; refresh and try again")

// LoadResult is the outcome of the initial fetch.
type LoadResult struct {
	Tasks []service.Task
	Err   error
}

// CreateResult is the outcome of a create call.
type CreateResult struct {
	Text string
	Task service.Task
	Err  error
}

// Options tunes composer behavior.
type Options struct {
	// SyncDeletes marks removals as needing a remote delete.
	SyncDeletes bool
}

// Composer owns a session's task list and orchestrates load, add and
// remove against the remote store.
type Composer struct {
	svc     service.Service
	list    *tasklist.List
	log     zerolog.Logger
	opts    Options
	loaded  bool
	lastErr error
}

// New returns a composer with an empty list.
func New(svc service.Service, logger zerolog.Logger, opts Options) *Composer {
	return &Composer{
		svc:  svc,
		list: tasklist.New(),
		log:  logger.With().Str("component", "composer").Logger(),
		opts: opts,
	}
}

// Fetch reads every task from the store.
func (c *Composer) Fetch(ctx context.Context) LoadResult {
	c.log.Debug().Msg("fetching tasks")
	tasks, err := c.svc.ListTasks(ctx)
	return LoadResult{Tasks: tasks, Err: err}
}

// Create stores a new task. Blank text is rejected before any request.
func (c *Composer) Create(ctx context.Context, text string) CreateResult {
	if strings.TrimSpace(text) == "" {
		return CreateResult{Text: text, Err: service.ErrEmptyTask}
	}
	task, err := c.svc.CreateTask(ctx, text)
	return CreateResult{Text: text, Task: task, Err: err}
}

// DeleteRemote deletes a record from the store.
func (c *Composer) DeleteRemote(ctx context.Context, id string) error {
	return c.svc.DeleteTask(ctx, id)
}

// Apply folds an I/O result into the list. It returns the result's error,
// which has already been logged and recorded as LastErr.
func (c *Composer) Apply(result any) error {
	switch r := result.(type) {
	case LoadResult:
		c.loaded = true
		if r.Err != nil {
			c.log.Error().Err(r.Err).Msg("error fetching tasks")
			return c.fail(r.Err)
		}
		tasks := c.keepUnfetched(r.Tasks)
		c.list.ReplaceAll(tasks)
		c.log.Info().Int("count", len(tasks)).Msg("tasks loaded")
		c.lastErr = nil
		return nil

	case CreateResult:
		if r.Err != nil {
			c.log.Error().Err(r.Err).Str("task", r.Text).Msg("failed to add task")
			return c.fail(r.Err)
		}
		c.list.Prepend(r.Task)
		c.log.Info().Str("id", r.Task.ID).Msg("task added")
		c.lastErr = nil
		return nil

	default:
		return fmt.Errorf("unexpected result %T", result)
	}
}

// Remove drops the task at position from the list. When id is non-empty
// and the task at position has a different ID, nothing is removed and
// ErrStale is returned. The returned bool reports whether the caller
// should also delete the record remotely.
func (c *Composer) Remove(position int, id string) (service.Task, bool, error) {
	if id != "" {
		current, ok := c.list.At(position)
		if !ok || current.ID != id {
			c.log.Warn().Int("position", position).Str("id", id).Msg("stale removal rejected")
			return service.Task{}, false, c.fail(ErrStale)
		}
	}

	removed, err := c.list.RemoveAt(position)
	if err != nil {
		return service.Task{}, false, c.fail(err)
	}

	c.log.Info().Int("position", position).Str("id", removed.ID).Msg("task removed")
	c.lastErr = nil
	return removed, c.opts.SyncDeletes && removed.ID != "", nil
}

// Tasks returns a copy of the current list.
func (c *Composer) Tasks() []service.Task {
	return c.list.Tasks()
}

// Len returns the number of tasks in the list.
func (c *Composer) Len() int {
	return c.list.Len()
}

// Loaded reports whether the initial fetch has been applied.
func (c *Composer) Loaded() bool {
	return c.loaded
}

// LastErr returns the error from the most recent operation, if it failed.
func (c *Composer) LastErr() error {
	return c.lastErr
}

// ClearErr forgets the last error.
func (c *Composer) ClearErr() {
	c.lastErr = nil
}

// SyncDeletes reports whether removals are propagated to the store.
func (c *Composer) SyncDeletes() bool {
	return c.opts.SyncDeletes
}

// keepUnfetched puts tasks added before the fetch completed, and missing
// from its result, ahead of the fetched ones.
func (c *Composer) keepUnfetched(fetched []service.Task) []service.Task {
	if c.list.Len() == 0 {
		return fetched
	}

	seen := make(map[string]bool, len(fetched))
	for _, t := range fetched {
		seen[t.ID] = true
	}

	var merged []service.Task
	for _, t := range c.list.Tasks() {
		if !seen[t.ID] {
			merged = append(merged, t)
		}
	}
	return append(merged, fetched...)
}

func (c *Composer) fail(err error) error {
	c.lastErr = err
	return err
}
