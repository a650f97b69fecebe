// Package state is the client-side store: the task cache, filters, selection
// and the status of requests against the task backend.
package state

import (
	"context"
	"sync"

	"github.com/metalagman/taskdeck/internal/task"
	"github.com/metalagman/taskdeck/internal/view"
)

// Backend is the task service the store synchronizes with.
type Backend interface {
	List(ctx context.Context, q task.Query) ([]task.Task, error)
	Create(ctx context.Context, d task.Draft) (task.Task, error)
	Update(ctx context.Context, id string, p task.Patch) (task.Task, error)
	Delete(ctx context.Context, id string) error
}

// Op names an asynchronous operation kind.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpEdit   Op = "edit"
	OpRemove Op = "remove"
)

// Status is the outcome of an operation.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// OpState is the status of the newest request of one operation kind.
type OpState struct {
	Status Status
	Err    string
	seq    uint64
}

// Snapshot is a copy of the store state.
type Snapshot struct {
	Tasks    []task.Task
	Filters  view.Filters
	Selected *task.Task
	Status   Status
	Err      string
	Ops      map[Op]OpState
	Revision uint64
}

// Store holds the client state. All mutation goes through its methods.
type Store struct {
	backend Backend

	mu        sync.RWMutex
	tasks     []task.Task
	revision  uint64
	filters   view.Filters
	selected  string
	ops       map[Op]OpState
	seq       uint64
	inflight  int
	last      Status
	lastErr   string
	listeners map[int]func()
	nextLis   int

	selector view.Selector
}

// New creates an empty store over backend.
func New(backend Backend, opts view.Options) *Store {
	s := &Store{
		backend:   backend,
		filters:   view.DefaultFilters(),
		ops:       map[Op]OpState{},
		last:      StatusIdle,
		listeners: map[int]func(){},
	}
	s.selector.Options = opts
	return s
}

// Subscribe registers fn to run after every state change and returns a
// function that removes it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextLis
	s.nextLis++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// update runs fn under the write lock and notifies listeners afterwards.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify()
}

// Tasks returns a copy of the cached collection.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// Filters returns the active filters.
func (s *Store) Filters() view.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Selected returns the selected task, if it is still cached.
func (s *Store) Selected() (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedLocked()
}

func (s *Store) selectedLocked() (task.Task, bool) {
	if s.selected == "" {
		return task.Task{}, false
	}
	for _, t := range s.tasks {
		if t.ID == s.selected {
			return t.Clone(), true
		}
	}
	return task.Task{}, false
}

// Op returns the state of the newest request of kind op.
func (s *Store) Op(op Op) OpState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.ops[op]
	if !ok {
		return OpState{Status: StatusIdle}
	}
	return st
}

// Status is loading while any request is in flight, otherwise the outcome of
// the most recently settled request.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inflight > 0 {
		return StatusLoading
	}
	return s.last
}

// Err returns the message of the most recent failure.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// View returns the derived list for the current tasks and filters.
func (s *Store) View() view.Result {
	s.mu.RLock()
	rev, tasks, f := s.revision, s.tasks, s.filters
	s.mu.RUnlock()
	return s.selector.Select(rev, tasks, f)
}

// Snapshot copies the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ops := make(map[Op]OpState, len(s.ops))
	for k, v := range s.ops {
		ops[k] = v
	}
	snap := Snapshot{
		Tasks:    cloneTasks(s.tasks),
		Filters:  s.filters,
		Status:   s.last,
		Err:      s.lastErr,
		Ops:      ops,
		Revision: s.revision,
	}
	if s.inflight > 0 {
		snap.Status = StatusLoading
	}
	if t, ok := s.selectedLocked(); ok {
		snap.Selected = &t
	}
	return snap
}

func cloneTasks(in []task.Task) []task.Task {
	out := make([]task.Task, 0, len(in))
	for _, t := range in {
		out = append(out, t.Clone())
	}
	return out
}
