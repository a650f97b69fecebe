package task

import (
	"context"
	"sync"
)

// MemoryRepository is a Repository held entirely in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks []Task
}

// NewMemoryRepository creates a repository holding a copy of seed.
func NewMemoryRepository(seed []Task) *MemoryRepository {
	r := &MemoryRepository{tasks: make([]Task, 0, len(seed))}
	for _, t := range seed {
		r.tasks = append(r.tasks, t.Clone())
	}
	return r
}

func (r *MemoryRepository) All(_ context.Context) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Add(_ context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(r.tasks, t.Clone())
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, p Patch) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	p.Apply(&r.tasks[i])
	return r.tasks[i].Clone(), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return true, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	return r.tasks[i].Clone(), nil
}

func (r *MemoryRepository) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
