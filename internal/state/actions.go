package state

import (
	"github.com/metalagman/taskdeck/internal/task"
	"github.com/metalagman/taskdeck/internal/view"
)

// ReplaceAll swaps the cached collection.
func (s *Store) ReplaceAll(tasks []task.Task) {
	s.update(func() { s.replaceLocked(tasks) })
}

// Prepend puts t in front of the cached collection.
func (s *Store) Prepend(t task.Task) {
	s.update(func() { s.prependLocked(t) })
}

// MergeUpdate replaces the cached task with the same id as t.
func (s *Store) MergeUpdate(t task.Task) {
	s.update(func() { s.mergeLocked(t) })
}

// RemoveByID drops the cached task with id and clears it from the selection.
func (s *Store) RemoveByID(id string) {
	s.update(func() { s.removeLocked(id) })
}

// Select marks the task with id as selected. An empty id clears the selection.
func (s *Store) Select(id string) {
	s.update(func() { s.selected = id })
}

// SetFilters shallow-merges p into the active filters.
func (s *Store) SetFilters(p view.FilterPatch) {
	s.update(func() { s.filters = s.filters.Merge(p) })
}

// ClearFilters restores the default filters.
func (s *Store) ClearFilters() {
	s.update(func() { s.filters = view.DefaultFilters() })
}

func (s *Store) replaceLocked(tasks []task.Task) {
	s.tasks = cloneTasks(tasks)
	s.revision++
}

func (s *Store) prependLocked(t task.Task) {
	s.tasks = append([]task.Task{t.Clone()}, s.tasks...)
	s.revision++
}

// The cached slice is never written in place: View hands it to the selector
// outside the lock.
func (s *Store) mergeLocked(t task.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			next := append([]task.Task{}, s.tasks...)
			next[i] = t.Clone()
			s.tasks = next
			s.revision++
			return
		}
	}
}

func (s *Store) removeLocked(id string) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			s.revision++
			break
		}
	}
	if s.selected == id {
		s.selected = ""
	}
}
