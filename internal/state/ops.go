package state

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/metalagman/taskdeck/internal/task"
)

// begin marks a new request of kind op as loading and returns its sequence.
func (s *Store) begin(op Op) uint64 {
	var seq uint64
	s.update(func() {
		s.seq++
		seq = s.seq
		s.inflight++
		s.ops[op] = OpState{Status: StatusLoading, seq: seq}
	})
	return seq
}

// finish settles request seq. The per-kind status only moves when seq is
// still the newest request of that kind, so a slow earlier request cannot
// overwrite the outcome of a later one.
func (s *Store) finish(op Op, seq uint64, err error, apply func(newest bool)) {
	s.update(func() {
		s.inflight--
		newest := s.ops[op].seq <= seq
		if err == nil && apply != nil {
			apply(newest)
		}
		st := OpState{Status: StatusSucceeded, seq: seq}
		if err != nil {
			st = OpState{Status: StatusFailed, Err: err.Error(), seq: seq}
			s.lastErr = st.Err
		}
		if newest {
			s.ops[op] = st
		}
		s.last = st.Status
	})
	if err != nil {
		log.Debug().Err(err).Str("op", string(op)).Uint64("seq", seq).Msg("task request failed")
	}
}

// Load fetches the tasks matching q and replaces the cache with them.
// A load that settles after a newer one started is discarded.
func (s *Store) Load(ctx context.Context, q task.Query) error {
	seq := s.begin(OpLoad)
	tasks, err := s.backend.List(ctx, q)
	s.finish(OpLoad, seq, err, func(newest bool) {
		if newest {
			s.replaceLocked(tasks)
		}
	})
	return err
}

// Create stores d through the backend and prepends the returned task.
// The cache is untouched until the backend confirms.
func (s *Store) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	seq := s.begin(OpCreate)
	created, err := s.backend.Create(ctx, d)
	s.finish(OpCreate, seq, err, func(bool) { s.prependLocked(created) })
	return created, err
}

// Edit patches a task through the backend and merges the returned record.
func (s *Store) Edit(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	seq := s.begin(OpEdit)
	updated, err := s.backend.Update(ctx, id, p)
	s.finish(OpEdit, seq, err, func(bool) { s.mergeLocked(updated) })
	return updated, err
}

// Remove deletes a task through the backend and drops it from the cache.
func (s *Store) Remove(ctx context.Context, id string) error {
	seq := s.begin(OpRemove)
	err := s.backend.Delete(ctx, id)
	s.finish(OpRemove, seq, err, func(bool) { s.removeLocked(id) })
	return err
}
