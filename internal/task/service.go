package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service applies validation and server-assigned fields on top of a Repository.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a Service over repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the tasks matching q in store order.
func (s *Service) List(ctx context.Context, q Query) ([]Task, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return Filter(all, q), nil
}

// Get returns one task or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	return s.repo.Get(ctx, id)
}

// Create validates d, assigns id and creation time and stores the task.
func (s *Service) Create(ctx context.Context, d Draft) (Task, error) {
	if err := d.Validate(); err != nil {
		return Task{}, err
	}
	d = d.Normalize()
	t := Task{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Status:      d.Status,
		DueDate:     d.DueDate,
		CreatedAt:   s.now().UTC(),
		Tags:        append([]string{}, d.Tags...),
		AssignedTo:  d.AssignedTo,
	}
	if err := s.repo.Add(ctx, t); err != nil {
		return Task{}, fmt.Errorf("add task: %w", err)
	}
	return t, nil
}

// Update merges p into an existing task. Unknown ids fail with ErrNotFound
// before the patch is validated.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Task, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Task{}, err
	}
	if err := p.Validate(); err != nil {
		return Task{}, err
	}
	return s.repo.Update(ctx, id, p)
}

// Delete removes a task or fails with ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
