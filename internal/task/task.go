// Package task holds the task model, its validation rules and the stores that keep tasks.
package task

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the allowed priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the allowed priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the allowed statuses in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the allowed statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work.
type Task struct {
	ID          string    `json:"id"          yaml:"id"`
	Title       string    `json:"title"       yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Priority    Priority  `json:"priority"    yaml:"priority"`
	Status      Status    `json:"status"      yaml:"status"`
	DueDate     string    `json:"dueDate"     yaml:"due_date"`
	CreatedAt   time.Time `json:"createdAt"   yaml:"created_at"`
	Tags        []string  `json:"tags"        yaml:"tags"`
	AssignedTo  string    `json:"assignedTo"  yaml:"assigned_to"`
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	out := t
	out.Tags = append([]string{}, t.Tags...)
	return out
}

// Draft carries the client-settable fields of a new task.
type Draft struct {
	Title       string   `json:"title"       validate:"notblank"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"    validate:"oneof=low medium high"`
	Status      Status   `json:"status"      validate:"oneof=todo in-progress done"`
	DueDate     string   `json:"dueDate"     validate:"required,duedate"`
	Tags        []string `json:"tags"`
	AssignedTo  string   `json:"assignedTo"`
}

// Normalize trims the free-text fields of d.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.AssignedTo = strings.TrimSpace(d.AssignedTo)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

// Patch is a partial update. Nil fields are left unchanged.
// The id and creation time are not part of the type and can never be patched.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil &&
		p.DueDate == nil && p.Tags == nil && p.AssignedTo == nil
}

// Apply merges the present fields of p into t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = strings.TrimSpace(*p.DueDate)
	}
	if p.Tags != nil {
		if *p.Tags == nil {
			t.Tags = []string{}
		} else {
			t.Tags = append([]string{}, (*p.Tags)...)
		}
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
}

// PatchFromDraft builds a patch that overwrites every client-settable field with d.
func PatchFromDraft(d Draft) Patch {
	tags := append([]string{}, d.Tags...)
	return Patch{
		Title:       &d.Title,
		Description: &d.Description,
		Priority:    &d.Priority,
		Status:      &d.Status,
		DueDate:     &d.DueDate,
		Tags:        &tags,
		AssignedTo:  &d.AssignedTo,
	}
}
