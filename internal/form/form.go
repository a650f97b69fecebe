// Package form keeps the editable values of a task form apart from the
// client store until they are submitted.
package form

import (
	"fmt"
	"maps"

	"github.com/metalagman/taskdeck/internal/task"
)

// Field names a form input. The names match the task JSON fields.
type Field string

const (
	Title       Field = task.FieldTitle
	Description Field = task.FieldDescription
	Priority    Field = task.FieldPriority
	Status      Field = task.FieldStatus
	DueDate     Field = task.FieldDueDate
	Tags        Field = task.FieldTags
	AssignedTo  Field = task.FieldAssignedTo
)

// Fields lists every form field in display order.
var Fields = []Field{Title, Description, Priority, Status, DueDate, Tags, AssignedTo}

// Values holds the raw text of every field. Tags are comma-separated.
type Values struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	Tags        string
	AssignedTo  string
}

func (v *Values) ptr(f Field) (*string, bool) {
	switch f {
	case Title:
		return &v.Title, true
	case Description:
		return &v.Description, true
	case Priority:
		return &v.Priority, true
	case Status:
		return &v.Status, true
	case DueDate:
		return &v.DueDate, true
	case Tags:
		return &v.Tags, true
	case AssignedTo:
		return &v.AssignedTo, true
	}
	return nil, false
}

// Form is the state of one create or edit form.
type Form struct {
	editID  string
	initial Values
	values  Values
	errors  map[Field]string
}

// New starts a form from existing, or from blank defaults when existing is nil.
func New(existing *task.Task) *Form {
	start := Values{
		Priority: string(task.PriorityMedium),
		Status:   string(task.StatusTodo),
	}
	f := &Form{}
	if existing != nil {
		f.editID = existing.ID
		start = Values{
			Title:       existing.Title,
			Description: existing.Description,
			Priority:    string(existing.Priority),
			Status:      string(existing.Status),
			DueDate:     existing.DueDate,
			Tags:        task.FormatTags(existing.Tags),
			AssignedTo:  existing.AssignedTo,
		}
	}
	f.initial = start
	f.values = start
	f.errors = map[Field]string{}
	return f
}

// EditID is the id of the task being edited, empty in create mode.
func (f *Form) EditID() string { return f.editID }

// Editing reports whether the form edits an existing task.
func (f *Form) Editing() bool { return f.editID != "" }

// Values returns the current field values.
func (f *Form) Values() Values { return f.values }

// Value returns the current value of one field.
func (f *Form) Value(field Field) string {
	p, ok := f.values.ptr(field)
	if !ok {
		return ""
	}
	return *p
}

// SetField updates one field and clears its recorded error.
func (f *Form) SetField(field Field, value string) error {
	p, ok := f.values.ptr(field)
	if !ok {
		return fmt.Errorf("unknown form field %q", field)
	}
	*p = value
	delete(f.errors, field)
	return nil
}

// Errors returns a copy of the per-field error messages.
func (f *Form) Errors() map[Field]string {
	return maps.Clone(f.errors)
}

// Error returns the recorded error of one field.
func (f *Form) Error(field Field) string {
	return f.errors[field]
}

// Dirty reports whether any value differs from the initial snapshot.
func (f *Form) Dirty() bool {
	return f.values != f.initial
}

// Draft builds the trimmed record the current values describe.
func (f *Form) Draft() task.Draft {
	v := f.values
	return task.Draft{
		Title:       v.Title,
		Description: v.Description,
		Priority:    task.Priority(v.Priority),
		Status:      task.Status(v.Status),
		DueDate:     v.DueDate,
		Tags:        task.ParseTags(v.Tags),
		AssignedTo:  v.AssignedTo,
	}.Normalize()
}

// Validate recomputes every field error and reports whether the form is valid.
func (f *Form) Validate() bool {
	f.errors = map[Field]string{}
	err := f.Draft().Validate()
	if err == nil {
		return true
	}
	if verr, ok := task.AsValidationError(err); ok {
		for name, msg := range verr.Fields {
			f.errors[Field(name)] = msg
		}
		return false
	}
	f.errors[Title] = err.Error()
	return false
}

// Submit validates the form and, when valid, passes the built record to fn.
// It reports whether fn was called; the error is whatever fn returned.
func (f *Form) Submit(fn func(task.Draft) error) (bool, error) {
	if !f.Validate() {
		return false, nil
	}
	return true, fn(f.Draft())
}

// Patch is the full update an edit form submits.
func (f *Form) Patch() task.Patch {
	return task.PatchFromDraft(f.Draft())
}

// Reset restores the initial values and clears every error.
func (f *Form) Reset() {
	f.values = f.initial
	f.errors = map[Field]string{}
}
