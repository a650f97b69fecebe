package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/metalagman/taskdeck/internal/form"
	"github.com/metalagman/taskdeck/internal/task"
)

var fieldLabels = map[form.Field]string{
	form.Title:       "Title",
	form.Description: "Description",
	form.Priority:    "Priority",
	form.Status:      "Status",
	form.DueDate:     "Due date",
	form.Tags:        "Tags",
	form.AssignedTo:  "Assigned to",
}

// editor binds one text input per form field to a form.Form.
type editor struct {
	form   *form.Form
	inputs []textinput.Model
	focus  int
	keys   formKeyMap
}

func newEditor(existing *task.Task) *editor {
	f := form.New(existing)
	e := &editor{form: f, keys: defaultFormKeyMap()}
	for _, field := range form.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		in.Width = 48
		switch field {
		case form.DueDate:
			in.Placeholder = "YYYY-MM-DD"
		case form.Tags:
			in.Placeholder = "comma, separated"
		}
		in.SetValue(f.Value(field))
		e.inputs = append(e.inputs, in)
	}
	e.inputs[0].Focus()
	return e
}

func (e *editor) field() form.Field { return form.Fields[e.focus] }

func (e *editor) setFocus(i int) {
	n := len(e.inputs)
	i = ((i % n) + n) % n
	e.inputs[e.focus].Blur()
	e.focus = i
	e.inputs[e.focus].Focus()
}

// cycle steps enum fields through their allowed values.
func (e *editor) cycle(dir int) {
	var options []string
	switch e.field() {
	case form.Priority:
		for _, p := range task.Priorities {
			options = append(options, string(p))
		}
	case form.Status:
		for _, s := range task.Statuses {
			options = append(options, string(s))
		}
	default:
		return
	}
	i := slices.Index(options, e.inputs[e.focus].Value())
	i = ((i+dir)%len(options) + len(options)) % len(options)
	e.set(options[i])
}

func (e *editor) set(value string) {
	e.inputs[e.focus].SetValue(value)
	_ = e.form.SetField(e.field(), value)
}

func (e *editor) reset() {
	e.form.Reset()
	for i, field := range form.Fields {
		e.inputs[i].SetValue(e.form.Value(field))
	}
}

// update handles a key press. submit reports that the user asked to save.
func (e *editor) update(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	switch {
	case key.Matches(msg, e.keys.Submit):
		return nil, true
	case key.Matches(msg, e.keys.Next):
		e.setFocus(e.focus + 1)
		return nil, false
	case key.Matches(msg, e.keys.Prev):
		e.setFocus(e.focus - 1)
		return nil, false
	case key.Matches(msg, e.keys.Cycle):
		dir := 1
		if strings.HasSuffix(msg.String(), "left") {
			dir = -1
		}
		e.cycle(dir)
		return nil, false
	case key.Matches(msg, e.keys.Reset):
		e.reset()
		return nil, false
	}
	before := e.inputs[e.focus].Value()
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	if after := e.inputs[e.focus].Value(); after != before {
		_ = e.form.SetField(e.field(), after)
	}
	return cmd, false
}

// focusFirstError moves focus to the first invalid field.
func (e *editor) focusFirstError() {
	for i, field := range form.Fields {
		if e.form.Error(field) != "" {
			e.setFocus(i)
			return
		}
	}
}

func (e *editor) view(st Styles) string {
	var b strings.Builder
	title := "New task"
	if e.form.Editing() {
		title = "Edit task"
	}
	b.WriteString(st.Title.Render(title))
	b.WriteString("\n\n")
	for i, field := range form.Fields {
		label := st.Label.Render(fieldLabels[field])
		if i == e.focus {
			label = st.Focused.Render(fieldLabels[field])
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(e.inputs[i].View())
		b.WriteString("\n")
		if msg := e.form.Error(field); msg != "" {
			b.WriteString(st.Label.Render(""))
			b.WriteString(" ")
			b.WriteString(st.Error.Render(msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}
