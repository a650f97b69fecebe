// Package tui is the terminal front end: a paginated task list with filters,
// a create/edit form and a details pane, all driven by the client store.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/metalagman/taskdeck/internal/state"
	"github.com/metalagman/taskdeck/internal/task"
	"github.com/metalagman/taskdeck/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirm
	modeDetail
)

// Options configures the terminal UI.
type Options struct {
	PageSize int
	Theme    string
}

type loadedMsg struct{ err error }

type savedMsg struct {
	created bool
	task    task.Task
	err     error
}

type removedMsg struct {
	id  string
	err error
}

// Model is the bubbletea model of the task list.
type Model struct {
	ctx      context.Context
	store    *state.Store
	pager    *view.Paginator
	keys     KeyMap
	help     help.Model
	styles   Styles
	renderer *glamour.TermRenderer
	theme    string

	mode   mode
	cursor int
	search textinput.Model
	editor *editor
	notice string

	width  int
	height int
}

// New creates the model. The store is loaded by Init.
func New(ctx context.Context, store *state.Store, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "title or description"
	search.Prompt = "/ "
	search.CharLimit = 100
	search.SetValue(store.Filters().Search)

	m := Model{
		ctx:    ctx,
		store:  store,
		pager:  view.NewPaginator(opts.PageSize),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: NewStyles(),
		theme:  opts.Theme,
		search: search,
	}
	r, err := newRenderer(opts.Theme, 0)
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer unavailable")
	}
	m.renderer = r
	m.sync()
	return m
}

// Init loads the tasks.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return loadedMsg{err: store.Load(ctx, task.Query{})}
	}
}

func (m Model) save(e *editor) tea.Cmd {
	ctx, store := m.ctx, m.store
	if e.form.Editing() {
		id, patch := e.form.EditID(), e.form.Patch()
		return func() tea.Msg {
			t, err := store.Edit(ctx, id, patch)
			return savedMsg{task: t, err: err}
		}
	}
	draft := e.form.Draft()
	return func() tea.Msg {
		t, err := store.Create(ctx, draft)
		return savedMsg{created: true, task: t, err: err}
	}
}

func (m Model) remove(id string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return removedMsg{id: id, err: store.Remove(ctx, id)}
	}
}

// visible returns the derived list and the current page of it.
func (m Model) visible() (view.Result, []task.Task) {
	res := m.store.View()
	return res, view.PageItems(m.pager, res.Tasks)
}

// sync clamps page and cursor to the derived list and selects the task under
// the cursor.
func (m *Model) sync() {
	res := m.store.View()
	m.pager.SetTotal(len(res.Tasks))
	m.pager.GoTo(m.pager.Page())
	page := view.PageItems(m.pager, res.Tasks)
	if m.cursor >= len(page) {
		m.cursor = len(page) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	id := ""
	if len(page) > 0 {
		id = page[m.cursor].ID
	}
	if sel, ok := m.store.Selected(); !ok || sel.ID != id {
		m.store.Select(id)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if r, err := newRenderer(m.theme, msg.Width-4); err == nil {
			m.renderer = r
		}
		return m, nil
	case loadedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("load tasks")
		}
		m.sync()
		return m, nil
	case savedMsg:
		return m.onSaved(msg)
	case removedMsg:
		if msg.err == nil {
			m.notice = "Task deleted"
			res := m.store.View()
			m.pager.StepBackIfEmpty(len(res.Tasks))
		}
		m.sync()
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) onSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Keep the form open so the input is not lost.
		return m, nil
	}
	m.editor = nil
	m.mode = modeList
	if msg.created {
		m.notice = "Task created"
		m.pager.GoTo(1)
		m.cursor = 0
	} else {
		m.notice = "Task updated"
	}
	m.sync()
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	_, page := m.visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else if m.pager.HasPrev() {
			m.pager.Prev()
			m.cursor = m.pager.PageSize() - 1
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(page)-1 {
			m.cursor++
		} else if m.pager.HasNext() {
			m.pager.Next()
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.PrevPage):
		m.pager.Prev()
	case key.Matches(msg, m.keys.NextPage):
		m.pager.Next()
	case key.Matches(msg, m.keys.Open):
		if _, ok := m.store.Selected(); ok {
			m.mode = modeDetail
		}
	case key.Matches(msg, m.keys.New):
		m.editor = newEditor(nil)
		m.mode = modeForm
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Edit):
		if sel, ok := m.store.Selected(); ok {
			m.editor = newEditor(&sel)
			m.mode = modeForm
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.store.Selected(); ok {
			m.mode = modeConfirm
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Status):
		next := cycleFilter(m.store.Filters().Status, statusOptions())
		m.store.SetFilters(view.FilterPatch{Status: &next})
		m.resetPage()
	case key.Matches(msg, m.keys.Priority):
		next := cycleFilter(m.store.Filters().Priority, priorityOptions())
		m.store.SetFilters(view.FilterPatch{Priority: &next})
		m.resetPage()
	case key.Matches(msg, m.keys.Clear):
		m.store.ClearFilters()
		m.search.SetValue("")
		m.resetPage()
	case key.Matches(msg, m.keys.Reload):
		m.sync()
		return m, m.load()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.sync()
	return m, nil
}

func (m *Model) resetPage() {
	m.pager.GoTo(1)
	m.cursor = 0
}

// updateSearch filters locally on every keystroke.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.store.Filters().Search {
		m.store.SetFilters(view.FilterPatch{Search: &q})
		m.resetPage()
		m.sync()
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.editor.keys.Cancel) {
		m.editor = nil
		m.mode = modeList
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	cmd, submit := m.editor.update(msg)
	if !submit {
		return m, cmd
	}
	if !m.editor.form.Validate() {
		m.editor.focusFirstError()
		return m, nil
	}
	return m, m.save(m.editor)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch msg.String() {
	case "y", "Y":
		if sel, ok := m.store.Selected(); ok {
			return m, m.remove(sel.ID)
		}
	}
	m.notice = "Delete cancelled"
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Edit):
		if sel, ok := m.store.Selected(); ok {
			m.editor = newEditor(&sel)
			m.mode = modeForm
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Delete):
		m.mode = modeConfirm
		return m, nil
	}
	m.mode = modeList
	return m, nil
}

func statusOptions() []string {
	out := []string{task.All}
	for _, s := range task.Statuses {
		out = append(out, string(s))
	}
	return out
}

func priorityOptions() []string {
	out := []string{task.All}
	for _, p := range task.Priorities {
		out = append(out, string(p))
	}
	return out
}

func cycleFilter(current string, options []string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm()
	case modeDetail:
		if sel, ok := m.store.Selected(); ok {
			return m.renderTask(sel) + m.styles.Muted.Render("e edit • d delete • any key back") + "\n"
		}
	}
	return m.viewList()
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.editor.view(m.styles))
	if op := m.store.Op(saveOp(m.editor)); op.Status == state.StatusLoading {
		b.WriteString(m.styles.Muted.Render("saving…"))
		b.WriteString("\n")
	} else if op.Status == state.StatusFailed {
		b.WriteString(m.styles.Error.Render(op.Err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.editor.keys))
	return b.String()
}

func saveOp(e *editor) state.Op {
	if e.form.Editing() {
		return state.OpEdit
	}
	return state.OpCreate
}

func (m Model) viewList() string {
	st := m.styles
	res, page := m.visible()
	f := m.store.Filters()

	var b strings.Builder
	b.WriteString(st.Title.Render("taskdeck"))
	b.WriteString("  ")
	b.WriteString(st.Header.Render(fmt.Sprintf("status: %s  priority: %s", f.Status, f.Priority)))
	if res.Filtered {
		b.WriteString(st.Muted.Render("  (filtered)"))
	}
	b.WriteString("\n")
	if m.mode == modeSearch || f.Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.store.Status() == state.StatusLoading && len(res.Tasks) == 0:
		b.WriteString(st.Muted.Render("Loading tasks…"))
		b.WriteString("\n")
	case len(page) == 0 && res.Filtered:
		b.WriteString(st.Muted.Render("No tasks match the filters."))
		b.WriteString("\n")
	case len(page) == 0:
		b.WriteString(st.Muted.Render("No tasks yet. Press n to add one."))
		b.WriteString("\n")
	}
	for i, t := range page {
		b.WriteString(m.row(t, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(st.Muted.Render(fmt.Sprintf("Page %d of %d • %d of %d tasks",
		m.pager.Page(), m.pager.TotalPages(), len(res.Tasks), res.Total)))
	b.WriteString("\n")

	switch {
	case m.mode == modeConfirm:
		if sel, ok := m.store.Selected(); ok {
			b.WriteString(st.Error.Render(fmt.Sprintf("Delete %q? (y/n)", sel.Title)))
			b.WriteString("\n")
		}
	case m.store.Status() == state.StatusFailed:
		b.WriteString(st.Error.Render("Error: " + m.store.Err()))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(st.Success.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) row(t task.Task, selected bool) string {
	st := m.styles
	prio := st.Priority[string(t.Priority)].Render(fmt.Sprintf("%-6s", t.Priority))
	status := st.Status[string(t.Status)].Render(fmt.Sprintf("%-11s", t.Status))
	line := fmt.Sprintf("%s %s %s  %s", prio, status, t.DueDate, t.Title)
	if len(t.Tags) > 0 {
		line += st.Muted.Render("  [" + task.FormatTags(t.Tags) + "]")
	}
	if selected {
		return st.Cursor.Render("> ") + line
	}
	return st.Row.Render(line)
}

// Run starts the terminal UI and blocks until it exits.
func Run(ctx context.Context, store *state.Store, opts Options) error {
	p := tea.NewProgram(New(ctx, store, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
