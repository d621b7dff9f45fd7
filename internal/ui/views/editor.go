package views

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/smarttask/internal/models"
	"github.com/tgienger/smarttask/internal/ui/keys"
	"github.com/tgienger/smarttask/internal/ui/styles"
)

// Editor form fields in tab order
const (
	fieldTitle = iota
	fieldDescription
	fieldDeadline
	fieldCategory
	fieldStatus
	fieldPriority
	fieldSave
	fieldCount
)

var (
	errTitleRequired = errors.New("title is required")
	errDeadlineInput = errors.New("invalid deadline, use YYYY-MM-DD HH:MM")
)

// EditorResult tells the owner what the last key did to the form
type EditorResult int

const (
	EditorContinue EditorResult = iota
	EditorCancel
	EditorSubmit
)

// TaskEditor is the add/edit form for a single task
type TaskEditor struct {
	styles *styles.Styles
	keys   keys.KeyMap
	width  int

	taskID string // empty when creating

	title       textinput.Model
	description textarea.Model
	deadline    textinput.Model
	category    textinput.Model
	status      models.Status
	priority    models.Priority

	focus int
	err   error
}

// NewTaskEditor creates an empty editor
func NewTaskEditor(s *styles.Styles) *TaskEditor {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	deadline := textinput.New()
	deadline.Placeholder = "YYYY-MM-DD HH:MM"
	// room for surrounding whitespace, which parse trims
	deadline.CharLimit = len(models.DisplayLayout) + 8

	category := textinput.New()
	category.Placeholder = "Category"
	category.CharLimit = 100

	return &TaskEditor{
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		title:       title,
		description: desc,
		deadline:    deadline,
		category:    category,
		status:      models.StatusNotStarted,
		priority:    models.PriorityMedium,
	}
}

// New resets the form for a new task in category
func (e *TaskEditor) New(category string) tea.Cmd {
	e.taskID = ""
	e.title.Reset()
	e.description.Reset()
	e.deadline.Reset()
	e.category.SetValue(category)
	e.status = models.StatusNotStarted
	e.priority = models.PriorityMedium
	e.err = nil
	e.focus = fieldTitle
	e.updateFocus()
	return textinput.Blink
}

// Edit loads task into the form
func (e *TaskEditor) Edit(task models.Task) tea.Cmd {
	e.taskID = task.ID
	e.title.SetValue(task.Title)
	e.description.SetValue(task.Description)
	e.deadline.SetValue(task.Deadline.Local().Format(models.DisplayLayout))
	e.category.SetValue(task.Category)
	e.status = task.Status
	e.priority = task.Priority
	e.err = nil
	e.focus = fieldTitle
	e.updateFocus()
	return textinput.Blink
}

// TaskID returns the id of the task being edited, empty for a new task
func (e *TaskEditor) TaskID() string {
	return e.taskID
}

// SetError shows err under the form
func (e *TaskEditor) SetError(err error) {
	e.err = err
}

// SetWidth resizes the multi-line input
func (e *TaskEditor) SetWidth(width int) {
	e.width = width
	e.description.SetWidth(clamp(styles.ContentWidth(width)-10, 20, 50))
}

// Update handles a key press
func (e *TaskEditor) Update(msg tea.KeyMsg) (EditorResult, tea.Cmd) {
	switch {
	case key.Matches(msg, e.keys.Back):
		return EditorCancel, nil

	case key.Matches(msg, e.keys.Save):
		return e.submit()

	case key.Matches(msg, e.keys.Tab):
		e.focus = (e.focus + 1) % fieldCount
		e.updateFocus()
		return EditorContinue, nil

	case msg.String() == "shift+tab":
		e.focus = (e.focus + fieldCount - 1) % fieldCount
		e.updateFocus()
		return EditorContinue, nil

	case key.Matches(msg, e.keys.Enter):
		switch e.focus {
		case fieldSave:
			return e.submit()
		case fieldDescription:
			// newline
		default:
			e.focus++
			e.updateFocus()
			return EditorContinue, nil
		}

	case msg.String() == "left" || msg.String() == "right":
		dir := 1
		if msg.String() == "left" {
			dir = -1
		}
		switch e.focus {
		case fieldStatus:
			e.status = cycle(models.Statuses, e.status, dir)
			return EditorContinue, nil
		case fieldPriority:
			e.priority = cycle(models.Priorities, e.priority, dir)
			return EditorContinue, nil
		}
	}

	var cmd tea.Cmd
	switch e.focus {
	case fieldTitle:
		e.title, cmd = e.title.Update(msg)
	case fieldDescription:
		e.description, cmd = e.description.Update(msg)
	case fieldDeadline:
		e.deadline, cmd = e.deadline.Update(msg)
	case fieldCategory:
		e.category, cmd = e.category.Update(msg)
	}
	return EditorContinue, cmd
}

func (e *TaskEditor) submit() (EditorResult, tea.Cmd) {
	if _, err := e.parse(); err != nil {
		e.err = err
		return EditorContinue, nil
	}
	e.err = nil
	return EditorSubmit, nil
}

type editorValues struct {
	title, description, category string
	deadline                     time.Time
}

func (e *TaskEditor) parse() (editorValues, error) {
	vals := editorValues{
		title:       strings.TrimSpace(e.title.Value()),
		description: strings.TrimSpace(e.description.Value()),
		category:    strings.TrimSpace(e.category.Value()),
	}
	if vals.title == "" {
		return vals, errTitleRequired
	}
	d, err := time.ParseInLocation(models.DisplayLayout, strings.TrimSpace(e.deadline.Value()), time.Local)
	if err != nil {
		return vals, errDeadlineInput
	}
	vals.deadline = d
	return vals, nil
}

// Task builds a new task from the form
func (e *TaskEditor) Task() (*models.Task, error) {
	vals, err := e.parse()
	if err != nil {
		return nil, err
	}
	return models.New(vals.title, vals.description, vals.deadline, vals.category, e.status,
		models.WithPriority(e.priority))
}

// Patch builds a patch carrying every form field
func (e *TaskEditor) Patch() (models.Patch, error) {
	vals, err := e.parse()
	if err != nil {
		return models.Patch{}, err
	}
	status, priority := e.status, e.priority
	return models.Patch{
		Title:       &vals.title,
		Description: &vals.description,
		Deadline:    &vals.deadline,
		Category:    &vals.category,
		Status:      &status,
		Priority:    &priority,
	}, nil
}

func (e *TaskEditor) updateFocus() {
	e.title.Blur()
	e.description.Blur()
	e.deadline.Blur()
	e.category.Blur()

	switch e.focus {
	case fieldTitle:
		e.title.Focus()
	case fieldDescription:
		e.description.Focus()
	case fieldDeadline:
		e.deadline.Focus()
	case fieldCategory:
		e.category.Focus()
	}
}

// cycle steps through values, starting from the first when cur is unknown
func cycle[T comparable](values []T, cur T, dir int) T {
	i := slices.Index(values, cur)
	if i < 0 {
		return values[0]
	}
	return values[(i+dir+len(values))%len(values)]
}

// View renders the form
func (e *TaskEditor) View(height int) string {
	s := e.styles
	contentWidth := styles.ContentWidth(e.width)

	formTitle := "Add Task"
	if e.taskID != "" {
		formTitle = "Edit Task"
	}

	fieldStyle := func(f int) lipgloss.Style {
		if e.focus == f {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if e.focus == fieldSave {
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render(formTitle),
		"",
		s.Label.Render("Title:"),
		fieldStyle(fieldTitle).Width(inputWidth).Render(e.title.View()),
		s.Label.Render("Description:"),
		fieldStyle(fieldDescription).Render(e.description.View()),
		s.Label.Render("Deadline (YYYY-MM-DD HH:MM):"),
		fieldStyle(fieldDeadline).Width(inputWidth).Render(e.deadline.View()),
		s.Label.Render("Category:"),
		fieldStyle(fieldCategory).Width(inputWidth).Render(e.category.View()),
		s.Label.Render("Status:"),
		fieldStyle(fieldStatus).Width(inputWidth).Render("◀ " + string(e.status) + " ▶"),
		s.Label.Render("Priority:"),
		fieldStyle(fieldPriority).Width(inputWidth).Render("◀ " + string(e.priority) + " ▶"),
		"",
		btnStyle.Render(" Save "),
	}
	if e.err != nil {
		rows = append(rows, "", s.Error.Render(e.err.Error()))
	}
	rows = append(rows, "",
		s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, e.width, height)
}
