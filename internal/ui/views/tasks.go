package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/tgienger/smarttask/internal/db"
	"github.com/tgienger/smarttask/internal/models"
	"github.com/tgienger/smarttask/internal/tasks"
	"github.com/tgienger/smarttask/internal/ui/keys"
	"github.com/tgienger/smarttask/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusStatusFilter
	FocusSortButton
	FocusTaskList
	focusAreaCount
)

// TaskListView shows the tasks of one category, or all of them
type TaskListView struct {
	manager *tasks.Manager
	prefs   Preferences
	styles  *styles.Styles
	keys    keys.KeyMap
	editor  *TaskEditor

	category *string // nil = all categories
	tasks    []models.Task
	loaded   bool

	width  int
	height int

	// UI state
	focus        FocusArea
	cursor       int
	scrollY      int
	searchInput  textinput.Model
	statusFilter *models.Status // nil = all statuses
	sort         tasks.SortOrder
	progress     progress.Model

	editing          bool
	viewingTask      bool
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Status line, cleared on the next key press
	notice string
	err    error

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool

	now func() time.Time
}

// NewTaskListView creates a task list scoped to category (nil = all)
func NewTaskListView(manager *tasks.Manager, prefs Preferences, s *styles.Styles, category *string) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	sortOrder, err := tasks.ParseSortOrder(prefs.GetSettingOr(db.SettingSort, string(tasks.SortPriority)))
	if err != nil || sortOrder == tasks.SortNone {
		sortOrder = tasks.SortPriority
	}

	var statusFilter *models.Status
	if st, err := models.ParseStatus(prefs.GetSettingOr(db.SettingStatusFilter, "")); err == nil {
		statusFilter = &st
	}

	return &TaskListView{
		manager:      manager,
		prefs:        prefs,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		editor:       NewTaskEditor(s),
		category:     category,
		focus:        FocusTaskList,
		searchInput:  search,
		statusFilter: statusFilter,
		sort:         sortOrder,
		progress:     newProgressBar(s.Theme),
		now:          time.Now,
	}
}

func newProgressBar(t styles.Theme) progress.Model {
	return progress.New(
		progress.WithSolidFill(string(t.Success)),
		progress.WithoutPercentage(),
		progress.WithWidth(30),
	)
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks()
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

// query snapshots the current filters
func (v *TaskListView) query() tasks.Query {
	return tasks.Query{
		Status:   v.statusFilter,
		Category: v.category,
		Search:   strings.TrimSpace(v.searchInput.Value()),
		Sort:     v.sort,
	}
}

func (v *TaskListView) loadTasks() tea.Cmd {
	q := v.query()
	return func() tea.Msg {
		return tasksLoadedMsg{tasks: v.manager.Query(q)}
	}
}

// StartNew opens the editor for a new task
func (v *TaskListView) StartNew() tea.Cmd {
	v.editing = true
	category := ""
	if v.category != nil {
		category = *v.category
	}
	return v.editor.New(category)
}

// Restyle re-applies the shared styles after a theme change
func (v *TaskListView) Restyle() {
	width := v.progress.Width
	v.progress = newProgressBar(v.styles.Theme)
	v.progress.Width = width
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editor.SetWidth(v.width)
		v.progress.Width = clamp(contentWidth-20, 10, 50)
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.loaded = true
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		if v.viewingTask && len(v.tasks) == 0 {
			v.viewingTask = false
		}
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		v.notice = ""

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, v.loadTasks()
		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.cursor = 0
			v.scrollY = 0
			return v, tea.Batch(cmd, v.loadTasks())
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToCategories{} }

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, func() tea.Msg { return BackToCategories{} }
		case FocusStatusFilter:
			return v, v.cycleStatusFilter()
		case FocusSortButton:
			return v, v.toggleSort()
		case FocusTaskList:
			if len(v.tasks) > 0 {
				v.viewingTask = true
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		return v, v.StartNew()

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok {
			v.editing = true
			return v, v.editor.Edit(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		v.startDelete()
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		return v, v.setSelectedStatus(models.StatusCompleted)

	case key.Matches(msg, v.keys.InProgress):
		return v, v.setSelectedStatus(models.StatusInProgress)

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		return v, v.cycleStatusFilter()

	case key.Matches(msg, v.keys.Sort):
		return v, v.toggleSort()

	case key.Matches(msg, v.keys.Theme):
		return v, func() tea.Msg { return ToggleTheme{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.viewingTask = false
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok {
			v.viewingTask = false
			v.editing = true
			return v, v.editor.Edit(task)
		}
	case key.Matches(msg, v.keys.Delete):
		v.startDelete()
	case key.Matches(msg, v.keys.Complete):
		return v, v.setSelectedStatus(models.StatusCompleted)
	case key.Matches(msg, v.keys.InProgress):
		return v, v.setSelectedStatus(models.StatusInProgress)
	}
	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingTask = false
		if err := v.manager.Delete(v.deleteTargetID); err != nil {
			v.err = err
			return v, v.loadTasks()
		}
		v.err = nil
		v.notice = fmt.Sprintf("Task '%s' deleted.", v.deleteTargetName)
		return v, v.loadTasks()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := v.editor.Update(msg)
	switch result {
	case EditorCancel:
		v.editing = false
		return v, nil
	case EditorSubmit:
		return v, v.saveTask()
	}
	return v, cmd
}

// saveTask stores the editor content, keeping the form open on failure
func (v *TaskListView) saveTask() tea.Cmd {
	if id := v.editor.TaskID(); id != "" {
		patch, err := v.editor.Patch()
		if err != nil {
			v.editor.SetError(err)
			return nil
		}
		found, err := v.manager.Update(id, patch)
		switch {
		case err != nil:
			v.editor.SetError(err)
			return nil
		case !found:
			v.err = fmt.Errorf("task %s no longer exists", id)
		default:
			v.err = nil
		}
	} else {
		task, err := v.editor.Task()
		if err != nil {
			v.editor.SetError(err)
			return nil
		}
		if err := v.manager.Add(*task); err != nil {
			v.editor.SetError(err)
			return nil
		}
		v.err = nil
	}

	v.editing = false
	return v.loadTasks()
}

func (v *TaskListView) setSelectedStatus(status models.Status) tea.Cmd {
	task, ok := v.selected()
	if !ok {
		return nil
	}
	if _, err := v.manager.SetStatus(task.ID, status); err != nil {
		v.err = err
	} else {
		v.err = nil
	}
	return v.loadTasks()
}

func (v *TaskListView) startDelete() {
	if task, ok := v.selected(); ok {
		v.confirmingDelete = true
		v.deleteTargetID = task.ID
		v.deleteTargetName = task.Title
	}
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// cycleStatusFilter steps All -> NOT_STARTED -> IN_PROGRESS -> COMPLETED -> All
func (v *TaskListView) cycleStatusFilter() tea.Cmd {
	switch {
	case v.statusFilter == nil:
		st := models.Statuses[0]
		v.statusFilter = &st
	case *v.statusFilter == models.Statuses[len(models.Statuses)-1]:
		v.statusFilter = nil
	default:
		st := cycle(models.Statuses, *v.statusFilter, 1)
		v.statusFilter = &st
	}

	value := ""
	if v.statusFilter != nil {
		value = string(*v.statusFilter)
	}
	v.savePreference(db.SettingStatusFilter, value)
	v.cursor = 0
	v.scrollY = 0
	return v.loadTasks()
}

func (v *TaskListView) toggleSort() tea.Cmd {
	v.sort = v.sort.Next()
	v.savePreference(db.SettingSort, string(v.sort))
	return v.loadTasks()
}

func (v *TaskListView) savePreference(key, value string) {
	if err := v.prefs.SetSetting(key, value); err != nil {
		log.Warn("could not save preference", "key", key, "err", err)
	}
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + int(focusAreaCount)) % int(focusAreaCount))
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) visibleRows() int {
	return max(v.height-14, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// FormatRow renders the one-line summary shown in the list
func FormatRow(t models.Task) string {
	return fmt.Sprintf("%s - %s (%s)", t.Title, t.Deadline.Local().Format("2006-01-02"), t.Priority)
}

// rowStyle colours a row by state. Status wins over the deadline.
func rowStyle(s *styles.Styles, t models.Task, now time.Time) lipgloss.Style {
	switch {
	case t.Status == models.StatusCompleted:
		return s.TaskCompleted
	case t.Status == models.StatusInProgress:
		return s.TaskInProgress
	case t.IsOverdueAt(now):
		return s.TaskOverdue
	}
	return s.TaskItem
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.editor.View(v.height)
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(v.renderTaskList())
	b.WriteString("\n\n")

	b.WriteString(v.renderProgress())

	if line := v.renderStatusLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) title() string {
	if v.category == nil {
		return "All tasks"
	}
	if *v.category == "" {
		return "Uncategorized"
	}
	return *v.category
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 24)).Render(v.searchInput.View())

	filterStyle := s.Button
	if v.focus == FocusStatusFilter {
		filterStyle = s.ButtonFocused
	}
	filterLabel := "All"
	if v.statusFilter != nil {
		filterLabel = string(*v.statusFilter)
	}
	if !isNarrow {
		filterLabel = "Status: " + filterLabel
	}
	filterBtn := filterStyle.Render(filterLabel)

	sortStyle := s.Button
	if v.focus == FocusSortButton {
		sortStyle = s.ButtonFocused
	}
	sortBtn := sortStyle.Render("Sort: " + string(v.sort))

	var header string
	if isNarrow {
		// Narrow: stack vertically, no back button (esc still works)
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, filterBtn, sortBtn)
	} else {
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		header = lipgloss.JoinHorizontal(lipgloss.Center,
			backStyle.Render("←"), " ", searchBox, " ", filterBtn, " ", sortBtn,
		)
	}

	rows := []string{s.Title.Render(v.title())}
	if v.manager.Diagnostic() != nil {
		rows = append(rows, s.Error.Render("Task file could not be read, starting empty. A backup is kept on the next save."))
	}
	rows = append(rows, header)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}
	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	now := v.now()
	width := max(styles.ContentWidth(v.width)-4, 20)
	endIdx := min(v.scrollY+v.visibleRows(), len(v.tasks))

	var items []string
	for i := v.scrollY; i < endIdx; i++ {
		task := v.tasks[i]
		style := rowStyle(s, task, now)
		if i == v.cursor && v.focus == FocusTaskList {
			style = style.Background(s.Theme.Selection).Bold(true)
		}
		items = append(items, style.Width(width).Render(FormatRow(task)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderProgress() string {
	percent := tasks.Progress(v.tasks)
	return lipgloss.JoinHorizontal(lipgloss.Center,
		v.styles.Label.Render(fmt.Sprintf("Progress: %d%% ", percent)),
		v.progress.ViewAs(float64(percent)/100),
	)
}

func (v *TaskListView) renderStatusLine() string {
	if v.err != nil {
		return v.styles.Error.Render("Error: " + v.err.Error())
	}
	if v.notice != "" {
		return v.styles.StatusBar.Render(v.notice)
	}
	return ""
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s edit • %s del • %s done • %s doing • %s search • %s status • %s sort • %s back",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("esc"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      view task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("e") + "      edit task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("c") + "      mark completed",
		s.HelpKey.Render("p") + "      mark in progress",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("f") + "      cycle status filter",
		s.HelpKey.Render("s") + "      sort by deadline/priority",
		s.HelpKey.Render("T") + "      toggle theme",
		s.HelpKey.Render("esc") + "    back",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Delete task '%s'?", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.selected()
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}
	category := task.Category
	if category == "" {
		category = s.TitleMuted.Render("None")
	}

	field := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Label.Render(label),
			lipgloss.NewStyle().Width(textWidth).Render(value),
			"",
		)
	}

	helpText := s.Help.Render(
		fmt.Sprintf("%s edit • %s done • %s doing • %s delete • %s back",
			s.HelpKey.Render("e"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("p"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		field("Description", descText),
		field("Deadline", rowStyle(s, task, v.now()).UnsetPadding().Render(task.Deadline.Local().Format(models.DisplayLayout))),
		field("Category", category),
		field("Status", string(task.Status)),
		field("Priority", s.TaskPriority.Render(string(task.Priority))),
		field("Created", task.CreatedDate.Local().Format(models.DisplayLayout)),
		helpText,
	)

	// Return with padding, not centered vertically, but horizontally centered if wide
	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
