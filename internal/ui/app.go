package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/tgienger/smarttask/internal/db"
	"github.com/tgienger/smarttask/internal/tasks"
	"github.com/tgienger/smarttask/internal/ui/styles"
	"github.com/tgienger/smarttask/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewCategories View = iota
	ViewTasks
)

// Stored values for the last opened scope
const (
	scopeAll      = "*"
	scopeCategory = "="
)

type App struct {
	manager      *tasks.Manager
	prefs        views.Preferences
	styles       *styles.Styles
	currentView  View
	categoryList *views.CategoryListView
	taskList     *views.TaskListView
	width        int
	height       int
}

// NewApp creates the application. theme overrides the stored theme when set.
func NewApp(manager *tasks.Manager, prefs views.Preferences, theme string) *App {
	if theme == "" {
		theme = prefs.GetSettingOr(db.SettingTheme, styles.Light.Name)
	}
	s := styles.NewStyles(styles.ThemeByName(theme))

	return &App{
		manager:      manager,
		prefs:        prefs,
		styles:       s,
		currentView:  ViewCategories,
		categoryList: views.NewCategoryListView(manager, s),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the last task list
	if last := a.prefs.GetSettingOr(db.SettingLastCategory, ""); last != "" {
		if last == scopeAll {
			return a.openTasks(nil, false)
		}
		if name, ok := strings.CutPrefix(last, scopeCategory); ok {
			return a.openTasks(&name, false)
		}
	}

	return a.categoryList.Init()
}

func (a *App) openTasks(category *string, startNew bool) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.manager, a.prefs, a.styles, category)

	scope := scopeAll
	if category != nil {
		scope = scopeCategory + *category
	}
	a.setPreference(db.SettingLastCategory, scope)

	cmds := []tea.Cmd{
		a.taskList.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	}
	if startNew {
		cmds = append(cmds, a.taskList.StartNew())
	}
	return tea.Batch(cmds...)
}

func (a *App) toggleTheme() {
	name := styles.Toggle(a.styles.Theme.Name)
	// Views hold the same pointer, so they pick up the new styles on the next render
	*a.styles = *styles.NewStyles(styles.ThemeByName(name))
	a.categoryList.Restyle()
	if a.taskList != nil {
		a.taskList.Restyle()
	}
	a.setPreference(db.SettingTheme, name)
}

func (a *App) setPreference(key, value string) {
	if err := a.prefs.SetSetting(key, value); err != nil {
		log.Warn("could not save preference", "key", key, "err", err)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update category list size since it persists
		a.categoryList.Update(msg)

	case views.SelectedCategory:
		return a, a.openTasks(msg.Category, msg.StartNew)

	case views.ToggleTheme:
		a.toggleTheme()
		return a, nil

	case views.BackToCategories:
		a.currentView = ViewCategories
		a.setPreference(db.SettingLastCategory, "")
		return a, tea.Batch(
			a.categoryList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewCategories:
		_, cmd = a.categoryList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	}
	return a.categoryList.View()
}

// Theme returns the active theme name
func (a *App) Theme() string {
	return a.styles.Theme.Name
}
