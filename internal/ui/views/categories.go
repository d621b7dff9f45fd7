package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/smarttask/internal/tasks"
	"github.com/tgienger/smarttask/internal/ui/keys"
	"github.com/tgienger/smarttask/internal/ui/styles"
)

type categoryItem struct {
	category *string // nil = all tasks
	label    string
	stats    tasks.Stats
}

func (i categoryItem) Title() string { return i.label }
func (i categoryItem) Description() string {
	return fmt.Sprintf("%d tasks • %d done • %d overdue", i.stats.Total, i.stats.Completed, i.stats.Overdue)
}
func (i categoryItem) FilterValue() string { return i.label }

type categoryDelegate struct {
	styles *styles.Styles
	width  int
}

func (d categoryDelegate) Height() int                               { return 2 }
func (d categoryDelegate) Spacing() int                              { return 1 }
func (d categoryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d categoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(categoryItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(d.styles.Theme.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(d.styles.Theme.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(c.Title()), descStyle.Render(c.Description()))
}

// SelectedCategory opens the task list scoped to Category (nil = all)
type SelectedCategory struct {
	Category *string
	StartNew bool // open the new-task form right away
}

// CategoryListView lists task categories with their counts
type CategoryListView struct {
	manager  *tasks.Manager
	list     list.Model
	delegate *categoryDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewCategoryListView creates the category picker
func NewCategoryListView(manager *tasks.Manager, s *styles.Styles) *CategoryListView {
	delegate := &categoryDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Categories"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &CategoryListView{
		manager:  manager,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *CategoryListView) Init() tea.Cmd {
	return v.loadCategories
}

type categoriesLoadedMsg struct {
	all        tasks.Stats
	categories []tasks.CategoryCount
}

func (v *CategoryListView) loadCategories() tea.Msg {
	return categoriesLoadedMsg{
		all:        tasks.Summary(v.manager.List(nil)),
		categories: v.manager.Categories(),
	}
}

func (v *CategoryListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case categoriesLoadedMsg:
		items := make([]list.Item, 0, len(msg.categories)+1)
		items = append(items, categoryItem{label: "All tasks", stats: msg.all})
		for _, c := range msg.categories {
			name := c.Name
			label := name
			if label == "" {
				label = "Uncategorized"
			}
			items = append(items, categoryItem{category: &name, label: label, stats: c.Stats})
		}
		v.list.SetItems(items)
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		// While typing a filter every key belongs to the list
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Theme):
			return v, func() tea.Msg { return ToggleTheme{} }
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.New):
			return v, func() tea.Msg { return SelectedCategory{StartNew: true} }
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(categoryItem); ok {
				return v, func() tea.Msg {
					return SelectedCategory{Category: item.category}
				}
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// Restyle re-applies the shared styles after a theme change
func (v *CategoryListView) Restyle() {
	v.list.Styles.Title = v.styles.Title
}

// View renders the view
func (v *CategoryListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *CategoryListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new task • %s filter • %s theme • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("T"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *CategoryListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open category",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("/") + "      filter categories",
		s.HelpKey.Render("T") + "      toggle theme",
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
