package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func newCategoryList(t *testing.T) *CategoryListView {
	t.Helper()
	v := NewCategoryListView(seedManager(t), testStyles())
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	run(v, v.Init())
	return v
}

func TestCategoryListItems(t *testing.T) {
	v := newCategoryList(t)

	items := v.list.Items()
	if len(items) != 3 {
		t.Fatalf("Expected All + 2 categories, got %d", len(items))
	}
	labels := make([]string, 0, len(items))
	for _, it := range items {
		labels = append(labels, it.(categoryItem).label)
	}
	if got := strings.Join(labels, ","); got != "All tasks,Work,Home" {
		t.Errorf("Expected first-seen order, got %s", got)
	}

	all := items[0].(categoryItem)
	if all.category != nil || all.stats.Total != 3 || all.stats.Completed != 1 {
		t.Errorf("Unexpected All item %+v", all)
	}
	if !strings.Contains(v.View(), "Categories") {
		t.Error("Expected list title")
	}
}

func TestCategoryListSelect(t *testing.T) {
	v := newCategoryList(t)

	sel, ok := hasMsg[SelectedCategory](press(v, "enter"))
	if !ok || sel.Category != nil {
		t.Errorf("Expected All tasks selection, got %+v", sel)
	}

	press(v, "down")
	sel, ok = hasMsg[SelectedCategory](press(v, "enter"))
	if !ok || sel.Category == nil || *sel.Category != "Work" {
		t.Errorf("Expected Work selection, got %+v", sel)
	}
}

func TestCategoryListNewTask(t *testing.T) {
	v := newCategoryList(t)
	sel, ok := hasMsg[SelectedCategory](press(v, "n"))
	if !ok || !sel.StartNew || sel.Category != nil {
		t.Errorf("Expected new task in all tasks, got %+v", sel)
	}
}

func TestCategoryListUncategorized(t *testing.T) {
	m := openManager(t)
	addTask(t, m, "Loose end", "", "NOT_STARTED", "Low", testDeadline())
	v := NewCategoryListView(m, testStyles())
	run(v, v.Init())

	items := v.list.Items()
	if len(items) != 2 || items[1].(categoryItem).label != "Uncategorized" {
		t.Fatalf("Expected Uncategorized item, got %v", items)
	}
	if c := items[1].(categoryItem).category; c == nil || *c != "" {
		t.Error("Expected empty category value")
	}
}

func TestCategoryListFilteringOwnsKeys(t *testing.T) {
	v := newCategoryList(t)
	press(v, "/")
	if v.list.FilterState() != list.Filtering {
		t.Fatal("Expected filtering state")
	}
	if _, ok := hasMsg[tea.QuitMsg](press(v, "q")); ok {
		t.Error("Expected q to be typed into the filter, not quit")
	}
}

func TestCategoryListHelpPopup(t *testing.T) {
	v := newCategoryList(t)
	press(v, "?")
	if !strings.Contains(v.View(), "Keyboard Shortcuts") {
		t.Error("Expected help popup")
	}
	press(v, "x")
	if strings.Contains(v.View(), "Keyboard Shortcuts") {
		t.Error("Expected any key to close the popup")
	}
}
