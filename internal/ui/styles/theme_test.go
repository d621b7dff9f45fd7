package styles

import "testing"

func TestThemeByName(t *testing.T) {
	if ThemeByName("dark").Name != "dark" {
		t.Error("Expected dark theme")
	}
	if ThemeByName("light").Name != "light" {
		t.Error("Expected light theme")
	}
	if ThemeByName("neon").Name != "light" {
		t.Error("Expected unknown names to fall back to light")
	}
}

func TestToggle(t *testing.T) {
	if Toggle("light") != "dark" || Toggle("dark") != "light" {
		t.Error("Expected toggle to swap light and dark")
	}
	if Toggle(Toggle("dark")) != "dark" {
		t.Error("Expected double toggle to be identity")
	}
}

func TestNewStylesUsesTheme(t *testing.T) {
	s := NewStyles(Dark)
	if s.Theme.Name != "dark" {
		t.Errorf("Expected styles bound to dark, got %s", s.Theme.Name)
	}
	if s.TaskOverdue.GetForeground() != Dark.Error {
		t.Error("Expected overdue rows in the theme's error color")
	}
	if s.TaskCompleted.GetForeground() != Dark.Success {
		t.Error("Expected completed rows in the theme's success color")
	}
}

func TestContentWidth(t *testing.T) {
	if ContentWidth(120) != MaxWidth || ContentWidth(40) != 40 {
		t.Error("Expected width capped at MaxWidth")
	}
}
