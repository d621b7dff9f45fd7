package views

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/tgienger/smarttask/internal/models"
	"github.com/tgienger/smarttask/internal/tasks"
	"github.com/tgienger/smarttask/internal/ui/styles"
)

type memPrefs map[string]string

func (p memPrefs) GetSettingOr(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p memPrefs) SetSetting(key, value string) error {
	p[key] = value
	return nil
}

func openManager(t *testing.T) *tasks.Manager {
	t.Helper()
	m, err := tasks.Open(filepath.Join(t.TempDir(), "tasks.json"), tasks.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return m
}

func addTask(t *testing.T, m *tasks.Manager, title, category string, status models.Status, p models.Priority, deadline time.Time) models.Task {
	t.Helper()
	task, err := models.New(title, "", deadline, category, status, models.WithPriority(p))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Add(*task); err != nil {
		t.Fatal(err)
	}
	return *task
}

// seedManager adds three tasks. By priority they sort as milk, report, mom.
func seedManager(t *testing.T) *tasks.Manager {
	t.Helper()
	m := openManager(t)
	future := time.Now().Add(48 * time.Hour)
	addTask(t, m, "Write report", "Work", models.StatusCompleted, models.PriorityMedium, future)
	addTask(t, m, "Buy milk", "Home", models.StatusNotStarted, models.PriorityHigh, future)
	addTask(t, m, "Call mom", "Home", models.StatusNotStarted, models.PriorityLow, future)
	return m
}

// run executes cmd and feeds the resulting messages back into model.
// Commands that do not return promptly (cursor blink ticks) are dropped.
func run(model tea.Model, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := execCmd(cmd)
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(model, c)...)
		}
		return out
	default:
		_, next := model.Update(msg)
		return append([]tea.Msg{msg}, run(model, next)...)
	}
}

func execCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// press sends one key and processes the commands it produces
func press(model tea.Model, k string) []tea.Msg {
	_, cmd := model.Update(keyMsg(k))
	return run(model, cmd)
}

func typeText(model tea.Model, text string) {
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	run(model, cmd)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func hasMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func testDeadline() time.Time {
	return time.Now().Add(24 * time.Hour)
}

func testStyles() *styles.Styles {
	return styles.NewStyles(styles.Light)
}
