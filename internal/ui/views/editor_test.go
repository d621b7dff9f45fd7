package views

import (
	"errors"
	"testing"
	"time"

	"github.com/tgienger/smarttask/internal/models"
)

func TestCycle(t *testing.T) {
	tests := []struct {
		cur  models.Priority
		dir  int
		want models.Priority
	}{
		{models.PriorityLow, 1, models.PriorityMedium},
		{models.PriorityHigh, 1, models.PriorityLow},
		{models.PriorityLow, -1, models.PriorityHigh},
		{models.Priority("Urgent"), 1, models.PriorityLow},
	}
	for _, tt := range tests {
		if got := cycle(models.Priorities, tt.cur, tt.dir); got != tt.want {
			t.Errorf("cycle(%s, %d) = %s, want %s", tt.cur, tt.dir, got, tt.want)
		}
	}
}

func TestEditorEditPrefillsAndPatches(t *testing.T) {
	deadline := time.Date(2030, 3, 4, 18, 30, 0, 0, time.Local)
	task, err := models.New("Dentist", "Bring forms", deadline, "Health", models.StatusInProgress,
		models.WithPriority(models.PriorityHigh))
	if err != nil {
		t.Fatal(err)
	}

	e := NewTaskEditor(testStyles())
	e.Edit(*task)

	if e.deadline.Value() != "2030-03-04 18:30" {
		t.Errorf("Expected formatted deadline, got %q", e.deadline.Value())
	}

	patch, err := e.Patch()
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	edited := *task
	if err := patch.Apply(&edited); err != nil {
		t.Fatal(err)
	}
	if edited.Title != "Dentist" || edited.Description != "Bring forms" || edited.Category != "Health" {
		t.Errorf("Expected text fields unchanged, got %+v", edited)
	}
	if edited.Status != models.StatusInProgress || edited.Priority != models.PriorityHigh {
		t.Errorf("Expected status and priority unchanged, got %s/%s", edited.Status, edited.Priority)
	}
	if !edited.Deadline.Equal(deadline) {
		t.Errorf("Expected deadline %v, got %v", deadline, edited.Deadline)
	}
}

func TestEditorValidation(t *testing.T) {
	e := NewTaskEditor(testStyles())
	e.New("")

	if _, err := e.Task(); !errors.Is(err, errTitleRequired) {
		t.Errorf("Expected title error, got %v", err)
	}

	e.title.SetValue("Pay rent")
	e.deadline.SetValue("2030-13-01 10:00")
	if _, err := e.Task(); !errors.Is(err, errDeadlineInput) {
		t.Errorf("Expected deadline error, got %v", err)
	}

	e.deadline.SetValue(" 2030-12-01 10:00 ")
	task, err := e.Task()
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	if task.ID == "" || task.Status != models.StatusNotStarted || task.Priority != models.PriorityMedium {
		t.Errorf("Expected a fresh task with defaults, got %+v", task)
	}
	want := time.Date(2030, 12, 1, 10, 0, 0, 0, time.Local)
	if !task.Deadline.Equal(want) {
		t.Errorf("Expected deadline %v, got %v", want, task.Deadline)
	}
}

func TestEditorDeadlineKeepsPaddedInput(t *testing.T) {
	tests := []string{
		"2030-12-01 10:00",
		" 2030-12-01 10:00 ",
		"   2030-12-01 10:00   ",
	}
	for _, in := range tests {
		e := NewTaskEditor(testStyles())
		e.New("")
		e.title.SetValue("Pay rent")
		e.deadline.SetValue(in)
		if e.deadline.Value() != in {
			t.Errorf("Expected deadline input %q kept, got %q", in, e.deadline.Value())
			continue
		}
		if _, err := e.Task(); err != nil {
			t.Errorf("input %q: expected valid task, got %v", in, err)
		}
	}
}

func TestEditorStatusCycling(t *testing.T) {
	e := NewTaskEditor(testStyles())
	e.New("")

	for range fieldStatus {
		e.Update(keyMsg("tab"))
	}
	e.Update(keyMsg("right"))
	if e.status != models.StatusInProgress {
		t.Errorf("Expected IN_PROGRESS, got %s", e.status)
	}
	e.Update(keyMsg("left"))
	e.Update(keyMsg("left"))
	if e.status != models.StatusCompleted {
		t.Errorf("Expected wrap to COMPLETED, got %s", e.status)
	}

	// Enter on a choice field moves on
	e.Update(keyMsg("enter"))
	if e.focus != fieldPriority {
		t.Errorf("Expected focus on priority, got %d", e.focus)
	}
	e.Update(keyMsg("shift+tab"))
	if e.focus != fieldStatus {
		t.Errorf("Expected shift+tab back to status, got %d", e.focus)
	}
}

func TestEditorResults(t *testing.T) {
	e := NewTaskEditor(testStyles())
	e.New("")

	if res, _ := e.Update(keyMsg("esc")); res != EditorCancel {
		t.Errorf("Expected cancel on esc, got %d", res)
	}
	if res, _ := e.Update(keyMsg("ctrl+s")); res != EditorContinue || e.err == nil {
		t.Errorf("Expected invalid submit to keep the form open, got %d", res)
	}

	e.title.SetValue("Pay rent")
	e.deadline.SetValue("2030-12-01 10:00")
	if res, _ := e.Update(keyMsg("ctrl+s")); res != EditorSubmit || e.err != nil {
		t.Errorf("Expected submit, got %d (%v)", res, e.err)
	}
}
