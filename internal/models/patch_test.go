package models

import (
	"errors"
	"testing"
	"time"
)

func TestPatchApply(t *testing.T) {
	task := mustNew(t)
	title := "Renamed"
	deadline := task.Deadline.Add(24 * time.Hour)

	p := Patch{Title: &title, Deadline: &deadline}
	if err := p.Apply(task); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if task.Title != "Renamed" {
		t.Errorf("Expected title Renamed, got %s", task.Title)
	}
	if !task.Deadline.Equal(deadline) {
		t.Errorf("Expected deadline %v, got %v", deadline, task.Deadline)
	}
	if task.Category != "work" {
		t.Errorf("Expected untouched category, got %s", task.Category)
	}
}

func TestPatchRejectsInvalidFieldsAtomically(t *testing.T) {
	task := mustNew(t)
	orig := *task

	title := "should not land"
	bad := Priority("Urgent")
	err := Patch{Title: &title, Priority: &bad}.Apply(task)
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("Expected ErrInvalidPriority, got %v", err)
	}
	if *task != orig {
		t.Errorf("Expected task unchanged, got %+v", *task)
	}

	status := Status("ARCHIVED")
	if err := (Patch{Status: &status}).Apply(task); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	zero := time.Time{}
	if err := (Patch{Deadline: &zero}).Apply(task); !errors.Is(err, ErrInvalidDeadline) {
		t.Errorf("Expected ErrInvalidDeadline, got %v", err)
	}
}

func TestPatchHelpers(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Error("Expected zero patch to be empty")
	}
	p := SetStatus(StatusCompleted)
	if p.IsEmpty() || *p.Status != StatusCompleted {
		t.Errorf("Expected status-only patch, got %+v", p)
	}

	src := *mustNew(t)
	src.Title = "copied"
	dst := mustNew(t)
	if err := PatchFrom(src).Apply(dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if dst.Title != "copied" || dst.ID == src.ID {
		t.Errorf("Expected title copied and id kept, got %+v", *dst)
	}
}
