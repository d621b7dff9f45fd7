package models

import (
	"fmt"
	"time"
)

// Patch lists the mutable task fields. Nil fields are left unchanged.
// The id is deliberately absent.
type Patch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Category    *string
	Status      *Status
	Priority    *Priority
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Deadline == nil &&
		p.Category == nil && p.Status == nil && p.Priority == nil
}

// Validate checks every set field without touching any task
func (p Patch) Validate() error {
	if p.Deadline != nil && p.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidStatus, *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidPriority, *p.Priority)
	}
	return nil
}

// Apply validates the patch and, only if every field is valid, writes it to t
func (p Patch) Apply(t *Task) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return nil
}

// PatchFrom builds a patch that sets every mutable field to the values in t
func PatchFrom(t Task) Patch {
	return Patch{
		Title:       &t.Title,
		Description: &t.Description,
		Deadline:    &t.Deadline,
		Category:    &t.Category,
		Status:      &t.Status,
		Priority:    &t.Priority,
	}
}

// SetStatus is a patch that only changes the status
func SetStatus(s Status) Patch {
	return Patch{Status: &s}
}
