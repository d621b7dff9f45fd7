package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPriority = errors.New("priority must be one of: Low, Medium, High")
	ErrInvalidStatus   = errors.New("status must be one of: NOT_STARTED, IN_PROGRESS, COMPLETED")
	ErrInvalidDeadline = errors.New("deadline is required")
	ErrInvalidID       = errors.New("id is required")
)

// Status is the workflow state of a task
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus converts text to a Status
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Priority is the urgency tag of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting: High first, unknown values last
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// ParsePriority converts text to a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// Task represents a single unit of work
type Task struct {
	ID          string
	Title       string
	Description string
	Deadline    time.Time
	Category    string
	Status      Status
	Priority    Priority
	CreatedDate time.Time
}

type taskOptions struct {
	id          string
	priority    Priority
	createdDate any
}

// Option customises New
type Option func(*taskOptions)

// WithID sets the task id instead of generating one
func WithID(id string) Option {
	return func(o *taskOptions) { o.id = id }
}

// WithPriority sets the priority (default Medium)
func WithPriority(p Priority) Option {
	return func(o *taskOptions) { o.priority = p }
}

// WithCreatedDate sets the creation time. Accepts time.Time or ISO-8601 text.
func WithCreatedDate(v any) Option {
	return func(o *taskOptions) { o.createdDate = v }
}

// New builds a validated task. deadline accepts a time.Time or ISO-8601 text.
func New(title, description string, deadline any, category string, status Status, opts ...Option) (*Task, error) {
	o := taskOptions{priority: PriorityMedium}
	for _, opt := range opts {
		opt(&o)
	}

	dl, err := toTime(deadline)
	if err != nil {
		return nil, fmt.Errorf("deadline: %w", err)
	}

	created := time.Now()
	if o.createdDate != nil {
		c, err := toTime(o.createdDate)
		if err != nil {
			return nil, fmt.Errorf("created date: %w", err)
		}
		if !c.IsZero() {
			created = c
		}
	}

	id := o.id
	if id == "" {
		id = uuid.NewString()
	}

	t := &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Deadline:    dl,
		Category:    category,
		Status:      status,
		Priority:    o.priority,
		CreatedDate: created,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the fields a stored task must carry
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrInvalidID
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidStatus, t.Status)
	}
	if t.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	return nil
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, nil
		}
		return *t, nil
	case string:
		return ParseTimestamp(t)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

// MarkCompleted sets the status to COMPLETED
func (t *Task) MarkCompleted() {
	t.Status = StatusCompleted
}

// MarkInProgress sets the status to IN_PROGRESS
func (t *Task) MarkInProgress() {
	t.Status = StatusInProgress
}

// IsOverdue reports whether the deadline has passed
func (t *Task) IsOverdue() bool {
	return t.IsOverdueAt(time.Now())
}

// IsOverdueAt reports whether now is strictly after the deadline
func (t *Task) IsOverdueAt(now time.Time) bool {
	return now.After(t.Deadline)
}

func (t *Task) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	fmt.Fprintf(&b, "Deadline: %s\n", t.Deadline.Format(DisplayLayout))
	fmt.Fprintf(&b, "Status: %s\n", t.Status)
	fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
	fmt.Fprintf(&b, "Created Date: %s", t.CreatedDate.Format(DisplayLayout))
	return b.String()
}
