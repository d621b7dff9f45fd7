package models

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the deadline format used by forms and detail views
const DisplayLayout = "2006-01-02 15:04"

// Offset-less ISO-8601 forms, read in local time
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	DisplayLayout,
	"2006-01-02",
}

// Record is the flat, JSON-ready form of a Task
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedDate string `json:"created_date"`
}

// ToRecord flattens the task, formatting timestamps as ISO-8601 text
func (t *Task) ToRecord() Record {
	return Record{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    FormatTimestamp(t.Deadline),
		Category:    t.Category,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedDate: FormatTimestamp(t.CreatedDate),
	}
}

// FromRecord rebuilds a task, re-validating every field
func FromRecord(r Record) (*Task, error) {
	created, err := ParseTimestamp(r.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("created_date: %w", err)
	}
	t, err := New(r.Title, r.Description, r.Deadline, r.Category, Status(r.Status),
		WithID(r.ID),
		WithPriority(Priority(r.Priority)),
	)
	if err != nil {
		return nil, err
	}
	// stored timestamps are kept as written, including the zero time
	t.CreatedDate = created
	return t, nil
}

// FormatTimestamp renders t as RFC 3339 with nanoseconds
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp reads RFC 3339 text or an offset-less ISO-8601 date/time
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}
