package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tgienger/smarttask/internal/models"
)

// SortOrder selects how Query orders its results
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortDeadline SortOrder = "deadline"
	SortPriority SortOrder = "priority"
)

// ParseSortOrder converts a stored or user-supplied value to a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortNone, SortDeadline, SortPriority:
		return SortOrder(s), nil
	}
	return SortNone, fmt.Errorf("unknown sort order %q", s)
}

// Next cycles deadline -> priority -> deadline
func (s SortOrder) Next() SortOrder {
	if s == SortDeadline {
		return SortPriority
	}
	return SortDeadline
}

// Query describes a filtered, sorted view of the collection
type Query struct {
	Status   *models.Status
	Category *string // nil matches every category
	Search   string  // case-insensitive substring of title or description
	Sort     SortOrder
}

// Match reports whether t passes the query's filters
func (q Query) Match(t models.Task) bool {
	if q.Status != nil && t.Status != *q.Status {
		return false
	}
	if q.Category != nil && t.Category != *q.Category {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

// Query returns copies of the matching tasks. Sorting is stable, so ties keep insertion order.
func (m *Manager) Query(q Query) []models.Task {
	m.mu.Lock()
	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	m.mu.Unlock()

	switch q.Sort {
	case SortDeadline:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Deadline.Before(out[j].Deadline)
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	}
	return out
}

// Progress returns the whole-number percentage of completed tasks, 0 for an empty list
func Progress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			done++
		}
	}
	return done * 100 / len(tasks)
}

// Stats counts tasks per status
type Stats struct {
	Total      int
	NotStarted int
	InProgress int
	Completed  int
	Overdue    int
}

// CategoryCount is one category with its task tally
type CategoryCount struct {
	Name  string
	Count int
	Stats Stats
}

// Categories returns each distinct category in first-seen order
func (m *Manager) Categories() []CategoryCount {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := make(map[string]int)
	var out []CategoryCount
	for _, t := range m.tasks {
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryCount{Name: t.Category})
		}
		out[i].Count++
		out[i].Stats.add(t)
	}
	return out
}

// Summary returns status counts over tasks
func Summary(tasks []models.Task) Stats {
	var s Stats
	for _, t := range tasks {
		s.add(t)
	}
	return s
}

func (s *Stats) add(t models.Task) {
	s.Total++
	switch t.Status {
	case models.StatusCompleted:
		s.Completed++
	case models.StatusInProgress:
		s.InProgress++
	default:
		s.NotStarted++
	}
	if t.Status != models.StatusCompleted && t.IsOverdue() {
		s.Overdue++
	}
}
