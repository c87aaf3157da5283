// Package task holds the personal to-do list kept in local storage.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when no priority is chosen.
const DefaultPriority = PriorityMedium

// AllPriorities returns the supported priorities in ascending rank.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority resolves raw into a Priority, case-insensitive. An empty
// value yields the default.
func ParsePriority(raw string) (Priority, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultPriority, nil
	}
	for _, p := range AllPriorities() {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", fmt.Errorf("task: unknown priority %q", raw)
}

// Task is one entry of the to-do list. The JSON shape is the persisted
// format of the task slot.
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Priority  Priority   `json:"priority"`
	CreatedAt time.Time  `json:"createdAt"`
	Deadline  *time.Time `json:"deadline"`
}

// Overdue reports whether the deadline has passed on an open task.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.Deadline != nil && t.Deadline.Before(now)
}

// Stats summarizes a collection.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// Summarize counts tasks.
func Summarize(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
