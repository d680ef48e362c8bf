package models

import "strings"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority maps a form value to a Priority, case-insensitively.
// Anything unrecognised becomes Medium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
)

// FilterAll in any TaskFilter field disables that filter.
const FilterAll = "All"

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
var Statuses = []Status{StatusPending, StatusDone}

type Task struct {
	ID       int64
	UserID   int64
	Title    string
	Subject  string
	DueDate  string
	Priority Priority
	Status   Status
}

// TaskInput carries the user-editable fields of a task.
// Subject is only used on create.
type TaskInput struct {
	Title    string
	Subject  string
	DueDate  string
	Priority Priority
}

// TaskFilter narrows a task listing. Empty or "All" means no constraint.
type TaskFilter struct {
	Status   string
	Priority string
	Search   string
}

func (f TaskFilter) StatusSet() bool   { return isSet(f.Status) }
func (f TaskFilter) PrioritySet() bool { return isSet(f.Priority) }
func (f TaskFilter) SearchSet() bool   { return f.Search != "" }

func isSet(v string) bool {
	return v != "" && v != FilterAll
}

// Summary aggregates a task list.
type Summary struct {
	Total   int
	Pending int
	Done    int
	High    int
}

// Summarize counts tasks by status and high priority.
func Summarize(tasks []Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusPending:
			s.Pending++
		case StatusDone:
			s.Done++
		}
		if t.Priority == PriorityHigh {
			s.High++
		}
	}
	return s
}
