package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority levels. Lower is more urgent.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// CategoryAll is the filter sentinel that admits every category.
const CategoryAll = "All"

// DateLayout is the calendar-date form used for due dates everywhere:
// in memory, on disk, and in the UI.
const DateLayout = "2006-01-02"

// Recurrence is how a task's due date advances once an occurrence is done.
type Recurrence int

const (
	RecurNone Recurrence = iota
	RecurDaily
	RecurMonthly
	RecurYearly
)

func (r Recurrence) String() string {
	switch r {
	case RecurDaily:
		return "daily"
	case RecurMonthly:
		return "monthly"
	case RecurYearly:
		return "yearly"
	default:
		return "none"
	}
}

// ParseRecurrence maps a stored tag to a Recurrence. Unknown tags fall
// back to RecurNone rather than erroring.
func ParseRecurrence(s string) Recurrence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return RecurDaily
	case "monthly":
		return RecurMonthly
	case "yearly":
		return RecurYearly
	default:
		return RecurNone
	}
}

// Task is a single activity. DueDate stays a string so that a malformed
// date degrades softly (the task is skipped from the agenda) instead of
// failing a whole load.
type Task struct {
	ID           string
	Text         string
	Completed    bool
	Priority     int
	Category     string
	DueDate      string
	DueTime      string
	Recurring    Recurrence
	Notes        string
	Participants []string
	NotifyBefore bool
	CreatedAt    time.Time
}

// New creates a task with a fresh ID. An empty due date defaults to today.
func New(text, category string, priority int, today time.Time) Task {
	return Task{
		ID:        uuid.NewString(),
		Text:      text,
		Priority:  priority,
		Category:  category,
		DueDate:   today.Format(DateLayout),
		Recurring: RecurNone,
		CreatedAt: today,
	}
}

// ParseDate parses a "YYYY-MM-DD" due date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// DateOf strips the time-of-day component. The result is the calendar
// date in UTC so it compares cleanly against parsed due dates.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
