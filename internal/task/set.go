package task

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Set owns the live tasks and the completed-record archive. All
// mutation goes through its methods so the two collections stay
// consistent: the archive is append-only, and a live task always has
// exactly one due date. Set is not safe for concurrent mutation; the
// caller serializes writes.
type Set struct {
	live      []Task
	completed []Task
}

func NewSet(live, completed []Task) *Set {
	return &Set{live: live, completed: completed}
}

// Live returns the live tasks in insertion order. The slice is shared;
// callers must not modify it.
func (s *Set) Live() []Task {
	return s.live
}

// Completed returns the completed-record archive.
func (s *Set) Completed() []Task {
	return s.completed
}

// Add appends a new live task.
func (s *Set) Add(t Task) {
	s.live = append(s.live, t)
}

// Update replaces the live task with the same ID. Returns false when no
// such task exists.
func (s *Set) Update(t Task) bool {
	for i := range s.live {
		if s.live[i].ID == t.ID {
			s.live[i] = t
			return true
		}
	}
	return false
}

// Delete removes a live task and archives it in the completed set.
func (s *Set) Delete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t := s.live[i]
	s.live = slices.Delete(s.live, i, i+1)
	s.completed = append(s.completed, t)
	return true
}

// ToggleComplete marks the current occurrence of a task done.
//
// For a recurring task, a snapshot of the task as it stands (the
// occurrence being completed) is archived under a fresh ID, and the
// live task's due date rolls forward to its next occurrence; the live
// task itself stays in the set, uncompleted. For a one-shot task, the
// task moves to the completed set. Returns false when the ID is absent
// or the task was already completed.
func (s *Set) ToggleComplete(id string, today time.Time) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t := &s.live[i]

	if t.Recurring != RecurNone {
		record := *t
		record.ID = uuid.NewString()
		record.Completed = true
		s.completed = append(s.completed, record)

		t.DueDate = NextDueDate(*t, today).Format(DateLayout)
		return true
	}

	if t.Completed {
		return false
	}
	done := *t
	done.Completed = true
	s.live = slices.Delete(s.live, i, i+1)
	s.completed = append(s.completed, done)
	return true
}

func (s *Set) indexOf(id string) int {
	for i := range s.live {
		if s.live[i].ID == id {
			return i
		}
	}
	return -1
}
