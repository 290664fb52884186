package task

import (
	"slices"
	"sort"
	"time"
)

// WindowDays bounds how far ahead the agenda looks.
const WindowDays = 365

// Occurrence is one concrete date on which a task is due. It is a
// transient projection: recomputed on every call, never cached across
// mutations.
type Occurrence struct {
	Task Task
	Date time.Time
}

// Occurrences computes the next relevant occurrence of each task inside
// [today, today+365d], at most one per task, sorted ascending by date.
// Tasks whose due date does not parse are skipped. filterCategories
// admits everything when it contains CategoryAll.
func Occurrences(tasks []Task, filterCategories []string, today time.Time) []Occurrence {
	today = DateOf(today)
	end := today.AddDate(0, 0, WindowDays)

	all := slices.Contains(filterCategories, CategoryAll)

	var out []Occurrence
	byID := make(map[string]int)

	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if !all && !slices.Contains(filterCategories, t.Category) {
			continue
		}
		due, err := ParseDate(t.DueDate)
		if err != nil {
			continue
		}

		date, ok := candidate(t.Recurring, due, today, end)
		if !ok {
			continue
		}

		if i, seen := byID[t.ID]; seen {
			if date.Before(out[i].Date) {
				out[i] = Occurrence{Task: t, Date: date}
			}
			continue
		}
		byID[t.ID] = len(out)
		out = append(out, Occurrence{Task: t, Date: date})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// candidate picks the task's next occurrence on or after today, if one
// exists inside the window.
func candidate(r Recurrence, due, today, end time.Time) (time.Time, bool) {
	switch r {
	case RecurDaily:
		d := due
		if d.Before(today) {
			d = today
		}
		return d, inWindow(d, today, end)
	case RecurMonthly:
		d := due
		if due.Before(today) {
			months := (today.Year()-due.Year())*12 + int(today.Month()) - int(due.Month())
			d = due.AddDate(0, months, 0)
			if d.Before(today) {
				d = due.AddDate(0, months+1, 0)
			}
		}
		return d, inWindow(d, today, end)
	case RecurYearly:
		d := due
		if due.Before(today) {
			years := today.Year() - due.Year()
			d = due.AddDate(years, 0, 0)
			if d.Before(today) {
				d = due.AddDate(years+1, 0, 0)
			}
		}
		return d, inWindow(d, today, end)
	default:
		return due, inWindow(due, today, end)
	}
}

func inWindow(d, today, end time.Time) bool {
	return !d.Before(today) && !d.After(end)
}
