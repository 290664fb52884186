package task

import "time"

// NextDueDate returns the occurrence after the task's current one. The
// anchor is the task's due date; if that fails to parse, today stands in
// for it. One-shot tasks keep their date unchanged.
//
// Month and year steps use time.AddDate, which normalizes day overflow
// forward: Jan 31 plus one month lands on Mar 2 (leap year) or Mar 3,
// and Feb 29 plus one year lands on Mar 1. That matches the behavior
// users of the existing data already have, so it is kept as is.
func NextDueDate(t Task, today time.Time) time.Time {
	anchor, err := ParseDate(t.DueDate)
	if err != nil {
		anchor = DateOf(today)
	}

	switch t.Recurring {
	case RecurDaily:
		return anchor.AddDate(0, 0, 1)
	case RecurMonthly:
		return anchor.AddDate(0, 1, 0)
	case RecurYearly:
		return anchor.AddDate(1, 0, 0)
	default:
		return anchor
	}
}
