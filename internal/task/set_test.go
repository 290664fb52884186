package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCompleteRecurring(t *testing.T) {
	t.Parallel()

	today := date("2024-06-01")
	daily := mk("d1", "2024-06-01", RecurDaily)
	s := NewSet([]Task{daily}, nil)

	require.True(t, s.ToggleComplete("d1", today))

	require.Len(t, s.Live(), 1, "recurring task stays live")
	live := s.Live()[0]
	assert.Equal(t, "d1", live.ID)
	assert.Equal(t, "2024-06-02", live.DueDate)
	assert.False(t, live.Completed)

	require.Len(t, s.Completed(), 1)
	record := s.Completed()[0]
	assert.True(t, record.Completed)
	assert.Equal(t, "2024-06-01", record.DueDate, "record keeps the completed occurrence")
	assert.NotEqual(t, live.ID, record.ID, "record gets its own id")
	assert.Equal(t, live.Text, record.Text)
}

func TestToggleCompleteRecurringRollsFromDueDateNotToday(t *testing.T) {
	t.Parallel()

	// Completing early: the roll anchors on the task's due date, not on
	// the day the user pressed the key.
	monthly := mk("m1", "2024-06-20", RecurMonthly)
	s := NewSet([]Task{monthly}, nil)

	require.True(t, s.ToggleComplete("m1", date("2024-06-01")))
	assert.Equal(t, "2024-07-20", s.Live()[0].DueDate)
}

func TestToggleCompleteOneShot(t *testing.T) {
	t.Parallel()

	today := date("2024-06-01")
	s := NewSet([]Task{mk("o1", "2024-06-01", RecurNone)}, nil)

	require.True(t, s.ToggleComplete("o1", today))
	assert.Empty(t, s.Live())
	require.Len(t, s.Completed(), 1)
	assert.True(t, s.Completed()[0].Completed)
	assert.Equal(t, "o1", s.Completed()[0].ID)

	// Second toggle finds nothing: no duplicate archive entry.
	assert.False(t, s.ToggleComplete("o1", today))
	assert.Len(t, s.Completed(), 1)
}

func TestToggleCompleteUnknownID(t *testing.T) {
	t.Parallel()

	s := NewSet([]Task{mk("a", "2024-06-01", RecurNone)}, nil)
	assert.False(t, s.ToggleComplete("missing", date("2024-06-01")))
	assert.Len(t, s.Live(), 1)
	assert.Empty(t, s.Completed())
}

func TestDeleteArchives(t *testing.T) {
	t.Parallel()

	s := NewSet([]Task{mk("a", "2024-06-01", RecurNone), mk("b", "2024-06-02", RecurDaily)}, nil)

	require.True(t, s.Delete("a"))
	assert.Len(t, s.Live(), 1)
	assert.Equal(t, "b", s.Live()[0].ID)
	require.Len(t, s.Completed(), 1)
	assert.Equal(t, "a", s.Completed()[0].ID)

	assert.False(t, s.Delete("a"), "deleting twice is a no-op")
}

func TestUpdateReplacesLiveTask(t *testing.T) {
	t.Parallel()

	s := NewSet([]Task{mk("a", "2024-06-01", RecurNone)}, nil)

	edited := mk("a", "2024-07-01", RecurMonthly)
	edited.Text = "renamed"
	require.True(t, s.Update(edited))
	assert.Equal(t, "renamed", s.Live()[0].Text)
	assert.Equal(t, RecurMonthly, s.Live()[0].Recurring)

	assert.False(t, s.Update(mk("ghost", "2024-07-01", RecurNone)))
}

func TestCompletedRecordIDsAreUnique(t *testing.T) {
	t.Parallel()

	daily := mk("d", "2024-06-01", RecurDaily)
	s := NewSet([]Task{daily}, nil)

	for i := 0; i < 5; i++ {
		require.True(t, s.ToggleComplete("d", date("2024-06-01")))
	}

	seen := map[string]bool{}
	for _, r := range s.Completed() {
		assert.False(t, seen[r.ID], "duplicate archive id %s", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, s.Completed(), 5)
	assert.Equal(t, "2024-06-06", s.Live()[0].DueDate)
}
