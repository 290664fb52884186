package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navrd93/activitydo/internal/task"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sample() task.Task {
	return task.Task{
		ID:           "t1",
		Text:         "Quarterly review",
		Priority:     task.PriorityHigh,
		Category:     "Work",
		DueDate:      "2024-06-01",
		DueTime:      "09:30",
		Recurring:    task.RecurMonthly,
		Notes:        "bring slides",
		Participants: []string{"Ana", "Bo"},
		NotifyBefore: true,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	want := sample()
	require.NoError(t, s.SaveTasks([]task.Task{want}))

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestSaveReplacesPreviousContents(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	first := sample()
	require.NoError(t, s.SaveTasks([]task.Task{first}))

	second := sample()
	second.ID = "t2"
	second.Text = "Water the plants"
	require.NoError(t, s.SaveTasks([]task.Task{second}))

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].ID)
}

func TestCompletedSetIsSeparate(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	live := sample()
	done := sample()
	done.ID = "done1"
	done.Completed = true

	require.NoError(t, s.SaveTasks([]task.Task{live}))
	require.NoError(t, s.SaveCompleted([]task.Task{done}))

	gotLive, err := s.LoadTasks()
	require.NoError(t, err)
	gotDone, err := s.LoadCompleted()
	require.NoError(t, err)

	require.Len(t, gotLive, 1)
	require.Len(t, gotDone, 1)
	assert.Equal(t, "t1", gotLive[0].ID)
	assert.Equal(t, "done1", gotDone[0].ID)
	assert.True(t, gotDone[0].Completed)
}

func TestLoadDropsInvalidRecords(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	insert := `INSERT INTO tasks (id, text, completed, priority, category, due_date, due_time, recurring, notes, participants, notify_before, created_at)
		VALUES (?, ?, 0, ?, '', ?, '', 'none', '', '[]', 0, '');`
	_, err := s.db.Exec(insert, "ok", "valid task", 2, "2024-06-01")
	require.NoError(t, err)
	_, err = s.db.Exec(insert, "no-text", "   ", 2, "2024-06-01")
	require.NoError(t, err)
	_, err = s.db.Exec(insert, "bad-priority", "priority out of range", 7, "2024-06-01")
	require.NoError(t, err)

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1, "invalid records drop, valid ones survive")
	assert.Equal(t, "ok", got[0].ID)
}

func TestLoadDefaultsMissingOptionals(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	_, err := s.db.Exec(`INSERT INTO tasks (id, text, priority) VALUES ('bare', 'minimal record', 3);`)
	require.NoError(t, err)

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)

	bare := got[0]
	assert.Equal(t, task.RecurNone, bare.Recurring)
	assert.Equal(t, "", bare.Notes)
	assert.Empty(t, bare.Participants)
	assert.False(t, bare.NotifyBefore)
	assert.False(t, bare.Completed)
}

func TestLoadToleratesGarbageParticipants(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	_, err := s.db.Exec(`INSERT INTO tasks (id, text, priority, participants) VALUES ('g', 'task', 1, 'not-json');`)
	require.NoError(t, err)

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Participants)
}

func TestUnknownRecurringTagLoadsAsNone(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	_, err := s.db.Exec(`INSERT INTO tasks (id, text, priority, recurring) VALUES ('w', 'task', 1, 'weekly');`)
	require.NoError(t, err)

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, task.RecurNone, got[0].Recurring)
}

func TestOpenCreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveTasks(nil))
}

func TestOpenEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Open("")
	assert.Error(t, err)
}
