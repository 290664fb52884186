package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/navrd93/activitydo/internal/task"
)

const (
	tableTasks     = "tasks"
	tableCompleted = "completed_tasks"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	for _, table := range []string{tableTasks, tableCompleted} {
		ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	priority INTEGER NOT NULL DEFAULT 2,
	category TEXT DEFAULT '',
	due_date TEXT DEFAULT '',
	due_time TEXT DEFAULT '',
	recurring TEXT DEFAULT 'none',
	notes TEXT DEFAULT '',
	participants TEXT DEFAULT '[]',
	notify_before INTEGER NOT NULL DEFAULT 0,
	created_at TEXT DEFAULT ''
);`, table)
		if _, err := s.db.Exec(ddl); err != nil {
			return err
		}
		if err := s.ensureColumns(table); err != nil {
			return err
		}
	}
	return nil
}

// ensureColumns adds columns introduced after the first release to
// databases created before them.
func (s *Store) ensureColumns(table string) error {
	required := map[string]string{
		"due_time":      fmt.Sprintf("ALTER TABLE %s ADD COLUMN due_time TEXT DEFAULT '';", table),
		"notes":         fmt.Sprintf("ALTER TABLE %s ADD COLUMN notes TEXT DEFAULT '';", table),
		"participants":  fmt.Sprintf("ALTER TABLE %s ADD COLUMN participants TEXT DEFAULT '[]';", table),
		"notify_before": fmt.Sprintf("ALTER TABLE %s ADD COLUMN notify_before INTEGER NOT NULL DEFAULT 0;", table),
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LoadTasks() ([]task.Task, error) {
	return s.load(tableTasks)
}

func (s *Store) LoadCompleted() ([]task.Task, error) {
	return s.load(tableCompleted)
}

func (s *Store) SaveTasks(tasks []task.Task) error {
	return s.save(tableTasks, tasks)
}

func (s *Store) SaveCompleted(tasks []task.Task) error {
	return s.save(tableCompleted, tasks)
}

// load reads a whole table. A record missing its text or carrying an
// out-of-range priority is dropped and loading continues; one bad row
// must not take the rest of the data with it.
func (s *Store) load(table string) ([]task.Task, error) {
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT id, text, completed, priority, category, due_date, due_time, recurring, notes, participants, notify_before, created_at FROM %s ORDER BY rowid;`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var completed, notify int
		var category, dueDate, dueTime, recurring, notes, participants, createdStr sql.NullString

		if err := rows.Scan(&t.ID, &t.Text, &completed, &t.Priority, &category, &dueDate, &dueTime, &recurring, &notes, &participants, &notify, &createdStr); err != nil {
			return nil, err
		}
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		if t.Priority < task.PriorityHigh || t.Priority > task.PriorityLow {
			continue
		}
		t.Completed = completed == 1
		t.NotifyBefore = notify == 1
		t.Category = category.String
		t.DueDate = dueDate.String
		t.DueTime = dueTime.String
		t.Recurring = task.ParseRecurrence(recurring.String)
		t.Notes = notes.String
		t.Participants = decodeParticipants(participants.String)
		if created, err := time.Parse(time.RFC3339, createdStr.String); err == nil {
			t.CreatedAt = created
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// save replaces the table contents with the given set in one
// transaction, so a crash mid-save never leaves a half-written mix of
// old and new rows.
func (s *Store) save(table string, tasks []task.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s;`, table)); err != nil {
		return err
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %s (id, text, completed, priority, category, due_date, due_time, recurring, notes, participants, notify_before, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`, table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tasks {
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.Exec(t.ID, t.Text, boolInt(t.Completed), t.Priority, t.Category, t.DueDate, t.DueTime,
			t.Recurring.String(), t.Notes, encodeParticipants(t.Participants), boolInt(t.NotifyBefore), created); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func decodeParticipants(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func encodeParticipants(p []string) string {
	if len(p) == 0 {
		return "[]"
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
