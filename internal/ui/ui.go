package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/navrd93/activitydo/internal/config"
	"github.com/navrd93/activitydo/internal/storage"
	"github.com/navrd93/activitydo/internal/task"
)

type mode int

const (
	modeAgenda mode = iota
	modeAdd
	modeEdit
	modeArchive
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	archiveStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
)

// editState walks the task fields one textinput at a time, the same way
// the metadata editor works: tab/arrows move, enter advances, the last
// enter saves.
type editState struct {
	taskID  string // empty while adding
	created time.Time
	fields  []string
	values  []string
	index   int
}

type Model struct {
	store      *storage.Store
	cfg        config.Config
	set        *task.Set
	agenda     []task.Occurrence
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	filters    []string
	filterIdx  int
	confirmDel bool
	pendingDel string
	edit       *editState
	now        func() time.Time
}

func Run(store *storage.Store, cfg config.Config, set *task.Set) error {
	ti := textinput.New()
	ti.Placeholder = "Task"
	ti.CharLimit = 256
	ti.Width = 40

	filters := cfg.CategoryNames()
	filterIdx := 0
	for i, name := range filters {
		if name == cfg.DefaultFilter {
			filterIdx = i
			break
		}
	}

	m := Model{
		store:     store,
		cfg:       cfg,
		set:       set,
		input:     ti,
		status:    "Press 'a' to add, space to complete, 'f' to filter.",
		mode:      modeAgenda,
		filters:   filters,
		filterIdx: filterIdx,
		now:       time.Now,
	}
	m.refresh()

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.edit != nil {
			return m.updateEditMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeArchive {
			return m.updateArchiveMode(msg.String())
		}
		return m.updateAgendaMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m *Model) today() time.Time {
	return task.DateOf(m.now())
}

func (m *Model) refresh() {
	m.agenda = task.Occurrences(m.set.Live(), []string{m.filters[m.filterIdx]}, m.today())
	m.cursor = clampCursor(m.cursor, len(m.agenda))
}

// persist writes both sets back. The in-memory state stays
// authoritative either way; a failed save only surfaces in the status
// line.
func (m *Model) persist() {
	if err := m.store.SaveTasks(m.set.Live()); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	if err := m.store.SaveCompleted(m.set.Completed()); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
	}
}

func (m Model) updateAgendaMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.agenda) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.agenda))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.agenda))
		}
	case m.cfg.Keys.Add:
		m.edit = newEditState("", task.Task{Priority: task.PriorityMedium, DueDate: m.today().Format(task.DateLayout)})
		m.input.SetValue(m.edit.values[0])
		m.input.Placeholder = m.edit.fields[0]
		m.input.Focus()
		m.mode = modeAdd
		m.status = "New task: enter advances, esc cancels"
	case m.cfg.Keys.Toggle:
		if len(m.agenda) == 0 {
			return m, nil
		}
		t := m.agenda[m.cursor].Task
		if !m.set.ToggleComplete(t.ID, m.today()) {
			m.status = "Nothing to complete"
			return m, nil
		}
		m.persist()
		m.refresh()
		if t.Recurring != task.RecurNone {
			m.status = fmt.Sprintf("Done \"%s\", next on %s", t.Text, nextDueOf(m.set, t.ID))
		} else {
			m.status = fmt.Sprintf("Completed \"%s\"", t.Text)
		}
	case m.cfg.Keys.Delete:
		if len(m.agenda) == 0 {
			return m, nil
		}
		t := m.agenda[m.cursor].Task
		m.confirmDel = true
		m.pendingDel = t.ID
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	case m.cfg.Keys.Edit:
		if len(m.agenda) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := m.agenda[m.cursor].Task
		m.edit = newEditState(t.ID, t)
		m.input.SetValue(m.edit.values[0])
		m.input.Placeholder = m.edit.fields[0]
		m.input.Focus()
		m.mode = modeEdit
		m.status = "Edit: tab moves, enter advances, esc cancels"
	case m.cfg.Keys.Filter:
		m.filterIdx = (m.filterIdx + 1) % len(m.filters)
		m.refresh()
		m.status = "Filter: " + m.filters[m.filterIdx]
	case m.cfg.Keys.Archive:
		m.mode = modeArchive
		m.cursor = 0
		m.status = "Archive: esc to go back"
	case m.cfg.Keys.Detail:
		if len(m.agenda) == 0 {
			m.status = "No tasks"
			return m, nil
		}
		m.status = detailLine(m.agenda[m.cursor], m.cfg)
	}
	return m, nil
}

func (m Model) updateArchiveMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Cancel, "esc", m.cfg.Keys.Archive:
		m.mode = modeAgenda
		m.cursor = 0
		m.status = "Agenda"
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.set.Completed()))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.set.Completed()))
		}
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = ""
		return m, nil
	case "y", "Y":
		if m.pendingDel == "" {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if m.set.Delete(m.pendingDel) {
			m.persist()
			m.refresh()
			m.status = "Deleted task"
		} else {
			m.status = "Task already gone"
		}
		m.confirmDel = false
		m.pendingDel = ""
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.edit = nil
		m.mode = modeAgenda
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.edit.values[m.edit.index] = m.input.Value()
		m.edit.index = wrapIndex(m.edit.index+1, len(m.edit.fields))
		m.syncEditInput()
		return m, nil
	case "shift+tab", "up":
		m.edit.values[m.edit.index] = m.input.Value()
		m.edit.index = wrapIndex(m.edit.index-1, len(m.edit.fields))
		m.syncEditInput()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.edit.values[m.edit.index] = m.input.Value()
		if m.edit.index < len(m.edit.fields)-1 {
			m.edit.index++
			m.syncEditInput()
			return m, nil
		}
		return m.saveEdit()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) syncEditInput() {
	m.input.SetValue(m.edit.values[m.edit.index])
	m.input.Placeholder = m.edit.fields[m.edit.index]
	m.status = fmt.Sprintf("Editing %s (%d/%d)", m.edit.fields[m.edit.index], m.edit.index+1, len(m.edit.fields))
}

func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	t, err := m.edit.toTask(m.today())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	if m.edit.taskID == "" {
		m.set.Add(t)
		m.status = fmt.Sprintf("Added \"%s\"", t.Text)
	} else if m.set.Update(t) {
		m.status = "Saved"
	} else {
		m.status = "Task no longer exists"
	}

	m.edit = nil
	m.mode = modeAgenda
	m.input.Blur()
	m.persist()
	m.refresh()
	return m, nil
}

func editFields() []string {
	return []string{
		"text", "category", "priority (1-3)", "due date (YYYY-MM-DD)",
		"due time (HH:MM)", "recurring (none/daily/monthly/yearly)",
		"notes", "participants (comma separated)", "notify before (y/n)",
	}
}

func newEditState(taskID string, t task.Task) *editState {
	return &editState{
		taskID:  taskID,
		created: t.CreatedAt,
		fields:  editFields(),
		values: []string{
			t.Text,
			t.Category,
			strconv.Itoa(t.Priority),
			t.DueDate,
			t.DueTime,
			t.Recurring.String(),
			t.Notes,
			strings.Join(t.Participants, ", "),
			boolToYN(t.NotifyBefore),
		},
	}
}

// toTask validates the stepper values. Text and priority are hard
// requirements; everything else degrades to a default.
func (es *editState) toTask(today time.Time) (task.Task, error) {
	text := strings.TrimSpace(es.values[0])
	if text == "" {
		return task.Task{}, fmt.Errorf("text cannot be empty")
	}
	priority, err := strconv.Atoi(strings.TrimSpace(es.values[2]))
	if err != nil || priority < task.PriorityHigh || priority > task.PriorityLow {
		return task.Task{}, fmt.Errorf("priority must be 1, 2 or 3")
	}
	due := strings.TrimSpace(es.values[3])
	if due == "" {
		due = today.Format(task.DateLayout)
	} else if _, err := task.ParseDate(due); err != nil {
		return task.Task{}, fmt.Errorf("due date invalid: %v", err)
	}

	t := task.New(text, strings.TrimSpace(es.values[1]), priority, today)
	if es.taskID != "" {
		t.ID = es.taskID
	}
	if !es.created.IsZero() {
		t.CreatedAt = es.created
	}
	t.DueDate = due
	t.DueTime = strings.TrimSpace(es.values[4])
	t.Recurring = task.ParseRecurrence(es.values[5])
	t.Notes = strings.TrimSpace(es.values[6])
	t.Participants = splitParticipants(es.values[7])
	t.NotifyBefore = parseYN(es.values[8])
	return t, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Activity-do"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  [%s]", m.filters[m.filterIdx])))
	b.WriteString("\n\n")

	switch {
	case m.mode == modeArchive:
		b.WriteString(m.renderArchive())
	case len(m.agenda) == 0:
		b.WriteString("Nothing due in the next year. Press 'a' to add a task.")
		b.WriteString("\n")
	default:
		b.WriteString(m.renderAgenda())
	}

	if m.edit != nil {
		b.WriteString("\n")
		b.WriteString(m.renderEditBox())
		b.WriteString("\nField: " + m.edit.fields[m.edit.index])
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderAgenda() string {
	var b strings.Builder
	today := m.today()
	for i, occ := range m.agenda {
		line := fmt.Sprintf("%s %s %s  %s",
			m.cfg.Emoji(occ.Task.Category),
			renderDate(occ.Date, today),
			priorityMark(occ.Task.Priority),
			occ.Task.Text)
		if occ.Task.Recurring != task.RecurNone {
			line += dimStyle.Render(" ↻" + occ.Task.Recurring.String())
		}
		if occ.Task.DueTime != "" {
			line += dimStyle.Render(" @" + occ.Task.DueTime)
		}
		if m.cursor == i && m.mode == modeAgenda {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderArchive() string {
	done := m.set.Completed()
	if len(done) == 0 {
		return "Archive is empty.\n"
	}
	var b strings.Builder
	for i, t := range done {
		line := fmt.Sprintf("%s %s  %s", m.cfg.Emoji(t.Category), t.DueDate, t.Text)
		line = archiveStyle.Render(line)
		if m.cursor == i {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderEditBox() string {
	var b strings.Builder
	for i, name := range m.edit.fields {
		prefix := " "
		if i == m.edit.index {
			prefix = ">"
		}
		val := m.edit.values[i]
		if strings.TrimSpace(val) == "" {
			val = dimStyle.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("%s %-38s : %s\n", prefix, name, val))
	}
	return b.String()
}

func renderDate(d, today time.Time) string {
	s := d.Format(task.DateLayout)
	if d.Equal(today) {
		return todayStyle.Render("today     ")
	}
	return s
}

func priorityMark(p int) string {
	switch p {
	case task.PriorityHigh:
		return highStyle.Render("!!!")
	case task.PriorityMedium:
		return mediumStyle.Render(" !!")
	default:
		return lowStyle.Render("  !")
	}
}

func detailLine(occ task.Occurrence, cfg config.Config) string {
	t := occ.Task
	info := fmt.Sprintf("%s %s • due %s", cfg.Emoji(t.Category), t.Text, occ.Date.Format(task.DateLayout))
	if t.DueTime != "" {
		info += " " + t.DueTime
	}
	if t.Recurring != task.RecurNone {
		info += " • repeats " + t.Recurring.String()
	}
	if len(t.Participants) > 0 {
		info += " • with " + strings.Join(t.Participants, ", ")
	}
	if strings.TrimSpace(t.Notes) != "" {
		info += " • " + t.Notes
	}
	return info
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s complete • %s edit • %s delete • %s filter • %s archive • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Edit, k.Delete, k.Filter, k.Archive, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func nextDueOf(s *task.Set, id string) string {
	for _, t := range s.Live() {
		if t.ID == id {
			return t.DueDate
		}
	}
	return ""
}

func splitParticipants(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseYN(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "true" || v == "1"
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
