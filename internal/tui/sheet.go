package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhoersch/hoursheet/internal/model"
	"github.com/mhoersch/hoursheet/internal/myhours"
	"github.com/mhoersch/hoursheet/internal/timecalc"
	"github.com/mhoersch/hoursheet/internal/timesheet"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4A90E2")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	draftStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)
)

type mode int

const (
	modeTable mode = iota
	modePickProject
	modePickTask
	modeEditDuration
)

// Model is the interactive timesheet. All sheet mutations happen inside
// Update; remote calls run as commands whose results re-enter Update
// tagged with the date (or row) they were issued for, and stale ones are
// dropped.
type Model struct {
	client *myhours.Client

	sheet   timesheet.Sheet
	cursor  int
	loading bool
	errMsg  string

	mode        mode
	completions []model.Completion
	pickCursor  int
	pickRow     int
	query       string
	input       string

	// preCommit holds the sheet as it was before an in-flight commit, so
	// a failed commit can restore the affected row.
	preCommit *timesheet.Sheet

	width  int
	height int
}

// New returns a sheet model for the given ISO date.
func New(client *myhours.Client, date string) Model {
	return Model{client: client, sheet: timesheet.NewSheet(date), loading: true}
}

// Run starts the interactive timesheet for the given ISO date.
func Run(client *myhours.Client, date string) error {
	_, err := tea.NewProgram(New(client, date), tea.WithAltScreen()).Run()
	return err
}

type logsLoadedMsg struct {
	date string
	logs []model.Log
	err  error
}

type projectsLoadedMsg struct {
	completions []model.Completion
	err         error
}

type tasksLoadedMsg struct {
	row         int
	completions []model.Completion
	err         error
}

type taskCreatedMsg struct {
	date string
	row  int
	task model.Task
	err  error
}

type commitDoneMsg struct {
	date   string
	action string
	err    error
}

type deleteDoneMsg struct {
	date string
	err  error
}

func (m Model) loadLogsCmd() tea.Cmd {
	client := m.client
	date := m.sheet.Date
	return func() tea.Msg {
		logs, err := client.LogsForDate(context.Background(), date)
		return logsLoadedMsg{date: date, logs: logs, err: err}
	}
}

func (m Model) loadProjectsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		projects, err := client.Projects(context.Background())
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		cs := make([]model.Completion, 0, len(projects))
		for _, p := range projects {
			cs = append(cs, model.ProjectCompletion(p))
		}
		return projectsLoadedMsg{completions: cs}
	}
}

func (m Model) loadTasksCmd(row int, projectID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		tasks, err := client.Tasks(context.Background(), projectID)
		if err != nil {
			return tasksLoadedMsg{row: row, err: err}
		}
		cs := make([]model.Completion, 0, len(tasks))
		for _, task := range tasks {
			cs = append(cs, model.TaskCompletion(task))
		}
		return tasksLoadedMsg{row: row, completions: cs}
	}
}

func (m Model) createTaskCmd(row int, name string, projectID int64) tea.Cmd {
	client := m.client
	date := m.sheet.Date
	return func() tea.Msg {
		task, err := client.CreateTask(context.Background(), model.Task{Name: name}, projectID)
		return taskCreatedMsg{date: date, row: row, task: task, err: err}
	}
}

func (m Model) createLogCmd(log model.Log) tea.Cmd {
	client := m.client
	date := m.sheet.Date
	return func() tea.Msg {
		_, err := client.CreateLog(context.Background(), log)
		return commitDoneMsg{date: date, action: "add", err: err}
	}
}

func (m Model) editLogCmd(log model.Log) tea.Cmd {
	client := m.client
	date := m.sheet.Date
	return func() tea.Msg {
		_, err := client.EditLog(context.Background(), log)
		return commitDoneMsg{date: date, action: "edit", err: err}
	}
}

func (m Model) deleteLogCmd(id int64) tea.Cmd {
	client := m.client
	date := m.sheet.Date
	return func() tea.Msg {
		return deleteDoneMsg{date: date, err: client.DeleteLog(context.Background(), id)}
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadLogsCmd()
}

// changeDate swaps in a blank sheet for the new date and starts its
// reload. A response still in flight for the old date will miss the
// date comparison in Update and be dropped.
func (m Model) changeDate(date string) (Model, tea.Cmd) {
	m.sheet = timesheet.NewSheet(date)
	m.cursor = 0
	m.loading = true
	m.errMsg = ""
	// A commit still in flight belongs to the old day now; its snapshot
	// must never restore over the new one.
	m.preCommit = nil
	return m, m.loadLogsCmd()
}

// commitEdit applies a field edit to a row and issues the remote commit
// it calls for.
func (m Model) commitEdit(idx int, project *model.Project, task *model.Task, duration *int64) (Model, tea.Cmd) {
	before := m.sheet
	next, row, op := m.sheet.EditRow(idx, project, task, duration, nil)
	m.sheet = next

	switch op {
	case timesheet.OpInsert:
		m.preCommit = &before
		return m, m.createLogCmd(row)
	case timesheet.OpUpdate:
		m.preCommit = &before
		return m, m.editLogCmd(row)
	}
	return m, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case logsLoadedMsg:
		if msg.date != m.sheet.Date {
			// Stale response for a day that is no longer shown.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("failed to load logs: %v", msg.err)
			return m, nil
		}
		m.sheet = m.sheet.Rebuilt(msg.logs)
		if m.cursor >= len(m.sheet.Rows) {
			m.cursor = len(m.sheet.Rows) - 1
		}
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("failed to load projects: %v", msg.err)
			return m, nil
		}
		m.mode = modePickProject
		m.completions = msg.completions
		m.pickCursor = 0
		m.pickRow = m.cursor
		m.query = ""
		return m, nil

	case tasksLoadedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("failed to load tasks: %v", msg.err)
			return m, nil
		}
		m.mode = modePickTask
		m.completions = msg.completions
		m.pickCursor = 0
		m.pickRow = msg.row
		m.query = ""
		return m, nil

	case taskCreatedMsg:
		if msg.date != m.sheet.Date {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("failed to create task: %v", msg.err)
			return m, nil
		}
		if msg.row >= len(m.sheet.Rows) {
			return m, nil
		}
		task := msg.task
		return m.commitEdit(msg.row, nil, &task, nil)

	case commitDoneMsg:
		if msg.date != m.sheet.Date {
			// The day this commit was issued for is no longer shown.
			return m, nil
		}
		if msg.err != nil {
			if m.preCommit != nil {
				m.sheet = *m.preCommit
				m.preCommit = nil
			}
			m.errMsg = fmt.Sprintf("failed to %s log: %v", msg.action, msg.err)
			return m, nil
		}
		m.preCommit = nil
		m.sheet.NeedsReload = true
		m.loading = true
		return m, m.loadLogsCmd()

	case deleteDoneMsg:
		if msg.date != m.sheet.Date {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("failed to delete log: %v", msg.err)
			return m, nil
		}
		m.sheet.NeedsReload = true
		m.loading = true
		return m, m.loadLogsCmd()

	case tea.KeyMsg:
		switch m.mode {
		case modePickProject, modePickTask:
			return m.updatePicker(msg)
		case modeEditDuration:
			return m.updateDurationEditor(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.sheet.Rows)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "h", "left":
		day, err := timecalc.ParseISODate(m.sheet.Date)
		if err != nil {
			day = timecalc.UTCMidnight(time.Now())
		}
		return m.changeDate(timecalc.ISODate(timecalc.PreviousDay(day)))

	case "l", "right":
		day, err := timecalc.ParseISODate(m.sheet.Date)
		if err != nil {
			day = timecalc.UTCMidnight(time.Now())
		}
		return m.changeDate(timecalc.ISODate(timecalc.NextDay(day)))

	case "r":
		m.loading = true
		m.errMsg = ""
		return m, m.loadLogsCmd()

	case "p":
		m.errMsg = ""
		return m, m.loadProjectsCmd()

	case "t":
		row := m.sheet.Rows[m.cursor]
		if row.ProjectID == nil {
			m.errMsg = "select a project first"
			return m, nil
		}
		m.errMsg = ""
		return m, m.loadTasksCmd(m.cursor, *row.ProjectID)

	case "e", "enter":
		row := m.sheet.Rows[m.cursor]
		if row.ProjectID == nil {
			m.errMsg = "select a project first"
			return m, nil
		}
		m.mode = modeEditDuration
		m.errMsg = ""
		m.input = ""
		if row.Duration > 0 {
			m.input = timecalc.FormatDuration(row.Duration)
		}
		return m, nil

	case "d":
		row := m.sheet.Rows[m.cursor]
		if row.ID == nil {
			// Draft rows only exist locally.
			return m, nil
		}
		m.errMsg = ""
		return m, m.deleteLogCmd(*row.ID)
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtered := model.FilterCompletions(m.completions, m.query)
	freeText := m.mode == modePickTask && strings.TrimSpace(m.query) != ""
	count := len(filtered)
	if freeText {
		count++
	}

	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = modeTable
		return m, nil

	case "down", "ctrl+n":
		if m.pickCursor < count-1 {
			m.pickCursor++
		}
		return m, nil

	case "up", "ctrl+p":
		if m.pickCursor > 0 {
			m.pickCursor--
		}
		return m, nil

	case "backspace":
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
			m.pickCursor = 0
		}
		return m, nil

	case "enter":
		if count == 0 || m.pickCursor >= count || m.pickRow >= len(m.sheet.Rows) {
			m.mode = modeTable
			return m, nil
		}

		var chosen model.Completion
		if m.pickCursor < len(filtered) {
			chosen = filtered[m.pickCursor]
		} else {
			chosen = model.FreeTextCompletion(strings.TrimSpace(m.query))
		}

		row := m.pickRow
		wasTaskPick := m.mode == modePickTask
		m.mode = modeTable

		switch chosen.Kind {
		case model.CompletionProject:
			return m.commitEdit(row, chosen.Project, nil, nil)
		case model.CompletionTask:
			return m.commitEdit(row, nil, chosen.Task, nil)
		case model.CompletionFreeText:
			if !wasTaskPick {
				return m, nil
			}
			projectID := m.sheet.Rows[row].ProjectID
			if projectID == nil {
				return m, nil
			}
			// Naming a draft task creates it remotely first.
			return m, m.createTaskCmd(row, chosen.Title, *projectID)
		}
		return m, nil

	default:
		if msg.Type == tea.KeyRunes {
			m.query += string(msg.Runes)
			m.pickCursor = 0
		}
		return m, nil
	}
}

func (m Model) updateDurationEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = modeTable
		return m, nil

	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	case "enter":
		seconds, err := timecalc.ParseDuration(m.input)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.mode = modeTable
		return m.commitEdit(m.cursor, nil, nil, &seconds)

	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		}
		return m, nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	day, err := timecalc.ParseISODate(m.sheet.Date)
	title := m.sheet.Date
	if err == nil {
		title = timecalc.FormatDateWithWeekday(day)
	}
	b.WriteString(headerStyle.Render("Timesheet " + title))
	b.WriteString("\n\n")

	switch m.mode {
	case modePickProject, modePickTask:
		b.WriteString(m.viewPicker())
	case modeEditDuration:
		b.WriteString(m.viewTable())
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Duration (H:MM): ") + m.input + "▏")
	default:
		b.WriteString(m.viewTable())
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(helpStyle.Render("loading…"))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("←/→ day · j/k row · p project · t task · e duration · d delete · r reload · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTable() string {
	var b strings.Builder

	header := fmt.Sprintf("  %-24s %-24s %8s", "PROJECT", "TASK", "TIME")
	b.WriteString(helpStyle.Render(header))
	b.WriteString("\n")

	for i, row := range m.sheet.Rows {
		project := row.ProjectName
		if project == "" {
			project = "—"
		}
		task := row.TaskName
		if task == "" {
			task = "—"
		}
		duration := ""
		if row.Duration > 0 {
			duration = timecalc.FormatDuration(row.Duration)
		}

		line := fmt.Sprintf("  %-24.24s %-24.24s %8s", project, task, duration)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render("▸" + line[1:])
		case row.ID == nil:
			line = draftStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(totalStyle.Render(fmt.Sprintf("  %-49s %8s", "total", timecalc.FormatDuration(m.sheet.Total()))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewPicker() string {
	var b strings.Builder

	what := "project"
	if m.mode == modePickTask {
		what = "task"
	}
	b.WriteString(promptStyle.Render(fmt.Sprintf("Select %s: ", what)) + m.query + "▏")
	b.WriteString("\n\n")

	filtered := model.FilterCompletions(m.completions, m.query)
	for i, c := range filtered {
		line := "  " + c.Title
		if i == m.pickCursor {
			line = selectedStyle.Render("▸ " + c.Title)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.mode == modePickTask && strings.TrimSpace(m.query) != "" {
		line := fmt.Sprintf("  create %q", strings.TrimSpace(m.query))
		if m.pickCursor == len(filtered) {
			line = selectedStyle.Render("▸ " + line[2:])
		}
		b.WriteString(draftStyle.Render(line))
		b.WriteString("\n")
	}

	if len(filtered) == 0 && m.mode == modePickProject {
		b.WriteString(helpStyle.Render("  no matching projects"))
		b.WriteString("\n")
	}
	return b.String()
}
