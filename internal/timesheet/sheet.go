package timesheet

import "github.com/mhoersch/hoursheet/internal/model"

// Sheet is the editable row collection for one calendar day. The last
// row is always a blank draft hosting the next new entry; rows with an
// id mirror last-known server state. Sheets are values: every transition
// returns a new Sheet and leaves the receiver untouched.
type Sheet struct {
	Date        string
	Rows        []model.Log
	NeedsReload bool
}

// NewSheet returns a sheet for date holding only the blank trailing row.
func NewSheet(date string) Sheet {
	return Sheet{
		Date:        date,
		Rows:        []model.Log{{Date: date}},
		NeedsReload: true,
	}
}

// Rebuilt replaces the rows with the fetched logs followed by a fresh
// blank row and clears the reload flag.
func (s Sheet) Rebuilt(fetched []model.Log) Sheet {
	rows := make([]model.Log, 0, len(fetched)+1)
	rows = append(rows, fetched...)
	rows = append(rows, model.Log{Date: s.Date})
	s.Rows = rows
	s.NeedsReload = false
	return s
}

// Total returns the summed duration of all rows in seconds.
func (s Sheet) Total() int64 {
	var total int64
	for _, row := range s.Rows {
		total += row.Duration
	}
	return total
}

// Op is the remote commit a row edit calls for.
type Op int

const (
	// OpNone leaves the row a draft; nothing is sent.
	OpNone Op = iota
	// OpInsert persists the row for the first time.
	OpInsert
	// OpUpdate pushes the edit to the already persisted row.
	OpUpdate
)

// applyEdit merges an optional project, task, duration and note change
// into a row. A project change invalidates the previous task assignment,
// which was scoped to the old project.
func applyEdit(row model.Log, project *model.Project, task *model.Task, duration *int64, note *string) model.Log {
	if project != nil {
		if row.ProjectID == nil || *row.ProjectID != project.ID {
			row.TaskID = nil
			row.TaskName = ""
		}
		id := project.ID
		row.ProjectID = &id
		row.ProjectName = project.Name
		row.ClientName = project.ClientName
	}

	if task != nil {
		row.TaskID = task.ID
		row.TaskName = task.Name
	}

	if duration != nil {
		row.Duration = *duration
	}

	if note != nil {
		row.Note = *note
	}

	return row
}

// commitOp decides whether an edited row needs an insert, an update or
// nothing. A row is inserted once it has a project and a nonzero
// duration but no id yet; a persisted row is updated on every edit.
func commitOp(row model.Log) Op {
	if row.ID != nil {
		return OpUpdate
	}
	if row.ProjectID != nil && row.Duration > 0 {
		return OpInsert
	}
	return OpNone
}

// EditRow applies an edit to row idx and returns the new sheet, the
// edited row and the commit op it calls for. On OpInsert the returned
// sheet already carries the fresh trailing blank row.
func (s Sheet) EditRow(idx int, project *model.Project, task *model.Task, duration *int64, note *string) (Sheet, model.Log, Op) {
	row := applyEdit(s.Rows[idx], project, task, duration, note)

	op := commitOp(row)

	rows := make([]model.Log, len(s.Rows), len(s.Rows)+1)
	copy(rows, s.Rows)
	rows[idx] = row
	if op == OpInsert {
		rows = append(rows, model.Log{Date: s.Date})
	}
	s.Rows = rows

	return s, row, op
}
