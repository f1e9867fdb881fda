package model

// Log represents a single time log as known to the MyHours API.
// A Log without an ID is a draft that has not been persisted remotely;
// one with an ID mirrors the last-known server state.
type Log struct {
	ID          *int64 `json:"id,omitempty"`
	Date        string `json:"date,omitempty"` // ISO calendar day, e.g. "2026-08-30"
	ProjectID   *int64 `json:"projectId,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	TaskID      *int64 `json:"taskId,omitempty"`
	TaskName    string `json:"taskName,omitempty"`
	Duration    int64  `json:"duration,omitempty"` // seconds
	Running     bool   `json:"running,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
	Note        string `json:"note,omitempty"`
	Billable    *bool  `json:"billable,omitempty"`
}

// Persisted reports whether the log exists remotely.
func (l Log) Persisted() bool {
	return l.ID != nil
}

// Empty reports whether the log carries no user input at all. The
// trailing placeholder row of a timesheet is exactly an empty draft.
func (l Log) Empty() bool {
	return l.ID == nil && l.ProjectID == nil && l.TaskID == nil && l.Duration == 0
}

// Project is a MyHours project.
type Project struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"clientName,omitempty"`
}

// Task is a task under a project. ID is nil until the server assigns one.
type Task struct {
	ID        *int64 `json:"id,omitempty"`
	Name      string `json:"name"`
	ProjectID int64  `json:"projectId,omitempty"`
}
