package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mhoersch/hoursheet/internal/model"
)

func loadedModel(t *testing.T, date string, logs []model.Log) Model {
	t.Helper()
	next, _ := New(nil, date).Update(logsLoadedMsg{date: date, logs: logs})
	return next.(Model)
}

func persistedRow(id, projectID int64, project string, duration int64) model.Log {
	return model.Log{
		ID:          &id,
		Date:        "2026-02-27",
		ProjectID:   &projectID,
		ProjectName: project,
		Duration:    duration,
	}
}

func TestStaleFailedCommitKeepsActiveDay(t *testing.T) {
	// A commit issued for one day must not restore its snapshot after
	// the user has navigated to another day.
	m := loadedModel(t, "2026-02-27", []model.Log{persistedRow(7, 42, "Internal", 3600)})

	dur := int64(5400)
	m, _ = m.commitEdit(0, nil, nil, &dur)
	if m.preCommit == nil {
		t.Fatal("expected a snapshot while the commit is in flight")
	}

	m, _ = m.changeDate("2026-02-28")
	if m.preCommit != nil {
		t.Fatal("date change should discard the in-flight commit snapshot")
	}

	next, cmd := m.Update(commitDoneMsg{date: "2026-02-27", action: "edit", err: errors.New("boom")})
	m = next.(Model)
	if m.sheet.Date != "2026-02-28" {
		t.Fatalf("active date = %q after stale failed commit, want 2026-02-28", m.sheet.Date)
	}
	if cmd != nil {
		t.Error("stale commit result should not schedule anything")
	}
	if m.errMsg != "" {
		t.Errorf("stale commit result should not surface an error, got %q", m.errMsg)
	}
}

func TestStaleCommitSuccessDropped(t *testing.T) {
	m := loadedModel(t, "2026-02-27", []model.Log{persistedRow(7, 42, "Internal", 3600)})
	m, _ = m.changeDate("2026-02-28")

	next, cmd := m.Update(commitDoneMsg{date: "2026-02-27", action: "add"})
	m = next.(Model)
	if m.sheet.Date != "2026-02-28" {
		t.Fatalf("active date = %q, want 2026-02-28", m.sheet.Date)
	}
	if cmd != nil {
		t.Error("stale commit result should not trigger a reload")
	}
}

func TestStaleDeleteResultDropped(t *testing.T) {
	m := loadedModel(t, "2026-02-27", []model.Log{persistedRow(7, 42, "Internal", 3600)})
	m, _ = m.changeDate("2026-02-28")

	next, cmd := m.Update(deleteDoneMsg{date: "2026-02-27"})
	m = next.(Model)
	if m.sheet.Date != "2026-02-28" {
		t.Fatalf("active date = %q, want 2026-02-28", m.sheet.Date)
	}
	if cmd != nil {
		t.Error("stale delete result should not trigger a reload")
	}
}

func TestStaleTaskCreationDropped(t *testing.T) {
	m := loadedModel(t, "2026-02-27", []model.Log{persistedRow(7, 42, "Internal", 3600)})
	m, _ = m.changeDate("2026-02-28")

	taskID := int64(9)
	next, cmd := m.Update(taskCreatedMsg{
		date: "2026-02-27",
		row:  0,
		task: model.Task{ID: &taskID, Name: "Refactor", ProjectID: 42},
	})
	m = next.(Model)
	if m.sheet.Rows[0].TaskName != "" {
		t.Errorf("stale task creation edited row 0: task = %q", m.sheet.Rows[0].TaskName)
	}
	if cmd != nil {
		t.Error("stale task creation should not schedule a commit")
	}
}

func TestFailedCommitRestoresRow(t *testing.T) {
	m := loadedModel(t, "2026-02-27", []model.Log{persistedRow(7, 42, "Internal", 3600)})

	dur := int64(5400)
	m, _ = m.commitEdit(0, nil, nil, &dur)

	next, _ := m.Update(commitDoneMsg{date: "2026-02-27", action: "edit", err: errors.New("boom")})
	m = next.(Model)
	if got := m.sheet.Rows[0].Duration; got != 3600 {
		t.Errorf("row duration = %d after failed commit, want the pre-edit 3600", got)
	}
	if !strings.Contains(m.errMsg, "failed to edit log") {
		t.Errorf("errMsg = %q, want a failed-edit message", m.errMsg)
	}
	if m.preCommit != nil {
		t.Error("snapshot should be released after the failed commit is handled")
	}
}
