package timesheet

import (
	"context"
	"fmt"

	"github.com/mhoersch/hoursheet/internal/model"
)

// Store is the remote surface the engine drives. *myhours.Client
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	LogsForDate(ctx context.Context, date string) ([]model.Log, error)
	CreateLog(ctx context.Context, log model.Log) (model.Log, error)
	EditLog(ctx context.Context, log model.Log) (model.Log, error)
	DeleteLog(ctx context.Context, id int64) error
	CreateTask(ctx context.Context, task model.Task, projectID int64) (model.Task, error)
}

// Engine reconciles the sheet for the active date with the remote store.
// It is driven from a single goroutine; there is no locking. Only one
// authoritative sheet exists at a time, and a reload result that belongs
// to a date no longer active is dropped rather than cancelled.
type Engine struct {
	store Store
	sheet Sheet
}

// New returns an engine showing a blank sheet for date, pending reload.
func New(store Store, date string) *Engine {
	return &Engine{store: store, sheet: NewSheet(date)}
}

// Sheet returns the current sheet.
func (e *Engine) Sheet() Sheet {
	return e.sheet
}

// ChangeDate replaces the sheet with a blank one for the new date and
// schedules a reload. A reload still in flight for the old date is
// discarded when it resolves.
func (e *Engine) ChangeDate(date string) {
	e.sheet = NewSheet(date)
}

// Reload fetches the logs for the active date when a reload is due.
func (e *Engine) Reload(ctx context.Context) error {
	if !e.sheet.NeedsReload {
		return nil
	}

	date := e.sheet.Date
	logs, err := e.store.LogsForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load logs: %w", err)
	}

	e.ApplyReload(date, logs)
	return nil
}

// ApplyReload merges a reload result into the sheet and reports whether
// it was applied. A result for a date that is no longer active is
// discarded, so a slow response for a previously viewed day can never
// overwrite the current one.
func (e *Engine) ApplyReload(date string, logs []model.Log) bool {
	if date != e.sheet.Date {
		return false
	}
	e.sheet = e.sheet.Rebuilt(logs)
	return true
}

// ChangeProject assigns a project to row idx.
func (e *Engine) ChangeProject(ctx context.Context, idx int, project model.Project) error {
	return e.edit(ctx, idx, &project, nil, nil, nil)
}

// ChangeTask assigns a task to row idx. A task with no server id yet is
// created remotely under the row's project first; if the row has no
// project the edit is not performed.
func (e *Engine) ChangeTask(ctx context.Context, idx int, task model.Task) error {
	if idx < 0 || idx >= len(e.sheet.Rows) {
		return fmt.Errorf("no row %d", idx)
	}

	if task.ID == nil {
		projectID := e.sheet.Rows[idx].ProjectID
		if projectID == nil {
			return nil
		}
		created, err := e.store.CreateTask(ctx, task, *projectID)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		task.ID = created.ID
	}

	return e.edit(ctx, idx, nil, &task, nil, nil)
}

// ChangeDuration sets row idx's duration in seconds.
func (e *Engine) ChangeDuration(ctx context.Context, idx int, seconds int64) error {
	return e.edit(ctx, idx, nil, nil, &seconds, nil)
}

// ChangeNote sets row idx's free-text note.
func (e *Engine) ChangeNote(ctx context.Context, idx int, note string) error {
	return e.edit(ctx, idx, nil, nil, nil, &note)
}

// DeleteRow deletes a persisted row remotely. Deleting a draft row is a
// no-op.
func (e *Engine) DeleteRow(ctx context.Context, idx int) error {
	if idx < 0 || idx >= len(e.sheet.Rows) {
		return fmt.Errorf("no row %d", idx)
	}

	row := e.sheet.Rows[idx]
	if row.ID == nil {
		return nil
	}

	if err := e.store.DeleteLog(ctx, *row.ID); err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}

	e.sheet.NeedsReload = true
	return nil
}

// edit applies a field edit and performs the commit it calls for. A
// failed commit restores the affected row to its pre-edit state; other
// rows are never touched.
func (e *Engine) edit(ctx context.Context, idx int, project *model.Project, task *model.Task, duration *int64, note *string) error {
	if idx < 0 || idx >= len(e.sheet.Rows) {
		return fmt.Errorf("no row %d", idx)
	}

	before := e.sheet
	next, row, op := e.sheet.EditRow(idx, project, task, duration, note)
	e.sheet = next

	switch op {
	case OpInsert:
		if _, err := e.store.CreateLog(ctx, row); err != nil {
			e.sheet = before
			return fmt.Errorf("failed to add log: %w", err)
		}
	case OpUpdate:
		if _, err := e.store.EditLog(ctx, row); err != nil {
			e.sheet = before
			return fmt.Errorf("failed to edit log: %w", err)
		}
	default:
		return nil
	}

	e.sheet.NeedsReload = true
	return nil
}
