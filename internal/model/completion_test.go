package model_test

import (
	"testing"

	"github.com/mhoersch/hoursheet/internal/model"
)

func int64ptr(v int64) *int64 { return &v }

func TestCompletionConstructors(t *testing.T) {
	p := model.ProjectCompletion(model.Project{ID: 42, Name: "Website"})
	if p.Kind != model.CompletionProject || p.Title != "Website" || p.Project == nil {
		t.Errorf("ProjectCompletion = %+v", p)
	}

	task := model.TaskCompletion(model.Task{ID: int64ptr(7), Name: "Refactor"})
	if task.Kind != model.CompletionTask || task.Title != "Refactor" || task.Task == nil {
		t.Errorf("TaskCompletion = %+v", task)
	}

	free := model.FreeTextCompletion("Write docs")
	if free.Kind != model.CompletionFreeText || free.Title != "Write docs" {
		t.Errorf("FreeTextCompletion = %+v", free)
	}
	if free.Project != nil || free.Task != nil {
		t.Errorf("free-text completion carries an entity: %+v", free)
	}
}

func TestFilterCompletions(t *testing.T) {
	cs := []model.Completion{
		model.ProjectCompletion(model.Project{ID: 1, Name: "Website"}),
		model.ProjectCompletion(model.Project{ID: 2, Name: "Backend"}),
		model.ProjectCompletion(model.Project{ID: 3, Name: "web crawler"}),
	}

	got := model.FilterCompletions(cs, "web")
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2", len(got))
	}
	if got[0].Title != "Website" || got[1].Title != "web crawler" {
		t.Errorf("matches = %+v", got)
	}

	if got := model.FilterCompletions(cs, ""); len(got) != 3 {
		t.Errorf("empty query matches = %d, want all 3", len(got))
	}
	if got := model.FilterCompletions(cs, "zzz"); len(got) != 0 {
		t.Errorf("no-match query = %+v, want none", got)
	}
}

func TestLogPredicates(t *testing.T) {
	blank := model.Log{Date: "2026-02-27"}
	if !blank.Empty() || blank.Persisted() {
		t.Errorf("blank = %+v", blank)
	}

	draft := model.Log{Date: "2026-02-27", ProjectID: int64ptr(42)}
	if draft.Empty() || draft.Persisted() {
		t.Errorf("draft = %+v", draft)
	}

	persisted := model.Log{ID: int64ptr(1), Date: "2026-02-27"}
	if persisted.Empty() || !persisted.Persisted() {
		t.Errorf("persisted = %+v", persisted)
	}
}
