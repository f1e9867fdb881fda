package model

import "strings"

// CompletionKind tags the concrete entity behind a Completion.
type CompletionKind int

const (
	CompletionProject CompletionKind = iota
	CompletionTask
	CompletionFreeText
)

// Completion is an ephemeral search result resolving free-text input to
// a Project or Task. A free-text completion carries only a title and
// stands for a task that does not exist remotely yet.
type Completion struct {
	Kind    CompletionKind
	Title   string
	Project *Project
	Task    *Task
}

// ProjectCompletion wraps a project for selection.
func ProjectCompletion(p Project) Completion {
	return Completion{Kind: CompletionProject, Title: p.Name, Project: &p}
}

// TaskCompletion wraps an existing task for selection.
func TaskCompletion(t Task) Completion {
	return Completion{Kind: CompletionTask, Title: t.Name, Task: &t}
}

// FreeTextCompletion stands for a task name typed by the user that
// matched nothing; selecting it creates the task remotely.
func FreeTextCompletion(title string) Completion {
	return Completion{Kind: CompletionFreeText, Title: title}
}

// FilterCompletions returns the completions whose titles contain query,
// case-insensitively. An empty query matches everything.
func FilterCompletions(cs []Completion, query string) []Completion {
	if strings.TrimSpace(query) == "" {
		return cs
	}
	q := strings.ToLower(query)
	var out []Completion
	for _, c := range cs {
		if strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, c)
		}
	}
	return out
}
