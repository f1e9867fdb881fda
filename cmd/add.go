package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhoersch/hoursheet/internal/model"
	"github.com/mhoersch/hoursheet/internal/myhours"
	"github.com/mhoersch/hoursheet/internal/timecalc"
	"github.com/mhoersch/hoursheet/internal/timesheet"
)

var (
	addProject  string
	addTask     string
	addDuration string
	addNote     string
	addDate     string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a log to a day",
	Long: `Add a log to a day. The project is matched by name against your
MyHours projects; the task is matched against the project's open tasks and
created on the fly when nothing matches.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addProject, "project", "", "Project name (substring match)")
	addCmd.Flags().StringVar(&addTask, "task", "", "Task name, created when unknown")
	addCmd.Flags().StringVar(&addDuration, "duration", "", "Duration as H or H:MM")
	addCmd.Flags().StringVar(&addNote, "note", "", "Free-text note")
	addCmd.Flags().StringVar(&addDate, "date", "", "Day to log on, YYYY-MM-DD (default today)")
	addCmd.MarkFlagRequired("project")
	addCmd.MarkFlagRequired("duration")
}

// matchProject resolves a name to exactly one project, by case-insensitive
// substring. An exact name match wins over an ambiguous substring.
func matchProject(projects []model.Project, name string) (model.Project, error) {
	var matches []model.Project
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return model.Project{}, fmt.Errorf("no project matches %q", name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, p := range matches {
			names[i] = p.Name
		}
		return model.Project{}, fmt.Errorf("project %q is ambiguous: %s", name, strings.Join(names, ", "))
	}
}

// matchTask resolves a name against a project's open tasks. An unknown name
// comes back without an ID so the engine creates the task remotely.
func matchTask(ctx context.Context, client *myhours.Client, project model.Project, name string) (model.Task, error) {
	tasks, err := client.Tasks(ctx, project.ID)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range tasks {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return model.Task{Name: name, ProjectID: project.ID}, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(addDate)
	if err != nil {
		return err
	}
	seconds, err := timecalc.ParseDuration(addDuration)
	if err != nil {
		return err
	}
	if seconds <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	ctx := context.Background()
	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	projects, err := loadProjects(ctx, client)
	if err != nil {
		return err
	}
	project, err := matchProject(projects, addProject)
	if err != nil {
		return err
	}

	engine := timesheet.New(client, date)
	if err := engine.Reload(ctx); err != nil {
		return err
	}

	// The trailing blank row is the slot for the new log.
	idx := len(engine.Sheet().Rows) - 1
	if err := engine.ChangeProject(ctx, idx, project); err != nil {
		return err
	}
	if addTask != "" {
		task, err := matchTask(ctx, client, project, addTask)
		if err != nil {
			return err
		}
		if err := engine.ChangeTask(ctx, idx, task); err != nil {
			return err
		}
	}
	if addNote != "" {
		if err := engine.ChangeNote(ctx, idx, addNote); err != nil {
			return err
		}
	}
	if err := engine.ChangeDuration(ctx, idx, seconds); err != nil {
		return err
	}

	fmt.Printf("Logged %s on %s for %s.\n", timecalc.FormatDuration(seconds), project.Name, date)
	return nil
}
