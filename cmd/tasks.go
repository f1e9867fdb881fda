package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tasksProject string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the open tasks of a project",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

func init() {
	tasksCmd.Flags().StringVar(&tasksProject, "project", "", "Project name (substring match)")
	tasksCmd.MarkFlagRequired("project")
}

func runTasks(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newClient(ctx)
	if err != nil {
		return err
	}
	projects, err := loadProjects(ctx, client)
	if err != nil {
		return err
	}
	project, err := matchProject(projects, tasksProject)
	if err != nil {
		return err
	}
	tasks, err := client.Tasks(ctx, project.ID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Printf("No open tasks on %s.\n", project.Name)
		return nil
	}
	for _, t := range tasks {
		id := "-"
		if t.ID != nil {
			id = fmt.Sprintf("%d", *t.ID)
		}
		fmt.Printf("%8s  %s\n", id, t.Name)
	}
	return nil
}
