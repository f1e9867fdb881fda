package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhoersch/hoursheet/internal/config"
	"github.com/mhoersch/hoursheet/internal/storage"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		client, err := newClient(ctx)
		if err != nil {
			return err
		}
		// Listing always fetches live and refreshes the local cache.
		projects, err := client.Projects(ctx)
		if err != nil {
			return err
		}
		if base, err := config.BaseDir(); err == nil {
			_ = storage.SaveProjects(base, projects)
		}
		for _, p := range projects {
			if p.ClientName != "" {
				fmt.Printf("%8d  %s (%s)\n", p.ID, p.Name, p.ClientName)
			} else {
				fmt.Printf("%8d  %s\n", p.ID, p.Name)
			}
		}
		return nil
	},
}
