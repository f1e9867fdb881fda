package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <log-id>",
	Short: "Delete a log by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid log ID %q", args[0])
		}

		ctx := context.Background()
		client, err := newClient(ctx)
		if err != nil {
			return err
		}
		if err := client.DeleteLog(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted log %d.\n", id)
		return nil
	},
}
