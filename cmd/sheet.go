package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mhoersch/hoursheet/internal/tui"
)

var sheetDate string

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Edit a day's timesheet interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(sheetDate)
		if err != nil {
			return err
		}
		client, err := newClient(context.Background())
		if err != nil {
			return err
		}
		return tui.Run(client, date)
	},
}

func init() {
	sheetCmd.Flags().StringVar(&sheetDate, "date", "", "Day to edit, YYYY-MM-DD (default today)")
}
