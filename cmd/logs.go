package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhoersch/hoursheet/internal/model"
	"github.com/mhoersch/hoursheet/internal/timecalc"
	"github.com/mhoersch/hoursheet/internal/timesheet"
)

var logsDate string

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List the logs of a day",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().StringVar(&logsDate, "date", "", "Day to list, YYYY-MM-DD (default today)")
}

func resolveDate(flag string) (string, error) {
	if flag == "" {
		return timecalc.Today(), nil
	}
	day, err := timecalc.ParseISODate(flag)
	if err != nil {
		return "", err
	}
	return timecalc.ISODate(day), nil
}

func printLog(log model.Log) {
	id := "-"
	if log.ID != nil {
		id = fmt.Sprintf("%d", *log.ID)
	}
	fmt.Printf("%8s  %-30s  %-30s  %6s  %s\n",
		id, log.ProjectName, log.TaskName, timecalc.FormatDuration(log.Duration), log.Note)
}

func runLogs(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(logsDate)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	engine := timesheet.New(client, date)
	if err := engine.Reload(ctx); err != nil {
		return err
	}

	sheet := engine.Sheet()
	for _, log := range sheet.Rows {
		if log.Empty() {
			continue
		}
		printLog(log)
	}
	fmt.Printf("%s total: %s\n", date, timecalc.FormatDuration(sheet.Total()))
	return nil
}
