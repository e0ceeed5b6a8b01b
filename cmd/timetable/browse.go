package main

import (
	"fmt"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/tui"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the filtered rows in an interactive table",
		Long: `Open a full-screen table of the filtered rows.

Press / to search course code, name, instructor and hall, Enter to see every
field of a row, ? for help and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			if len(ds.rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No rows match the current filters"))
				return nil
			}
			return tui.Browse(cmd.Context(), ds.rows, tui.WithTitle(title("Timetable", ds.semester)))
		},
	}
}
