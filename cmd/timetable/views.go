package main

import (
	"fmt"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/heatmap"
	"github.com/Veraticus/timetable/internal/schedule"
	"github.com/spf13/cobra"
)

func gridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Show the weekly grid of the filtered sections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			grid := schedule.BuildWeekly(ds.rows)
			if len(grid.Slots) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No meetings with readable days and times"))
				return nil
			}
			fmt.Fprintln(out, cli.FormatTitle(title("Weekly timetable", ds.semester)))
			fmt.Fprintln(out, cli.RenderWeekly(grid))
			return nil
		},
	}
}

func examsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exams",
		Short: "Show the final exam schedule grouped by week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			grid := schedule.BuildExamGrid(ds.rows)
			if len(grid.Dates) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No exams scheduled for the current filters"))
				return nil
			}
			fmt.Fprintln(out, cli.FormatTitle(title("Final exams", ds.semester)))
			fmt.Fprintln(out, cli.RenderExamGrid(grid))
			return nil
		},
	}
}

func heatmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show concurrent sections per hall in 10-minute buckets",
		Long: `Show how many distinct sections are running in each selected hall, per
weekday, in 10-minute buckets from 08:00 to 22:00.

Without --hall the first halls in alphabetical order are shown.`,
		RunE: runHeatmap,
	}

	cmd.Flags().StringSlice("hall", nil, "Halls to include")

	return cmd
}

func runHeatmap(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	halls, _ := cmd.Flags().GetStringSlice("hall")
	if len(halls) == 0 {
		halls = heatmap.DefaultSelection(heatmap.HallOptions(ds.rows))
	}
	if len(halls) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No halls in the current filters"))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle(title("Hall usage", ds.semester)))
	fmt.Fprintln(out, cli.RenderHeatmap(heatmap.Build(ds.rows, halls)))
	return nil
}

func title(name, semester string) string {
	if semester == "" {
		return name
	}
	return name + " · " + semester
}
