package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/tui/components"
	"github.com/spf13/cobra"
)

var rowHeaders = []string{"Code", "Sec", "Course", "Instructor", "Days", "Time", "Hall", "Enrolled"}

func rowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "List canonical section rows",
		Long: `List the normalized timetable rows after the global filters.

--grep narrows the list to rows whose course code, course name, instructor
or hall matches a case-insensitive regular expression.`,
		RunE: runRows,
	}

	cmd.Flags().String("grep", "", "Search code, name, instructor and hall")
	cmd.Flags().Int("limit", 0, "Show at most this many rows (0 shows all)")

	return cmd
}

func runRows(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("grep")
	limit, _ := cmd.Flags().GetInt("limit")

	rows := components.FilterRows(ds.rows, query)
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No rows match the current filters"))
		return nil
	}

	shown := rows
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	fmt.Fprintln(out, cli.RenderTable(rowHeaders, rowCells(shown)))
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d of %d rows", len(shown), len(rows))))
	return nil
}

func rowCells(rows []model.Row) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		clock := r.Text(model.FieldStartTime)
		if end := r.Text(model.FieldEndTime); end != "" {
			clock += "-" + end
		}
		enrolled := ""
		if v := r.Get(model.FieldStudentsInSection); !v.IsNull() {
			enrolled = strconv.FormatFloat(v.Float(), 'f', -1, 64)
		}
		cells = append(cells, []string{
			r.Text(model.FieldCourseCode),
			r.Text(model.FieldSection),
			r.Text(model.FieldCourseName),
			r.Text(model.FieldInstructor),
			r.Text(model.FieldDay),
			clock,
			r.Text(model.FieldHall),
			enrolled,
		})
	}
	return cells
}
