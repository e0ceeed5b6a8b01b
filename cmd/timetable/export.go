package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/config"
	"github.com/Veraticus/timetable/internal/export"
	"github.com/Veraticus/timetable/internal/schedule"
	"github.com/Veraticus/timetable/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered rows to CSV, SQLite or iCalendar",
		Long: `Export the filtered timetable.

--format csv     one record per row, in the data table's column order
--format sqlite  appends the rows as a new export in a SQLite file
--format ics     one calendar event per course per exam slot`,
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "csv", "Export format (csv, sqlite, ics)")
	cmd.Flags().StringP("output", "o", "", "Output file (default depends on the format)")
	cmd.Flags().Bool("source-columns", false, "CSV: keep every source column under its sheet header")

	_ = viper.BindPFlag("export.sqlite_path", cmd.Flags().Lookup("output"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	if len(ds.rows) == 0 {
		return fmt.Errorf("nothing to export: no rows match the current filters")
	}

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	switch strings.ToLower(format) {
	case "csv":
		if output == "" {
			output = export.FileName("timetable", ds.semester, len(ds.rows))
		}
		return exportFile(cmd, config.ExpandPath(output), func(w io.Writer) error {
			columns := export.ScheduleColumns
			if all, _ := cmd.Flags().GetBool("source-columns"); all {
				columns = export.ColumnsFor(ds.columns)
			}
			return export.WriteCSV(w, columns, ds.rows)
		})

	case "ics":
		if output == "" {
			output = strings.TrimSuffix(export.FileName("exams", ds.semester, len(ds.rows)), ".csv") + ".ics"
		}
		cal := export.NewCalendar(title("Final exams", ds.semester), ds.location)
		cal.AddExams(schedule.BuildExamGrid(ds.rows))
		if cal.Len() == 0 {
			return fmt.Errorf("nothing to export: no exams in the current filters")
		}
		return exportFile(cmd, config.ExpandPath(output), func(w io.Writer) error {
			_, err := cal.WriteTo(w)
			return err
		})

	case "sqlite":
		return exportSQLite(cmd, ds)
	}
	return fmt.Errorf("invalid format %q: use csv, sqlite or ics", format)
}

// exportFile writes path through write, removing it if the export fails or
// is interrupted.
func exportFile(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "Export", path)

	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			common.LogError(rmErr, "Failed to remove partial export", common.Fields{"path": path})
		}
		return fmt.Errorf("export to %s failed: %w", path, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported to "+path))
	return nil
}

func exportSQLite(cmd *cobra.Command, ds *dataset) error {
	path := viper.GetString("export.sqlite_path")
	if path == "" {
		path = config.DefaultSQLitePath()
	}
	path = config.ExpandPath(path)

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "Export", "")

	store, err := storage.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}()

	bar := progressbar.NewOptions(len(ds.rows),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Saving sections"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	id, err := store.SaveSections(ctx, ds.semester, ds.source, ds.rows, func(n int) {
		_ = bar.Set(n)
	})
	_ = bar.Finish()
	if err != nil {
		if handler.WasInterrupted() || errors.Is(err, ctx.Err()) {
			return fmt.Errorf("export interrupted, nothing was saved: %w", err)
		}
		return fmt.Errorf("failed to save sections: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %d rows as export %d in %s", len(ds.rows), id, path)))
	return nil
}
