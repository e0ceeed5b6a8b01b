package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/config"
	"github.com/Veraticus/timetable/internal/export"
	"github.com/Veraticus/timetable/internal/planner"
	"github.com/Veraticus/timetable/internal/schedule"
	"github.com/spf13/cobra"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a personal timetable from chosen sections",
		Long: `Pick sections by id (<course code>-<section>, e.g. MATH101-1) and show
the resulting weekly timetable and exam schedule.

Sections whose lectures or exams clash with an earlier pick are rejected
unless --allow-conflicts is set. With --interactive the plan is edited with
find/add/rm/list commands before it is shown.`,
		RunE: runPlan,
	}

	cmd.Flags().StringSlice("sections", nil, "Section ids to pick, in order")
	cmd.Flags().BoolP("interactive", "i", false, "Edit the plan interactively")
	cmd.Flags().Bool("allow-conflicts", false, "Keep clashing sections")
	cmd.Flags().String("ics", "", "Also write the plan to this .ics file")

	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	out := cmd.OutOrStdout()

	allow, _ := flags.GetBool("allow-conflicts")
	plan := &planner.Plan{AllowConflicts: allow}
	options := planner.BuildSections(ds.rows)

	ids, _ := flags.GetStringSlice("sections")
	if err := plan.PickIDs(options, ids); err != nil {
		return err
	}

	if interactive, _ := flags.GetBool("interactive"); interactive {
		session := cli.NewPlanSession(cmd.InOrStdin(), out, plan, options)
		if err := session.Run(cmd.Context()); err != nil {
			return err
		}
	}

	chosen := plan.Chosen()
	if len(chosen) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No sections chosen. Use --sections or --interactive."))
		return nil
	}

	weekly := schedule.BuildWeekly(planner.ExpandChosen(ds.rows, chosen))
	exams := schedule.BuildExamGrid(planner.ExamRows(ds.rows, chosen))

	labels := make([]string, len(chosen))
	for i, o := range chosen {
		labels[i] = o.Label
	}
	fmt.Fprintln(out, cli.RenderBox(fmt.Sprintf("My timetable (%d sections)", len(chosen)), strings.Join(labels, "\n")))
	if len(weekly.Slots) > 0 {
		fmt.Fprintln(out, cli.RenderWeekly(weekly))
	}
	if len(exams.Dates) > 0 {
		fmt.Fprintln(out, cli.FormatTitle("My exams"))
		fmt.Fprintln(out, cli.RenderExamGrid(exams))
	}

	path, _ := flags.GetString("ics")
	if path == "" {
		return nil
	}
	return writePlanCalendar(cmd, config.ExpandPath(path), chosen, exams)
}

func writePlanCalendar(cmd *cobra.Command, path string, chosen []planner.SectionOption, exams schedule.ExamGrid) error {
	calendarConfig, err := config.LoadCalendarConfig()
	if err != nil {
		return err
	}

	cal := export.NewCalendar("My timetable", calendarConfig.Location)
	cal.AddExams(exams)
	term := export.Term{Start: calendarConfig.TermStart, End: calendarConfig.TermEnd}
	if err := cal.AddMeetings(chosen, term); err != nil {
		if !errors.Is(err, export.ErrInvalidTerm) {
			return err
		}
		slog.Warn("Weekly meetings left out of the calendar; set calendar.term_start and calendar.term_end", "error", err)
	}

	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := cal.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %d events to %s", cal.Len(), path)))
	return nil
}
