package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/commonslot"
	"github.com/Veraticus/timetable/internal/timeslot"
	"github.com/spf13/cobra"
)

func slotsCmd() *cobra.Command {
	defaults := commonslot.DefaultParams()

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Find sections meeting inside a time window",
		Long: `Find the sections that meet during a time window, optionally limited to
some days, a single hall and a minimum room capacity.

With --time-mode overlap a section matches when it shares any time with the
window; with --time-mode within it must lie entirely inside it.`,
		RunE: runSlots,
	}

	cmd.Flags().String("start", defaults.Start, "Window start (HH:MM)")
	cmd.Flags().String("end", defaults.End, "Window end (HH:MM)")
	cmd.Flags().String("mode", string(defaults.Mode), "Search mode (slot, hall)")
	cmd.Flags().String("hall", "", "Hall to search in hall mode")
	cmd.Flags().String("time-mode", string(defaults.TimeMode), "Interval test (overlap, within)")
	cmd.Flags().String("days", "", "Days to include, e.g. \"Sun Tue\"")
	cmd.Flags().Int("min-capacity", 0, "Minimum room capacity")
	cmd.Flags().Bool("choices", false, "List the days and halls that can be searched")

	return cmd
}

func runSlots(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	flags := cmd.Flags()

	if choices, _ := flags.GetBool("choices"); choices {
		c := commonslot.Options(ds.rows)
		days := make([]string, len(c.Days))
		for i, d := range c.Days {
			days[i] = d.String()
		}
		fmt.Fprintln(out, cli.FormatTitle("Days"))
		fmt.Fprintln(out, strings.Join(days, " "))
		fmt.Fprintln(out, cli.FormatTitle("Halls"))
		fmt.Fprintln(out, strings.Join(c.Halls, "\n"))
		return nil
	}

	p := commonslot.DefaultParams()
	p.Start, _ = flags.GetString("start")
	p.End, _ = flags.GetString("end")
	p.Hall, _ = flags.GetString("hall")
	p.MinCapacity, _ = flags.GetInt("min-capacity")
	mode, _ := flags.GetString("mode")
	p.Mode = commonslot.Mode(strings.ToLower(mode))
	timeMode, _ := flags.GetString("time-mode")
	p.TimeMode = commonslot.TimeMode(strings.ToLower(timeMode))
	if days, _ := flags.GetString("days"); days != "" {
		p.Days = timeslot.ExtractDays(days)
		if len(p.Days) == 0 {
			return fmt.Errorf("no days recognized in %q", days)
		}
	}

	result, err := commonslot.Filter(ds.rows, p)
	if errors.Is(err, commonslot.ErrInvalidRange) {
		fmt.Fprintln(out, cli.FormatWarning(result.Hint))
		return nil
	}
	if err != nil {
		if result.Hint != "" {
			return common.NewUserError(result.Hint, err)
		}
		return err
	}
	if len(result.Rows) == 0 {
		fmt.Fprintln(out, cli.FormatWarning(result.Hint))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Sections between %s and %s", p.Start, p.End)))
	fmt.Fprintln(out, cli.RenderTable(rowHeaders, rowCells(result.Rows)))
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d sections", len(result.Rows))))
	return nil
}
