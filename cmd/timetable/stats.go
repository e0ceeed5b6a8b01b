package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/stats"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Course, enrollment, teaching-hour and faculty statistics",
		Long: `Aggregate the timetable into statistics.

Course and enrollment counts compare semesters, so --semester only picks
which semester is listed first; every semester in the feed is shown.`,
	}

	cmd.AddCommand(statsCoursesCmd())
	cmd.AddCommand(statsEnrollmentCmd())
	cmd.AddCommand(statsHoursCmd())
	cmd.AddCommand(statsFacultyCmd())

	return cmd
}

func statsCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Unique courses per college and semester",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBaseStats(cmd, func(b *stats.Base, college, department, semester string) string {
				if department != "" {
					return strconv.Itoa(b.DepartmentUniqueCourses(college, department, semester))
				}
				return strconv.Itoa(b.UniqueCourses(college, semester))
			})
		},
	}
	cmd.Flags().Bool("by-department", false, "Break colleges down by department")
	return cmd
}

func statsEnrollmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrollment",
		Short: "Enrolled students per college and semester",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBaseStats(cmd, func(b *stats.Base, college, department, semester string) string {
				if department != "" {
					return formatCount(b.DepartmentEnrollment(college, department, semester))
				}
				return formatCount(b.Enrollment(college, semester))
			})
		},
	}
	cmd.Flags().Bool("by-department", false, "Break colleges down by department")
	return cmd
}

// runBaseStats renders one row per college, or per college and department,
// with one column per semester. Stats compare semesters, so only the
// non-semester filters apply.
func runBaseStats(cmd *cobra.Command, cell func(b *stats.Base, college, department, semester string) string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	filter, err := buildFilter(cmd)
	if err != nil {
		return err
	}
	byDepartment, _ := cmd.Flags().GetBool("by-department")

	var preferred []string
	if ds.semester != "" {
		preferred = []string{ds.semester}
	}
	base := stats.BuildBase(filter.Apply(ds.all), preferred)
	out := cmd.OutOrStdout()
	if len(base.CollegeKeys) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No rows with a college, department, semester and course code"))
		return nil
	}

	headers := []string{"College"}
	if byDepartment {
		headers = append(headers, "Department")
	}
	for _, sem := range base.SemesterKeys {
		headers = append(headers, base.SemesterLabel(sem))
	}

	var rows [][]string
	for _, college := range base.CollegeKeys {
		if !byDepartment {
			row := []string{base.CollegeLabel(college)}
			for _, sem := range base.SemesterKeys {
				row = append(row, cell(base, college, "", sem))
			}
			rows = append(rows, row)
			continue
		}
		for _, department := range base.DepartmentKeys(college) {
			row := []string{base.CollegeLabel(college), base.DepartmentLabel(college, department)}
			for _, sem := range base.SemesterKeys {
				row = append(row, cell(base, college, department, sem))
			}
			rows = append(rows, row)
		}
	}

	fmt.Fprintln(out, cli.RenderTable(headers, rows))
	return nil
}

func statsHoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Teaching hours per week",
		Long: `Weekly teaching hours, Sunday to Thursday.

--level university  college -> department
--level college     department -> instructor (use --college to scope)
--level department  instructor -> course (use --college and --department to scope)

Simultaneous cross-listed sessions of one instructor are counted once and
their time is shared between the courses.`,
		RunE: runStatsHours,
	}

	cmd.Flags().String("level", string(stats.HoursUniversity), "Nesting level (university, college, department)")
	cmd.Flags().StringSlice("exclude-type", nil, "Section types to leave out, e.g. lab")

	return cmd
}

func runStatsHours(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	levelText, _ := flags.GetString("level")
	level := stats.HoursLevel(strings.ToLower(levelText))
	var outer, inner string
	switch level {
	case stats.HoursUniversity:
		outer, inner = "College", "Department"
	case stats.HoursCollege:
		outer, inner = "Department", "Instructor"
	case stats.HoursDepartment:
		outer, inner = "Instructor", "Course"
	default:
		return fmt.Errorf("invalid level %q: use university, college or department", levelText)
	}

	opts := stats.HoursOptions{Semester: ds.semester}
	opts.ExcludeSectionTypes, _ = flags.GetStringSlice("exclude-type")
	if colleges, _ := flags.GetStringSlice("college"); len(colleges) == 1 {
		opts.College = colleges[0]
	}
	if departments, _ := flags.GetStringSlice("department"); len(departments) == 1 {
		opts.Department = departments[0]
	}

	breakdown := stats.BuildTeachingHours(ds.rows, opts).Level(level)
	out := cmd.OutOrStdout()
	if len(breakdown.Data) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No teaching sessions with readable times"))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle(title("Teaching hours", ds.semester)))
	fmt.Fprintln(out, cli.RenderHours(breakdown, outer, inner))
	return nil
}

func statsFacultyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "faculty",
		Short: "Distinct instructors per college and department",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			tree := stats.BuildFacultyTree(ds.rows)
			if tree.Total == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No rows with a college, department and instructor"))
				return nil
			}
			fmt.Fprintln(out, cli.FormatTitle(title("Faculty", ds.semester)))
			fmt.Fprintln(out, cli.RenderFaculty(tree))
			return nil
		},
	}
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
