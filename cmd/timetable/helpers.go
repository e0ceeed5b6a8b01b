package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/config"
	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/normalize"
	"github.com/Veraticus/timetable/internal/service"
	"github.com/Veraticus/timetable/internal/sheets"
	"github.com/Veraticus/timetable/internal/xlsx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Workbook tabs read by the xlsx catalogue.
const (
	semestersSheet  = "Semesters"
	lastUpdateSheet = "LastUpdate"
)

// Replaced in tests.
var (
	openSource    = newSource
	openCatalogue = newCatalogue
)

// dataset is the normalized feed a command works on.
type dataset struct {
	columns  []model.ColumnMeta
	all      []model.Row
	rows     []model.Row
	semester string
	source   string
	location *time.Location
}

// retryingSource retries transient fetch failures of the wrapped source.
type retryingSource struct {
	service.Source
	opts service.RetryOptions
}

func (s retryingSource) Fetch(ctx context.Context) (model.Table, error) {
	var table model.Table
	err := common.WithRetry(ctx, s.Name(), s.opts, func() error {
		t, err := s.Source.Fetch(ctx)
		if err != nil {
			return err
		}
		table = t
		return nil
	})
	return table, err
}

func addFilterFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("semester", "", "Semester to show (default: the active semester when known)")
	flags.StringSlice("college", nil, "Only these colleges")
	flags.StringSlice("department", nil, "Only these departments")
	flags.StringSlice("course", nil, "Only these course codes")
	flags.StringSlice("language", nil, "Only these course languages")
	flags.StringSlice("instructor", nil, "Only these instructors")
	flags.String("level", "", "Only this study level")
	flags.String("elective", "", "University electives only (yes) or excluded (no)")
	flags.String("requirement", "", "University requirements only (yes) or excluded (no)")
	flags.Float64("credit-min", 0, "Minimum credit hours")
	flags.Float64("credit-max", 0, "Maximum credit hours")

	_ = viper.BindPFlag("filter.semester", flags.Lookup("semester"))
}

// buildFilter reads the filter flags. Semester is resolved separately.
func buildFilter(cmd *cobra.Command) (model.RowFilter, error) {
	flags := cmd.Flags()
	var f model.RowFilter
	var err error

	if f.Colleges, err = flags.GetStringSlice("college"); err != nil {
		return f, err
	}
	if f.Departments, err = flags.GetStringSlice("department"); err != nil {
		return f, err
	}
	if f.Courses, err = flags.GetStringSlice("course"); err != nil {
		return f, err
	}
	if f.Languages, err = flags.GetStringSlice("language"); err != nil {
		return f, err
	}
	if f.Instructors, err = flags.GetStringSlice("instructor"); err != nil {
		return f, err
	}
	if f.Level, err = flags.GetString("level"); err != nil {
		return f, err
	}
	if f.CreditMin, err = flags.GetFloat64("credit-min"); err != nil {
		return f, err
	}
	if f.CreditMax, err = flags.GetFloat64("credit-max"); err != nil {
		return f, err
	}
	if f.CreditMin > 0 && f.CreditMax > 0 && f.CreditMax < f.CreditMin {
		return f, fmt.Errorf("--credit-max %g is below --credit-min %g", f.CreditMax, f.CreditMin)
	}

	elective, _ := flags.GetString("elective")
	if f.Elective, err = parseYesNo("elective", elective); err != nil {
		return f, err
	}
	requirement, _ := flags.GetString("requirement")
	if f.Requirement, err = parseYesNo("requirement", requirement); err != nil {
		return f, err
	}
	return f, nil
}

func parseYesNo(name, value string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return nil, nil
	case "yes", "y":
		v := true
		return &v, nil
	case "no", "n":
		v := false
		return &v, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("--%s must be yes or no, got %q", name, value)
	}
	return &v, nil
}

// loadDataset fetches, normalizes and filters the timetable.
func loadDataset(cmd *cobra.Command) (*dataset, error) {
	ctx := cmd.Context()

	filter, err := buildFilter(cmd)
	if err != nil {
		return nil, err
	}
	sourceConfig, err := config.LoadSourceConfig()
	if err != nil {
		return nil, err
	}
	calendarConfig, err := config.LoadCalendarConfig()
	if err != nil {
		return nil, err
	}

	var aliases []normalize.HeaderAlias
	if sourceConfig.AliasesFile != "" {
		if aliases, err = normalize.LoadAliases(sourceConfig.AliasesFile); err != nil {
			return nil, err
		}
	}

	source, err := openSource(ctx, sourceConfig)
	if err != nil {
		return nil, err
	}

	slog.Debug("Fetching timetable", "source", source.Name())
	table, err := source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timetable: %w", err)
	}

	result := normalize.New(normalize.Options{
		Location: calendarConfig.Location,
		Aliases:  aliases,
	}, slog.Default()).Normalize(table)

	filter.Semester = resolveSemester(ctx, sourceConfig)

	common.LogInfo("Loaded timetable", common.FeedFields(source.Name(), filter.Semester, len(result.Dataset.Rows)).
		With("duplicates", result.Duplicates).
		With("closed", result.Closed))

	return &dataset{
		columns:  result.Dataset.Columns,
		all:      result.Dataset.Rows,
		rows:     filter.Apply(result.Dataset.Rows),
		semester: filter.Semester,
		source:   source.Name(),
		location: calendarConfig.Location,
	}, nil
}

// resolveSemester returns --semester, or the catalogue's active semester
// when one is configured. A catalogue failure leaves the rows unfiltered.
func resolveSemester(ctx context.Context, cfg *config.SourceConfig) string {
	if s := strings.TrimSpace(viper.GetString("filter.semester")); s != "" {
		return s
	}
	catalogue, err := openCatalogue(ctx, cfg)
	if err != nil {
		slog.Debug("No semester catalogue", "error", err)
		return ""
	}
	info, err := catalogue.Semesters(ctx)
	if err != nil {
		common.LogDebug("Could not read active semester", common.Fields{"error": err.Error()})
		return ""
	}
	if info.Active != "" {
		slog.Debug("Using active semester", "semester", info.Active)
	}
	return info.Active
}

func newSource(ctx context.Context, cfg *config.SourceConfig) (service.Source, error) {
	switch cfg.Kind {
	case config.SourceGViz:
		client := &http.Client{Timeout: cfg.Timeout}
		return retryingSource{
			Source: sheets.NewGVizSource(cfg.URL, client, slog.Default()),
			opts:   cfg.Retry,
		}, nil

	case config.SourceSheets:
		sheetsConfig, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
		}
		api, err := sheets.NewAPISource(ctx, *sheetsConfig, slog.Default())
		if err != nil {
			return nil, err
		}
		return retryingSource{Source: api, opts: sheetsRetry(sheetsConfig)}, nil

	case config.SourceXLSX:
		return xlsx.NewSource(cfg.XLSXPath, cfg.Sheet, slog.Default()), nil
	}
	return nil, fmt.Errorf("%w: unknown source kind %q", common.ErrInvalidConfig, cfg.Kind)
}

func newCatalogue(ctx context.Context, cfg *config.SourceConfig) (service.Catalogue, error) {
	calendarConfig, err := config.LoadCalendarConfig()
	if err != nil {
		return nil, err
	}
	loc := calendarConfig.Location

	switch cfg.Kind {
	case config.SourceGViz:
		if cfg.SemestersURL == "" && cfg.LastUpdateURL == "" {
			return nil, fmt.Errorf("%w: source.semesters_url is not set", common.ErrMissingConfig)
		}
		client := &http.Client{Timeout: cfg.Timeout}
		var semesters, updates service.Source
		if cfg.SemestersURL != "" {
			semesters = retryingSource{Source: sheets.NewGVizSource(cfg.SemestersURL, client, slog.Default()), opts: cfg.Retry}
		}
		if cfg.LastUpdateURL != "" {
			updates = retryingSource{Source: sheets.NewGVizSource(cfg.LastUpdateURL, client, slog.Default()), opts: cfg.Retry}
		}
		return sheets.NewCatalogue(semesters, updates, loc), nil

	case config.SourceSheets:
		sheetsConfig, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
		}
		api, err := sheets.NewAPISource(ctx, *sheetsConfig, slog.Default())
		if err != nil {
			return nil, err
		}
		retry := sheetsRetry(sheetsConfig)
		return sheets.NewCatalogue(
			retryingSource{Source: api.WithRange(sheetsConfig.SemestersRange), opts: retry},
			retryingSource{Source: api.WithRange(sheetsConfig.LastUpdateRange), opts: retry},
			loc,
		), nil

	case config.SourceXLSX:
		return sheets.NewCatalogue(
			xlsx.NewSource(cfg.XLSXPath, semestersSheet, slog.Default()),
			xlsx.NewSource(cfg.XLSXPath, lastUpdateSheet, slog.Default()),
			loc,
		), nil
	}
	return nil, fmt.Errorf("%w: unknown source kind %q", common.ErrInvalidConfig, cfg.Kind)
}

func sheetsRetry(c *sheets.Config) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  c.RetryAttempts,
		InitialDelay: c.RetryDelay,
		MaxDelay:     10 * c.RetryDelay,
		Multiplier:   2.0,
	}
}
