package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // calendar.timezone must resolve on hosts without zoneinfo

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/service"
	"github.com/spf13/viper"
)

// SourceKind selects where the timetable is read from.
type SourceKind string

// Supported sources.
const (
	SourceGViz   SourceKind = "gviz"
	SourceSheets SourceKind = "sheets"
	SourceXLSX   SourceKind = "xlsx"
)

// SourceConfig describes the timetable feed and its semester tabs.
type SourceConfig struct {
	Kind          SourceKind
	URL           string
	SemestersURL  string
	LastUpdateURL string
	XLSXPath      string
	Sheet         string
	AliasesFile   string
	Retry         service.RetryOptions
	Timeout       time.Duration
}

// DefaultSourceConfig returns the GViz source with three fetch attempts.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Kind:    SourceGViz,
		Timeout: 30 * time.Second,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// LoadSourceConfig reads the source.* keys.
func LoadSourceConfig() (*SourceConfig, error) {
	config := DefaultSourceConfig()

	if v := viper.GetString("source.kind"); v != "" {
		config.Kind = SourceKind(strings.ToLower(strings.TrimSpace(v)))
	}
	config.URL = viper.GetString("source.url")
	config.SemestersURL = viper.GetString("source.semesters_url")
	config.LastUpdateURL = viper.GetString("source.last_update_url")
	config.XLSXPath = ExpandPath(viper.GetString("source.xlsx_path"))
	config.Sheet = viper.GetString("source.sheet")
	config.AliasesFile = ExpandPath(viper.GetString("normalize.aliases_file"))

	if v := viper.GetDuration("source.timeout"); v != 0 {
		config.Timeout = v
	}
	if viper.IsSet("source.retry_attempts") {
		config.Retry.MaxAttempts = viper.GetInt("source.retry_attempts")
	}
	if v := viper.GetDuration("source.retry_delay"); v != 0 {
		config.Retry.InitialDelay = v
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks that the selected source has what it needs. The sheets
// source is validated by LoadSheetsConfig.
func (c *SourceConfig) Validate() error {
	switch c.Kind {
	case SourceGViz:
		if c.URL == "" {
			return fmt.Errorf("%w: source.url is required for the gviz source", common.ErrMissingConfig)
		}
	case SourceXLSX:
		if c.XLSXPath == "" {
			return fmt.Errorf("%w: source.xlsx_path is required for the xlsx source", common.ErrMissingConfig)
		}
	case SourceSheets:
	default:
		return fmt.Errorf("%w: unknown source kind %q", common.ErrInvalidConfig, c.Kind)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: source.timeout cannot be negative", common.ErrInvalidConfig)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("%w: source.retry_attempts cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}

// CalendarConfig holds the settings for calendar export.
type CalendarConfig struct {
	TermStart time.Time
	TermEnd   time.Time
	Location  *time.Location
}

// LoadCalendarConfig reads calendar.timezone, calendar.term_start and
// calendar.term_end. Term dates use the YYYY-MM-DD form and may be empty.
func LoadCalendarConfig() (*CalendarConfig, error) {
	config := &CalendarConfig{Location: time.UTC}

	if tz := viper.GetString("calendar.timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: calendar.timezone: %v", common.ErrInvalidConfig, err)
		}
		config.Location = loc
	}

	var err error
	if config.TermStart, err = termDate("calendar.term_start", config.Location); err != nil {
		return nil, err
	}
	if config.TermEnd, err = termDate("calendar.term_end", config.Location); err != nil {
		return nil, err
	}
	return config, nil
}

func termDate(key string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(viper.GetString(key))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, key, err)
	}
	return t, nil
}
