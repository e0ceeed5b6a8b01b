package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// APISource reads a range of a private spreadsheet through the Sheets API.
type APISource struct {
	service   *sheets.Service
	logger    *slog.Logger
	config    Config
	readRange string
}

// NewAPISource creates a source for config.Range.
func NewAPISource(ctx context.Context, config Config, logger *slog.Logger) (*APISource, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &APISource{
		config:    config,
		service:   service,
		logger:    logger,
		readRange: config.Range,
	}, nil
}

// WithRange returns a source reading another range of the same spreadsheet.
func (s *APISource) WithRange(readRange string) *APISource {
	clone := *s
	clone.readRange = readRange
	return &clone
}

// Name identifies the spreadsheet and range.
func (s *APISource) Name() string {
	return "sheets:" + s.config.SpreadsheetID + "/" + s.readRange
}

// Fetch reads the range. The first row is the header.
func (s *APISource) Fetch(ctx context.Context) (model.Table, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.config.SpreadsheetID, s.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		fetchErr := &FetchError{Source: s.Name(), Err: err}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			fetchErr.Status = apiErr.Code
		}
		return model.Table{}, fetchErr
	}

	table, err := TableFromValues(resp.Values)
	if err != nil {
		return model.Table{}, fmt.Errorf("%s: %w", s.Name(), err)
	}

	s.logger.Debug("fetched sheets range",
		"spreadsheet_id", s.config.SpreadsheetID,
		"range", s.readRange,
		"rows", len(table.Rows))

	return table, nil
}

// TableFromValues converts a Sheets API value grid into a table. The first row
// holds the headers. A column is typed "number" or "boolean" when every
// non-empty cell has that type, "string" otherwise.
func TableFromValues(values [][]interface{}) (model.Table, error) {
	if len(values) == 0 {
		return model.Table{}, common.ErrEmptyFeed
	}

	header := values[0]
	table := model.Table{
		Columns: make([]model.ColumnMeta, len(header)),
		Rows:    make([][]model.Value, 0, len(values)-1),
	}
	for i, h := range header {
		label := strings.TrimSpace(fmt.Sprint(h))
		table.Columns[i] = model.ColumnMeta{ID: columnLetter(i), Label: label}
	}

	for _, raw := range values[1:] {
		cells := make([]model.Value, len(header))
		for i := range cells {
			if i < len(raw) {
				cells[i] = apiValue(raw[i])
			} else {
				cells[i] = model.Null()
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	for i := range table.Columns {
		table.Columns[i].Type = inferType(table.Rows, i)
	}
	return table, nil
}

func apiValue(v interface{}) model.Value {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return model.Null()
	}
	return cellValue(v)
}

func inferType(rows [][]model.Value, col int) string {
	var kind model.Kind
	for _, r := range rows {
		v := r[col]
		if v.IsNull() {
			continue
		}
		if kind == "" {
			kind = v.Kind
			continue
		}
		if v.Kind != kind {
			return "string"
		}
	}
	switch kind {
	case model.KindNumber:
		return "number"
	case model.KindBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// columnLetter returns the A1 column name of a zero-based index.
func columnLetter(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

// createSheetsService creates a read-only Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}
