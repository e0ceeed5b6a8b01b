package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/model"
)

const gvizPrefix = "/*O_o*/"

var (
	sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)
	gidPattern     = regexp.MustCompile(`[?&]gid=(\d+)`)
)

// BuildGVizURL turns a share link, an edit link or a bare spreadsheet id into
// the GViz JSON endpoint for that tab. The tab defaults to gid 0. URLs that
// already point at a gviz endpoint are returned unchanged.
func BuildGVizURL(link string) string {
	link = strings.TrimSpace(link)
	if strings.Contains(link, "/gviz/tq") {
		return link
	}
	id := link
	if m := sheetIDPattern.FindStringSubmatch(link); m != nil {
		id = m[1]
	}
	gid := "0"
	if m := gidPattern.FindStringSubmatch(link); m != nil {
		gid = m[1]
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:json&gid=%s&headers=1", id, gid)
}

type gvizResponse struct {
	Table *gvizTable `json:"table"`
}

type gvizTable struct {
	Cols []model.ColumnMeta `json:"cols"`
	Rows []gvizRow          `json:"rows"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizCell struct {
	V any `json:"v"`
}

// GVizSource reads one tab of a publicly shared spreadsheet.
type GVizSource struct {
	client *http.Client
	logger *slog.Logger
	url    string
}

// NewGVizSource creates a source for the tab a share link points at. A nil
// client uses http.DefaultClient and a nil logger uses slog.Default().
func NewGVizSource(link string, client *http.Client, logger *slog.Logger) *GVizSource {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GVizSource{
		client: client,
		logger: logger,
		url:    BuildGVizURL(link),
	}
}

// Name returns the feed URL.
func (s *GVizSource) Name() string {
	return s.url
}

// Fetch downloads and decodes the feed.
func (s *GVizSource) Fetch(ctx context.Context) (model.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return model.Table{}, &FetchError{Source: s.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Table{}, &FetchError{Source: s.url, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return model.Table{}, &FetchError{
			Source: s.url,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	table, err := ParseGViz(body)
	if err != nil {
		return model.Table{}, err
	}

	s.logger.Debug("fetched gviz feed",
		"url", s.url,
		"columns", len(table.Columns),
		"rows", len(table.Rows))

	return table, nil
}

// ParseGViz decodes a GViz response body. The body must start with the
// "/*O_o*/" guard; the JSON object is taken from the first "{" to the last "}".
func ParseGViz(body []byte) (model.Table, error) {
	if !bytes.HasPrefix(body, []byte(gvizPrefix)) {
		return model.Table{}, fmt.Errorf("%w: unexpected response format from Google Sheets", common.ErrMalformedFeed)
	}
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return model.Table{}, fmt.Errorf("%w: no JSON object in response", common.ErrMalformedFeed)
	}

	var resp gvizResponse
	if err := json.Unmarshal(body[start:end+1], &resp); err != nil {
		return model.Table{}, fmt.Errorf("%w: %v", common.ErrMalformedFeed, err)
	}
	if resp.Table == nil {
		return model.Table{}, fmt.Errorf("%w: response has no table", common.ErrMalformedFeed)
	}

	table := model.Table{
		Columns: resp.Table.Cols,
		Rows:    make([][]model.Value, 0, len(resp.Table.Rows)),
	}
	if table.Columns == nil {
		table.Columns = []model.ColumnMeta{}
	}
	for _, r := range resp.Table.Rows {
		cells := make([]model.Value, len(r.C))
		for i, c := range r.C {
			if c == nil {
				cells[i] = model.Null()
				continue
			}
			cells[i] = cellValue(c.V)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// cellValue maps a decoded JSON cell onto a Value.
func cellValue(v any) model.Value {
	switch x := v.(type) {
	case nil:
		return model.Null()
	case string:
		return model.String(x)
	case float64:
		return model.Number(x)
	case bool:
		return model.Bool(x)
	default:
		return model.String(fmt.Sprint(x))
	}
}
