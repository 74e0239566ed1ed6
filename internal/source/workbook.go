package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"agent-insights-go/internal/types"
)

// Sheet names looked up in a dataset workbook. Missing sheets mean no records.
const (
	CallsSheet  = "Calls"
	EmailsSheet = "Emails"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Workbook serves records loaded once from an .xlsx export. When a sheet has a
// client column rows are partitioned by it; otherwise every client sees all rows.
type Workbook struct {
	calls  []clientRow[types.CallRecord]
	emails []clientRow[types.EmailRecord]
}

type clientRow[R any] struct {
	client string
	record R
}

// OpenWorkbook reads path. Timestamps without a zone are read in loc.
func OpenWorkbook(path string, loc *time.Location) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, loc)
}

func readWorkbook(f *excelize.File, loc *time.Location) (*Workbook, error) {
	if loc == nil {
		loc = time.Local
	}
	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		switch strings.ToLower(name) {
		case strings.ToLower(CallsSheet):
			rows, err := f.GetRows(name)
			if err != nil {
				return nil, fmt.Errorf("read rows %s: %w", name, err)
			}
			wb.calls = parseRows(rows, func(c columns, r []string) types.CallRecord {
				return types.CallRecord{
					ID:             c.str(r, "id"),
					Timestamp:      parseTimestamp(c.str(r, "timestamp"), loc),
					Status:         types.CallStatus(strings.ToLower(c.str(r, "status"))),
					Outcome:        c.str(r, "outcome"),
					Duration:       parseInt(c.str(r, "duration")),
					EstimatedValue: parseFloat(c.str(r, "value")),
				}
			})
		case strings.ToLower(EmailsSheet):
			rows, err := f.GetRows(name)
			if err != nil {
				return nil, fmt.Errorf("read rows %s: %w", name, err)
			}
			wb.emails = parseRows(rows, func(c columns, r []string) types.EmailRecord {
				return types.EmailRecord{
					ID:             c.str(r, "id"),
					Timestamp:      parseTimestamp(c.str(r, "timestamp"), loc),
					Status:         types.EmailStatus(strings.ToLower(c.str(r, "status"))),
					Category:       c.str(r, "outcome"),
					EstimatedValue: parseFloat(c.str(r, "value")),
				}
			})
		}
	}
	if wb.calls == nil && wb.emails == nil {
		return nil, fmt.Errorf("no %q or %q sheet", CallsSheet, EmailsSheet)
	}
	return wb, nil
}

func (w *Workbook) FetchCalls(ctx context.Context, clientID string, since time.Time) ([]types.CallRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sinceFilter(forClient(w.calls, clientID), since), nil
}

func (w *Workbook) FetchEmails(ctx context.Context, clientID string, since time.Time) ([]types.EmailRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sinceFilter(forClient(w.emails, clientID), since), nil
}

func forClient[R any](rows []clientRow[R], clientID string) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if r.client == "" || r.client == clientID {
			out = append(out, r.record)
		}
	}
	return out
}

// columns maps logical field names to header indices.
type columns map[string]int

func (c columns) str(row []string, field string) string {
	i, ok := c[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// detectColumns finds fields by header heuristics; the first match wins.
func detectColumns(header []string) columns {
	c := columns{}
	set := func(field string, i int) {
		if _, ok := c[field]; !ok {
			c[field] = i
		}
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "client") || strings.Contains(l, "account"):
			set("client", i)
		case l == "id" || strings.HasSuffix(l, " id") || strings.HasSuffix(l, "_id"):
			set("id", i)
		case strings.Contains(l, "time") || strings.Contains(l, "date") || strings.HasSuffix(l, "_at") || strings.HasSuffix(l, " at"):
			set("timestamp", i)
		case strings.Contains(l, "status"):
			set("status", i)
		case strings.Contains(l, "outcome") || strings.Contains(l, "category") || strings.Contains(l, "disposition"):
			set("outcome", i)
		case strings.Contains(l, "duration"):
			set("duration", i)
		case strings.Contains(l, "value") || strings.Contains(l, "amount"):
			set("value", i)
		}
	}
	return c
}

func parseRows[R any](rows [][]string, build func(columns, []string) R) []clientRow[R] {
	out := []clientRow[R]{}
	if len(rows) <= 1 {
		return out
	}
	cols := detectColumns(rows[0])
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		out = append(out, clientRow[R]{client: cols.str(r, "client"), record: build(cols, r)})
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseTimestamp returns the zero time for unparseable input so the record is
// treated as malformed downstream rather than failing the whole load.
func parseTimestamp(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, _ := strconv.ParseFloat(s, 64)
	return int(f)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return f
}
