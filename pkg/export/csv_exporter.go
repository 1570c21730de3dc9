package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// SessionRow is one study session as it appears in a listing export.
// Subject is the display label; Start and End are preformatted clock times.
type SessionRow struct {
	Date    string
	Subject string
	Seconds int
	Start   string
	End     string
	Notes   string
}

// SessionHeaders are the columns of a session listing, in order.
var SessionHeaders = []string{"Date", "Subject", "Duration (s)", "Duration", "Start", "End", "Notes"}

// CSVExporter renders datasets and session listings into CSV bytes.
type CSVExporter struct {
	formatDuration func(seconds int) string
}

// NewCSVExporter builds a CSV exporter. formatDuration fills the readable
// duration column of session listings; nil writes plain seconds with an "s" suffix.
func NewCSVExporter(formatDuration func(seconds int) string) *CSVExporter {
	if formatDuration == nil {
		formatDuration = func(seconds int) string { return strconv.Itoa(seconds) + "s" }
	}
	return &CSVExporter{formatDuration: formatDuration}
}

// RenderSessions writes rows under SessionHeaders, keeping their order. Each
// duration is written twice: raw seconds for spreadsheets and a readable form.
func (e *CSVExporter) RenderSessions(rows []SessionRow) ([]byte, error) {
	data := Dataset{Headers: SessionHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Date":         row.Date,
			"Subject":      row.Subject,
			"Duration (s)": strconv.Itoa(row.Seconds),
			"Duration":     e.formatDuration(row.Seconds),
			"Start":        row.Start,
			"End":          row.End,
			"Notes":        row.Notes,
		})
	}
	return e.Render(data)
}

// Render produces CSV encoded bytes for the dataset. Missing cells render empty.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
