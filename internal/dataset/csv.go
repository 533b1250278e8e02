package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// ReadCSV reads a Frame from CSV with a header row. Empty fields are NULL; other fields are parsed
// as bool, integer, float or timestamp when they fully match, and kept as text otherwise.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var rows [][]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(rows)+1, err)
		}
		row := make([]any, len(record))
		for i, field := range record {
			row[i] = parseField(field)
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

// WriteCSV writes the frame with a header row, NULL as an empty field.
func WriteCSV(w io.Writer, f *Frame) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.Columns()); err != nil {
		return err
	}
	record := make([]string, len(f.columns))
	for _, row := range f.rows {
		for i, value := range row {
			record[i] = formatField(value)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseField(field string) any {
	if field == "" {
		return nil
	}
	if i, err := strconv.ParseInt(field, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return f
	}
	if strings.EqualFold(field, "true") || strings.EqualFold(field, "false") {
		return strings.EqualFold(field, "true")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, field); err == nil {
			return t
		}
	}
	return field
}

func formatField(value any) string {
	switch actual := value.(type) {
	case nil:
		return ""
	case string:
		return actual
	case []byte:
		return string(actual)
	case time.Time:
		if actual.Hour() == 0 && actual.Minute() == 0 && actual.Second() == 0 && actual.Nanosecond() == 0 {
			return actual.Format("2006-01-02")
		}
		return actual.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(actual)
	}
}
