// Package export renders result sets and summaries as csv, json or text.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/numinfo/internal/model"
)

// ErrNoData is returned when there are no records to export
var ErrNoData = errors.New("no data to export")

// Format is an export encoding
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	Text Format = "text"
)

// Export subjects, used as file basenames
const (
	SubjectRecords = "phone-numbers-data"
	SubjectSummary = "operator-summary"
)

// ParseFormat maps user input to a Format. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "text", "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown export format: %s (supported: csv, json, text)", s)
	}
}

// ContentType returns the MIME type for format
func ContentType(format Format) string {
	switch format {
	case CSV:
		return "text/csv"
	case JSON:
		return "application/json"
	default:
		return "text/plain"
	}
}

// Filename returns "<subject>.<format>"
func Filename(subject string, format Format) string {
	return subject + "." + string(format)
}

// Field is one key/value pair of a row
type Field struct {
	Key   string
	Value any
}

// Row is an ordered record. A row with no fields and a Raw value is a bare
// string and passes through text exports unchanged.
type Row struct {
	Fields []Field
	Raw    string
}

// Keys returns the field names in order
func (r Row) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the row as an object with keys in field order
func (r Row) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return json.Marshal(r.Raw)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records converts lookup records to rows. old_operator is only present
// when the number was ported.
func Records(records []model.LookupRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		fields := []Field{
			{"code", r.Code},
			{"num", r.Num},
			{"full_num", r.FullNum},
			{"operator", r.Operator},
		}
		if r.OldOperator != "" {
			fields = append(fields, Field{"old_operator", r.OldOperator})
		}
		fields = append(fields, Field{"region", r.Region})
		rows[i] = Row{Fields: fields}
	}
	return rows
}

// Summary converts an operator summary to rows
func Summary(summary []model.OperatorSummary) []Row {
	rows := make([]Row, len(summary))
	for i, s := range summary {
		rows[i] = Row{Fields: []Field{
			{"operator", s.Operator},
			{"count", s.Count},
		}}
	}
	return rows
}

// Strings wraps bare lines as rows
func Strings(lines []string) []Row {
	rows := make([]Row, len(lines))
	for i, l := range lines {
		rows[i] = Row{Raw: l}
	}
	return rows
}

// Export renders rows in the given format.
//
// csv takes its header from the first row and joins each row's own values
// with commas without quoting, so values containing commas or rows with a
// different shape than the first one produce ambiguous output. Callers must
// not pass an empty slice expecting a header: csv of nothing is "".
func Export(rows []Row, format Format) (string, error) {
	switch format {
	case JSON:
		if rows == nil {
			rows = []Row{}
		}
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal json: %w", err)
		}
		return string(data), nil

	case CSV:
		if len(rows) == 0 {
			return "", nil
		}
		lines := make([]string, 0, len(rows)+1)
		header := rows[0].Keys()
		if rows[0].Fields == nil {
			header = []string{"value"}
		}
		lines = append(lines, strings.Join(header, ","))
		for _, r := range rows {
			lines = append(lines, strings.Join(values(r), ","))
		}
		return strings.Join(lines, "\n"), nil

	case Text:
		lines := make([]string, len(rows))
		for i, r := range rows {
			if r.Fields == nil {
				lines[i] = r.Raw
				continue
			}
			pairs := make([]string, len(r.Fields))
			for j, f := range r.Fields {
				pairs[j] = fmt.Sprintf("%s: %v", f.Key, f.Value)
			}
			lines[i] = strings.Join(pairs, ", ")
		}
		return strings.Join(lines, "\n"), nil

	default:
		return "", fmt.Errorf("unknown export format: %s", format)
	}
}

func values(r Row) []string {
	if r.Fields == nil {
		return []string{r.Raw}
	}
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = fmt.Sprint(f.Value)
	}
	return out
}
