package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/phone"
	"github.com/ppiankov/numinfo/internal/summary"
)

// termNotifier prints notices as one line each
type termNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newTermNotifier(w io.Writer) *termNotifier {
	return &termNotifier{w: w}
}

// Notify implements notify.Notifier
func (t *termNotifier) Notify(n notify.Notice) {
	symbol := "ℹ"
	switch n.Level {
	case notify.LevelError:
		symbol = "✗"
	case notify.LevelWarning:
		symbol = "⚠"
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s %s: %s\n", symbol, n.Title, n.Message)
}

// renderTable writes an aligned table. Widths are measured in terminal
// cells so Cyrillic operator and region names line up.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(headers)
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("─", width)
	}
	line(sep)
	for _, row := range rows {
		line(row)
	}
}

func printRecords(w io.Writer, records []model.LookupRecord) {
	ported := false
	for _, r := range records {
		if r.OldOperator != "" {
			ported = true
			break
		}
	}

	headers := []string{"#", "Number", "Operator", "Region"}
	if ported {
		headers = []string{"#", "Number", "Operator", "Ported from", "Region"}
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		if ported {
			rows[i] = []string{strconv.Itoa(i + 1), phone.Format(r.FullNum), r.Operator, r.OldOperator, r.Region}
			continue
		}
		rows[i] = []string{strconv.Itoa(i + 1), phone.Format(r.FullNum), r.Operator, r.Region}
	}
	renderTable(w, headers, rows)
}

func printSummary(w io.Writer, records []model.LookupRecord) {
	counts := summary.Summarize(records)
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{
			c.Operator,
			strconv.Itoa(c.Count),
			fmt.Sprintf("%d%%", summary.Share(c.Count, len(records))),
		}
	}
	renderTable(w, []string{"Operator", "Count", "Share"}, rows)
}
