// Package report renders end-of-stream statistics.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"streamfmt/internal/pipe"
)

// ErrUnsupportedFormat is returned for an unknown report format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formats lists the accepted report formats.
var Formats = []string{"table", "plain", "json"}

type statsPayload struct {
	Lines        int            `json:"lines"`
	Emitted      int            `json:"emitted"`
	Skipped      int            `json:"skipped"`
	DecodeErrors int            `json:"decode_errors"`
	ReadErrors   int            `json:"read_errors"`
	WriteErrors  int            `json:"write_errors"`
	UnknownTools int            `json:"unknown_tools"`
	Kinds        map[string]int `json:"kinds"`
	Tools        map[string]int `json:"tools"`
}

// WriteStats writes stats to w in the requested format. width caps the table
// row length; zero means unlimited.
func WriteStats(w io.Writer, stats pipe.Stats, format string, width int) error {
	format = strings.ToLower(format)
	switch format {
	case "", "table":
		return writeStatsTable(w, stats, width)
	case "plain":
		return writeStatsPlain(w, stats)
	case "json":
		return writeStatsJSON(w, stats)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ValidFormat reports whether format is accepted by WriteStats.
func ValidFormat(format string) bool {
	format = strings.ToLower(format)
	if format == "" {
		return true
	}
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

func counters(stats pipe.Stats) []pipe.Count {
	return []pipe.Count{
		{Name: "lines", Count: stats.Lines},
		{Name: "emitted", Count: stats.Emitted},
		{Name: "skipped", Count: stats.Skipped()},
		{Name: "decode_errors", Count: stats.DecodeErrors},
		{Name: "read_errors", Count: stats.ReadErrors},
		{Name: "write_errors", Count: stats.WriteErrors},
		{Name: "unknown_tools", Count: stats.UnknownTools},
	}
}

func writeStatsPlain(w io.Writer, stats pipe.Stats) error {
	rows := make([]string, 0, 7+len(stats.Kinds)+len(stats.Tools))
	for _, c := range counters(stats) {
		rows = append(rows, fmt.Sprintf("stream\t%s\t%d", c.Name, c.Count))
	}
	for _, c := range stats.SortedKinds() {
		rows = append(rows, fmt.Sprintf("kind\t%s\t%d", escapeTabs(c.Name), c.Count))
	}
	for _, c := range stats.SortedTools() {
		rows = append(rows, fmt.Sprintf("tool\t%s\t%d", escapeTabs(c.Name), c.Count))
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func writeStatsJSON(w io.Writer, stats pipe.Stats) error {
	payload := statsPayload{
		Lines:        stats.Lines,
		Emitted:      stats.Emitted,
		Skipped:      stats.Skipped(),
		DecodeErrors: stats.DecodeErrors,
		ReadErrors:   stats.ReadErrors,
		WriteErrors:  stats.WriteErrors,
		UnknownTools: stats.UnknownTools,
		Kinds:        make(map[string]int, len(stats.Kinds)),
		Tools:        make(map[string]int, len(stats.Tools)),
	}
	for kind, n := range stats.Kinds {
		payload.Kinds[string(kind)] = n
	}
	for name, n := range stats.Tools {
		payload.Tools[name] = n
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writeStatsTable(w io.Writer, stats pipe.Stats, width int) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	if width > 0 {
		tw.SetAllowedRowLength(width)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})

	tw.AppendHeader(table.Row{"Group", "Name", "Count"})
	for _, c := range counters(stats) {
		tw.AppendRow(table.Row{"stream", c.Name, c.Count})
	}
	tw.AppendSeparator()
	for _, c := range stats.SortedKinds() {
		tw.AppendRow(table.Row{"kind", c.Name, c.Count})
	}
	tools := stats.SortedTools()
	if len(tools) > 0 {
		tw.AppendSeparator()
	}
	for _, c := range tools {
		tw.AppendRow(table.Row{"tool", c.Name, c.Count})
	}

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// TerminalWidth returns the width of out when it is a terminal, or zero.
func TerminalWidth(out io.Writer) int {
	file, ok := out.(*os.File)
	if !ok {
		return 0
	}
	if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}

func escapeTabs(text string) string {
	return strings.ReplaceAll(text, "\t", "\\t")
}
