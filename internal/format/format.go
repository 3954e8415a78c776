// Package format renders decoded stream messages as short annotated lines.
package format

import (
	"strings"
	"unicode/utf8"

	"streamfmt/internal/stream"
)

// ResultLimit is the maximum length of the rendered result text.
const ResultLimit = 80

const ellipsis = "..."

// Formatter turns stream messages into output lines. The zero value is
// ready to use and produces uncolored output.
type Formatter struct {
	color bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithColor enables ANSI colors on markers and labels.
func WithColor(enabled bool) Option {
	return func(f *Formatter) { f.color = enabled }
}

// New returns a Formatter configured with opts.
func New(opts ...Option) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format returns the rendering of msg, or false when msg produces no output.
func (f *Formatter) Format(msg stream.Message) (string, bool) {
	switch msg.Kind {
	case stream.KindAssistant:
		if !msg.HasContent() {
			return "", false
		}
		lines := f.renderBlocks(msg.Content)
		if len(lines) == 0 {
			return "", false
		}
		return strings.Join(lines, "\n"), true

	case stream.KindResult:
		if msg.Result == nil {
			return "", false
		}
		return f.renderDone(*msg.Result), true

	default:
		return "", false
	}
}

func (f *Formatter) renderBlocks(blocks []stream.ContentBlock) []string {
	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		switch b := block.(type) {
		case stream.TextBlock:
			if strings.TrimSpace(b.Text) != "" {
				lines = append(lines, b.Text)
			}
		case stream.ToolUseBlock:
			lines = append(lines, renderToolUse(b.Name, b.Input, f.color))
		}
	}
	return lines
}

func (f *Formatter) renderDone(result string) string {
	return prefix(MarkerDone) + colorize(f.color, ansiDone, "Done:") + " " + Truncate(result, ResultLimit)
}

// Truncate shortens s to at most maxLen characters, replacing the tail with
// "..." when it does not fit. Lengths are counted in runes.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen < len(ellipsis) {
		return ellipsis[:maxLen]
	}

	keep := maxLen - len(ellipsis)
	cut := 0
	for idx := range s {
		if keep == 0 {
			cut = idx
			break
		}
		keep--
	}
	return s[:cut] + ellipsis
}
