package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Placeholder replaces tool input fields that are missing or not strings.
const Placeholder = "?"

// CommandLimit is the maximum length of a rendered shell command.
const CommandLimit = 80

// markerColumn is the terminal cell where the label starts after a marker.
const markerColumn = 3

const (
	MarkerRead    = "📖"
	MarkerEdit    = "✏️"
	MarkerWrite   = "📝"
	MarkerBash    = "💻"
	MarkerGlob    = "📁"
	MarkerGrep    = "🔍"
	MarkerTodo    = "📋"
	MarkerTask    = "🤖"
	MarkerUnknown = "🔧"
	MarkerDone    = "✅"
)

type toolRule struct {
	marker string
	field  string // empty: input is ignored
	limit  int    // zero: no truncation
}

var toolRules = map[string]toolRule{
	"Read":      {marker: MarkerRead, field: "file_path"},
	"Edit":      {marker: MarkerEdit, field: "file_path"},
	"Write":     {marker: MarkerWrite, field: "file_path"},
	"Bash":      {marker: MarkerBash, field: "command", limit: CommandLimit},
	"Glob":      {marker: MarkerGlob, field: "pattern"},
	"Grep":      {marker: MarkerGrep, field: "pattern"},
	"TodoWrite": {marker: MarkerTodo},
	"Task":      {marker: MarkerTask, field: "description"},
}

// KnownTool reports whether name has a dedicated rendering rule.
func KnownTool(name string) bool {
	_, ok := toolRules[name]
	return ok
}

// RenderToolUse returns the one-line summary of a tool invocation.
func RenderToolUse(name string, input map[string]any) string {
	return renderToolUse(name, input, false)
}

func renderToolUse(name string, input map[string]any, useColor bool) string {
	rule, ok := toolRules[name]
	if !ok {
		return prefix(MarkerUnknown) + colorize(useColor, ansiTool, name)
	}
	if rule.field == "" {
		return prefix(rule.marker) + colorize(useColor, ansiTool, name)
	}

	value := stringField(input, rule.field)
	if rule.limit > 0 {
		value = Truncate(value, rule.limit)
	}
	return prefix(rule.marker) + colorize(useColor, ansiTool, name+":") + " " + value
}

// stringField returns input[key] when it is a string, Placeholder otherwise.
func stringField(input map[string]any, key string) string {
	if value, ok := input[key].(string); ok {
		return value
	}
	return Placeholder
}

var markerWidth = &runewidth.Condition{StrictEmojiNeutral: true}

// prefix pads marker so the text after it starts at markerColumn.
func prefix(marker string) string {
	pad := markerColumn - markerWidth.StringWidth(marker)
	if pad < 1 {
		pad = 1
	}
	return marker + strings.Repeat(" ", pad)
}
