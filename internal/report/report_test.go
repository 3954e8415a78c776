package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamfmt/internal/pipe"
	"streamfmt/internal/stream"
)

func sampleStats() pipe.Stats {
	return pipe.Stats{
		Lines:        10,
		Emitted:      6,
		DecodeErrors: 1,
		ReadErrors:   1,
		UnknownTools: 1,
		Kinds: map[stream.Kind]int{
			stream.KindAssistant: 7,
			stream.KindResult:    1,
			"system":             1,
		},
		Tools: map[string]int{
			"Read": 2,
			"Bash":     4,
			"WebFetch": 1,
		},
	}
}

func TestWriteStatsPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, sampleStats(), "plain", 0))

	expected := strings.Join([]string{
		"stream\tlines\t10",
		"stream\temitted\t6",
		"stream\tskipped\t5",
		"stream\tdecode_errors\t1",
		"stream\tread_errors\t1",
		"stream\twrite_errors\t0",
		"stream\tunknown_tools\t1",
		"kind\tassistant\t7",
		"kind\tresult\t1",
		"kind\tsystem\t1",
		"tool\tBash\t4",
		"tool\tRead\t2",
		"tool\tWebFetch\t1",
	}, "\n") + "\n"

	assert.Equal(t, expected, buf.String())
}

func TestWriteStatsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, sampleStats(), "table", 0))

	out := buf.String()
	assert.Contains(t, out, "GROUP")
	assert.Contains(t, out, "COUNT")
	assert.Contains(t, out, "│ tool   │ Bash          │     4 │")
	assert.Less(t, strings.Index(out, "Bash"), strings.Index(out, "Read"))
	assert.True(t, strings.HasSuffix(out, "╯\n"), "table ends with its bottom border and a newline")
}

// errWriter fails every write.
type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteStatsTable_WriteError(t *testing.T) {
	err := WriteStats(errWriter{}, sampleStats(), "table", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestWriteStatsTable_NoTools(t *testing.T) {
	stats := sampleStats()
	stats.Tools = map[string]int{}

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, stats, "", 0))
	assert.NotContains(t, buf.String(), "tool")
}

func TestWriteStatsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, sampleStats(), "JSON", 0))

	var payload statsPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, 10, payload.Lines)
	assert.Equal(t, 5, payload.Skipped)
	assert.Equal(t, 7, payload.Kinds["assistant"])
	assert.Equal(t, 4, payload.Tools["Bash"])
	assert.Equal(t, 1, payload.UnknownTools)
}

func TestWriteStatsInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStats(&buf, sampleStats(), "xml", 0)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, buf.String())
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", "table", "Plain", "json"} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("yaml"))
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	assert.Zero(t, TerminalWidth(&bytes.Buffer{}))
}
