package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "stream", name)
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommandFixture(t *testing.T) {
	in, err := os.ReadFile(fixturePath("session.jsonl"))
	require.NoError(t, err)
	want, err := os.ReadFile(fixturePath("session.txt"))
	require.NoError(t, err)

	out, errOut, err := execute(t, string(in))
	require.NoError(t, err)
	assert.Equal(t, string(want), out)
	assert.Empty(t, errOut, "skipped lines are silent by default")
}

func TestRootCommandVerbose(t *testing.T) {
	out, errOut, err := execute(t, "garbage\n{\"type\":\"result\",\"result\":\"ok\"}\n", "--verbose")
	require.NoError(t, err)
	assert.Equal(t, "✅ Done: ok\n", out)
	assert.Contains(t, errOut, "skipping undecodable line")
}

func TestRootCommandStats(t *testing.T) {
	in := "{\"type\":\"assistant\",\"message\":{\"content\":[{\"type\":\"tool_use\",\"name\":\"Bash\",\"input\":{\"command\":\"ls\"}}]}}\n"

	out, errOut, err := execute(t, in, "--stats", "--stats-format", "plain")
	require.NoError(t, err)
	assert.Equal(t, "💻 Bash: ls\n", out)
	assert.Contains(t, errOut, "stream\temitted\t1\n")
	assert.Contains(t, errOut, "tool\tBash\t1\n")
}

func TestRootCommandForcedColor(t *testing.T) {
	out, _, err := execute(t, `{"type":"result","result":"ok"}`, "--color")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.True(t, strings.HasPrefix(out, "✅ "))
}

func TestRootCommandNoFlagsIsByteExact(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	in := "{\"type\":\"assistant\",\"message\":{\"content\":[{\"type\":\"tool_use\",\"name\":\"Edit\",\"input\":{\"file_path\":\"/a\"}}]}}\n" +
		"{\"type\":\"result\",\"result\":\"ok\"}\n"

	out, _, err := execute(t, in)
	require.NoError(t, err)
	assert.Equal(t, "✏️  Edit: /a\n✅ Done: ok\n", out)
}

func TestRootCommandRejectsBadFlags(t *testing.T) {
	_, _, err := execute(t, "", "--color", "--no-color")
	require.Error(t, err)

	_, _, err = execute(t, "", "--stats-format", "xml")
	require.Error(t, err)

	_, _, err = execute(t, "", "extra-arg")
	require.Error(t, err)
}
