package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prevOut, prevErr := stdout, stderr
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(prevOut, prevErr) })
	return &out, &errOut
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.Equal(t, "██████████ 100%", ProgressBar(3, 3, 10))
}

func TestPanelPadsToWidestLine(t *testing.T) {
	out, _ := capture(t)
	SetTheme("mono")
	defer SetTheme("classic")

	Panel([]string{"Todos", "☐ Buy milk"})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"+------------+",
		"| Todos      |",
		"| ☐ Buy milk |",
		"+------------+",
	}, lines)
}

func TestOKAndFailWithoutTTY(t *testing.T) {
	out, errOut := capture(t)

	OK("added")
	Fail("load: boom")
	Hint("run the schema")

	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ load: boom\nHint: run the schema\n", errOut.String())
}

func TestColorMode(t *testing.T) {
	capture(t)
	t.Cleanup(func() { SetTheme("classic"); _ = SetColorMode("auto") })

	SetTheme("classic")
	require.NoError(t, SetColorMode("always"))
	assert.Equal(t, dim+" 1."+reset, Dim(" 1."))

	require.NoError(t, SetColorMode("auto"))
	assert.Equal(t, " 1.", Dim(" 1."), "buffer is not a terminal")

	require.NoError(t, SetColorMode("always"))
	require.NoError(t, SetColorMode("never"))
	assert.Equal(t, " 1.", Dim(" 1."))

	assert.Error(t, SetColorMode("rainbow"))
}
