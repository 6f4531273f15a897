package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/spire/internal/presentation/tui"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.3.0\n")

	out := buf.String()
	assert.Contains(t, out, `|____/|_|   |___|_| \_\_____|`)
	assert.Contains(t, out, "v0.3.0")
	assert.NotContains(t, out, "\x1b[", "no colors outside a terminal")
}

func TestNewRenderer_PassThrough(t *testing.T) {
	render := tui.NewRenderer(&bytes.Buffer{})

	out, err := render("# Title\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", out)
	assert.False(t, tui.IsTerminal(&bytes.Buffer{}))
}

func TestCheckReport(t *testing.T) {
	t.Run("All Passed", func(t *testing.T) {
		md := tui.CheckReport("Readiness", []tui.Check{{Name: "prompts", OK: true, Detail: "9 templates"}})
		assert.Contains(t, md, "# Readiness")
		assert.Contains(t, md, "| prompts | ok | 9 templates |")
		assert.Contains(t, md, "All checks passed.")
	})

	t.Run("Failures Counted", func(t *testing.T) {
		md := tui.CheckReport("Readiness", []tui.Check{
			{Name: "prompts", OK: true},
			{Name: "memory", OK: false, Detail: "exit 1 | window\nnot found"},
		})
		assert.Contains(t, md, `| memory | **FAIL** | exit 1 \| window not found |`)
		assert.Contains(t, md, "1 of 2 checks failed.")
	})
}

func TestDisplayTable(t *testing.T) {
	md := tui.DisplayTable([]domain.Display{
		{Index: 1, Width: 1920, Height: 1080},
		{Index: 2, X: 1920, Width: 2560, Height: 1440},
	}, 2)

	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| 1 | 1920x1080 | 0,0 |  |", lines[2])
	assert.Equal(t, "| 2 | 2560x1440 | 1920,0 | selected |", lines[3])

	assert.Equal(t, "No display found.\n", tui.DisplayTable(nil, 1))
}
