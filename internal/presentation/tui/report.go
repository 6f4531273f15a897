package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/spire/pkg/domain"
)

// Check is one line of a readiness report.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// CheckReport renders readiness checks as a markdown table.
func CheckReport(title string, checks []Check) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| Check | Result | Detail |\n|---|---|---|\n")
	failed := 0
	for _, c := range checks {
		result := "ok"
		if !c.OK {
			result = "**FAIL**"
			failed++
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", c.Name, result, cell(c.Detail))
	}
	if failed == 0 {
		b.WriteString("\nAll checks passed.\n")
	} else {
		fmt.Fprintf(&b, "\n%d of %d checks failed.\n", failed, len(checks))
	}
	return b.String()
}

// DisplayTable renders the host monitors as a markdown table, marking the selected one.
func DisplayTable(displays []domain.Display, selected int) string {
	if len(displays) == 0 {
		return "No display found.\n"
	}
	var b strings.Builder
	b.WriteString("| # | Size | Offset | |\n|---|---|---|---|\n")
	for _, d := range displays {
		mark := ""
		if d.Index == selected {
			mark = "selected"
		}
		fmt.Fprintf(&b, "| %d | %dx%d | %d,%d | %s |\n", d.Index, d.Width, d.Height, d.X, d.Y, mark)
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
