package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`  ____  ____  ___ ____  _____`,
	` / ___||  _ \|_ _|  _ \| ____|`,
	` \___ \| |_) || || |_) |  _|`,
	`  ___) |  __/ | ||  _ <| |___`,
	` |____/|_|   |___|_| \_\_____|`,
}

// Warm ember gradient, one color per line.
var bannerColors = []string{"#fde047", "#fbbf24", "#f97316", "#ef4444", "#b91c1c"}

// PrintBanner writes the spire banner and version to w. Colors are dropped when w is not a
// color-capable terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
