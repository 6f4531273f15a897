// Package scanner enumerates the labels of a scrollable grid and re-locates one of them for
// interaction.
//
// Enumeration and re-location are separate because the on-screen position of a label can move
// while the reasoner is deciding; locating right before acting avoids stale coordinates.
package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/geometry"
)

// Surface is what the scanner needs from a session.
type Surface interface {
	RecognizeText(ctx context.Context, region domain.Region) (string, []domain.RecognizedItem)
	MoveRelative(ctx context.Context, at domain.Point) error
	Scroll(ctx context.Context, amount int) error
	Sleep(ctx context.Context, d time.Duration) error
}

// Config describes one scrollable grid.
type Config struct {
	Grid geometry.Grid
	// ScrollAmount is applied between enumeration passes, in raw wheel units.
	ScrollAmount int
	// RelocateScroll is applied between re-location attempts.
	RelocateScroll int
	// Pause lets the list settle after a scroll.
	Pause time.Duration
	// MaxScrolls bounds enumeration; the scan count never exceeds MaxScrolls+1.
	MaxScrolls int
	// RelocateAttempts is the number of scrolls tried by Locate after the initial look.
	RelocateAttempts int
	// Away is where the pointer is parked so it does not hide a label.
	Away domain.Point
}

// CardGrid is the deck grid shown by the card-removal and card-upgrade screens.
func CardGrid(scroll int) Config {
	return Config{
		Grid: geometry.Grid{
			First:    domain.Rect(0.18, 0.2, 0.1, 0.05),
			VSpacing: 0.32,
			HSpacing: 0.14,
			Cols:     5,
			Rows:     2,
		},
		ScrollAmount:     scroll,
		RelocateScroll:   -120,
		Pause:            500 * time.Millisecond,
		MaxScrolls:       10,
		RelocateAttempts: 3,
		Away:             domain.Pt(0.85, 0.25),
	}
}

// Scanner runs the enumeration and re-location algorithms over one grid.
type Scanner struct {
	cfg Config
}

// New creates a Scanner for cfg.
func New(cfg Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Normalize trims a recognized label and strips one trailing "+" rank marker.
// Labels of one character or less are noise and come back empty.
func Normalize(label string) string {
	label = strings.TrimSpace(label)
	label = strings.TrimSpace(strings.TrimSuffix(label, "+"))
	if utf8.RuneCountInString(label) <= 1 {
		return ""
	}
	return label
}

// Enumerate collects every distinct label in the grid, scrolling until a scan after the first
// with no new label is confirmed by one more scroll-and-scan pass. The result is sorted. Running out of
// scroll budget returns what was seen together with domain.ErrPartialEnumeration.
func (sc *Scanner) Enumerate(ctx context.Context, s Surface) ([]string, error) {
	seen := map[string]struct{}{}
	confirming := false
	scrolls := 0

	if err := s.MoveRelative(ctx, sc.cfg.Away); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return sorted(seen), err
		}
		fresh := 0
		for _, label := range sc.scan(ctx, s, sc.cfg.Grid.Rows, enumerable) {
			if _, ok := seen[label]; !ok {
				seen[label] = struct{}{}
				fresh++
			}
		}

		// The first pass always scrolls; only later passes can start the confirmation.
		if fresh == 0 && scrolls > 0 {
			if confirming {
				return sorted(seen), nil
			}
			confirming = true
		} else {
			confirming = false
		}

		if scrolls >= sc.cfg.MaxScrolls {
			return sorted(seen), fmt.Errorf("%d labels after %d scrolls: %w", len(seen), scrolls, domain.ErrPartialEnumeration)
		}
		if err := sc.scroll(ctx, s, sc.cfg.ScrollAmount); err != nil {
			return sorted(seen), err
		}
		scrolls++
	}
}

// Locate re-scans the grid for target and returns the point to click: the cell center,
// lowered by half a row so it lands on the card beneath the label. It looks first without
// scrolling, then after each of up to RelocateAttempts scrolls.
func (sc *Scanner) Locate(ctx context.Context, s Surface, target string) (domain.Point, error) {
	target = Normalize(target)
	if target == "" {
		return domain.Point{}, fmt.Errorf("empty target: %w", domain.ErrNotFound)
	}

	if err := sc.away(ctx, s); err != nil {
		return domain.Point{}, err
	}
	for attempt := 0; attempt <= sc.cfg.RelocateAttempts; attempt++ {
		if attempt > 0 {
			if err := sc.scroll(ctx, s, sc.cfg.RelocateScroll); err != nil {
				return domain.Point{}, err
			}
			if err := sc.away(ctx, s); err != nil {
				return domain.Point{}, err
			}
		}
		for _, cell := range sc.cells(sc.cfg.Grid.Rows+1, locatable) {
			text, _ := s.RecognizeText(ctx, cell)
			if Normalize(text) != target {
				continue
			}
			return domain.Point{
				X: cell.Left + cell.Width/2,
				Y: cell.Top + sc.cfg.Grid.VSpacing/2,
			}.Clamp(0.02, 0.98), nil
		}
	}
	return domain.Point{}, fmt.Errorf("%q after %d scrolls: %w", target, sc.cfg.RelocateAttempts, domain.ErrNotFound)
}

func (sc *Scanner) scan(ctx context.Context, s Surface, rows int, keep func(domain.Region) bool) []string {
	var labels []string
	for _, cell := range sc.cells(rows, keep) {
		text, _ := s.RecognizeText(ctx, cell)
		if label := Normalize(text); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// cells returns the grid cells of the first rows rows that keep accepts, in row-major order.
func (sc *Scanner) cells(rows int, keep func(domain.Region) bool) []domain.Region {
	var out []domain.Region
	for _, cell := range sc.cfg.Grid.Cells(rows) {
		if keep(cell) {
			out = append(out, cell)
		}
	}
	return out
}

func (sc *Scanner) scroll(ctx context.Context, s Surface, amount int) error {
	if err := s.Scroll(ctx, amount); err != nil {
		return err
	}
	return s.Sleep(ctx, sc.cfg.Pause)
}

func (sc *Scanner) away(ctx context.Context, s Surface) error {
	if err := s.MoveRelative(ctx, sc.cfg.Away); err != nil {
		return err
	}
	return s.Sleep(ctx, 200*time.Millisecond)
}

// enumerable accepts cells lying entirely on screen.
func enumerable(c domain.Region) bool {
	return c.Left < 1 && c.Top < 1 && c.Left+c.Width <= 1 && c.Top+c.Height <= 1
}

// locatable also needs a non-negative origin and a positive size.
func locatable(c domain.Region) bool {
	return c.Left >= 0 && c.Top >= 0 && c.Width > 0 && c.Height > 0 && enumerable(c)
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for label := range set {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
