package states

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
)

var (
	discardPrompt    = domain.Rect(0.4, 0.15, 0.2, 0.1)
	discardNames     = domain.Rect(0.05, 0.33, 0.9, 0.05)
	discardConfirm   = domain.Rect(0.38, 0.8, 0.07, 0.05)
	discardCancel    = domain.Rect(0.55, 0.8, 0.07, 0.05)
	discardCountExpr = regexp.MustCompile(`(?:选择|弃置)(\d+)张(?:牌)?`)
)

const (
	discardReadAttempts = 3
	discardScrolls      = 5
	// discardMatchRatio is the similarity above which a reasoner answer names an offered card.
	discardMatchRatio = 80
)

// DiscardCount extracts how many cards a forced-discard prompt asks for. It defaults to 1.
func DiscardCount(prompt string) int {
	m := discardCountExpr.FindStringSubmatch(squashSpaces(prompt))
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// MatchSelection resolves the names chosen by the reasoner against the offered cards. Each
// chosen name consumes one offered copy, matched exactly, then by containment, then by
// similarity. The result holds the offered names in choice order.
func MatchSelection(chosen, offered []string) ([]string, bool) {
	left := map[string]int{}
	for _, name := range offered {
		left[name]++
	}
	out := make([]string, 0, len(chosen))
	for _, name := range chosen {
		match, ok := matchOffered(name, offered, left)
		if !ok {
			return nil, false
		}
		left[match]--
		out = append(out, match)
	}
	return out, true
}

func matchOffered(name string, offered []string, left map[string]int) (string, bool) {
	if left[name] > 0 {
		return name, true
	}
	for _, o := range offered {
		if left[o] > 0 && (strings.Contains(o, name) || strings.Contains(name, o)) {
			return o, true
		}
	}
	for _, o := range offered {
		if left[o] > 0 && knowledge.Ratio(name, o) >= discardMatchRatio {
			return o, true
		}
	}
	return "", false
}

// splitNames splits a reasoner answer on ASCII and full-width commas.
func splitNames(answer string) []string {
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == '，' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// discard runs the forced-discard overlay that may follow the end of a turn. Anything that keeps
// it from picking exactly the requested cards cancels the overlay.
func discard(ctx context.Context, s *runtime.Session, prompt string) {
	count := DiscardCount(prompt)
	log := s.Logger().With("discard_count", count)

	offered := readDiscardable(ctx, s)
	if len(offered) == 0 {
		log.Warn("no discardable cards recognized")
		cancelDiscard(ctx, s)
		return
	}

	lines := make([]string, len(offered))
	for i, name := range offered {
		lines[i] = fmt.Sprintf("%d:%s (%s)", i, name, s.Describe(categoryCards, name, "未知卡牌"))
	}
	vars := map[string]string{
		"discard_count":   strconv.Itoa(count),
		"available_cards": strings.Join(lines, ", "),
	}
	answer, err := s.Ask(ctx, "discard", vars, domain.TopicCombat)
	switch {
	case templateUnusable(err):
		log.Warn("discard prompt unusable", "err", err)
		cancelDiscard(ctx, s)
		return
	case err != nil:
		answer = strings.Join(offered[:min(count, len(offered))], ", ")
		log.Warn("no discard decision, taking the first cards", "err", err, "cards", answer)
	}

	chosen := splitNames(answer)
	if len(chosen) != count {
		log.Warn("wrong number of cards chosen", "chosen", chosen)
		cancelDiscard(ctx, s)
		return
	}
	picks, ok := MatchSelection(chosen, offered)
	if !ok {
		log.Warn("chosen cards are not on offer", "chosen", chosen, "offered", offered)
		cancelDiscard(ctx, s)
		return
	}

	for _, name := range picks {
		if !pickDiscard(ctx, s, name) {
			log.Warn("discard card not found", "card", name)
			cancelDiscard(ctx, s)
			return
		}
	}
	log.Info("cards discarded", "cards", picks)
	clickCenter(ctx, s, discardConfirm, "confirm discard")
	settle(ctx, s, 500*time.Millisecond)
}

// readDiscardable reads the names shown on the discard overlay, left to right, keeping
// duplicates.
func readDiscardable(ctx context.Context, s *runtime.Session) []string {
	for attempt := range discardReadAttempts {
		if attempt > 0 {
			settle(ctx, s, 700*time.Millisecond)
		}
		items := s.RecognizeItems(ctx, discardNames)
		slices.SortStableFunc(items, func(a, b domain.RecognizedItem) int {
			return cmp.Compare(a.Box.Left, b.Box.Left)
		})
		var names []string
		for _, item := range items {
			text := strings.TrimSpace(item.Text)
			if hasHan(text) && len([]rune(text)) > 1 {
				names = append(names, text)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return nil
}

// pickDiscard clicks one card on the overlay, dragging the list along when it is not visible.
func pickDiscard(ctx context.Context, s *runtime.Session, name string) bool {
	center := discardNames.Center()
	from := domain.Pt(center.X, discardNames.Top+0.8*discardNames.Height)
	to := domain.Pt(center.X, discardNames.Top+0.2*discardNames.Height)

	for attempt := range discardScrolls + 1 {
		if attempt > 0 {
			if err := s.DragRelative(ctx, from, to, 400*time.Millisecond); err != nil {
				s.Logger().Warn("drag discard list", "err", err)
			}
			settle(ctx, s, 1200*time.Millisecond)
		}
		item, ok := s.FindText(ctx, name, discardNames)
		if !ok {
			continue
		}
		if err := s.ClickIn(ctx, discardNames, item.Center); err != nil {
			s.Logger().Warn("click discard card", "card", name, "err", err)
			return false
		}
		settle(ctx, s, 800*time.Millisecond)
		return true
	}
	return false
}

func cancelDiscard(ctx context.Context, s *runtime.Session) {
	clickCenter(ctx, s, discardCancel, "cancel discard")
	settle(ctx, s, 500*time.Millisecond)
}
