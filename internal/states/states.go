package states

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

// Knowledge categories consulted by the states.
const (
	categoryNodes     = "nodes"
	categoryCards     = "cards"
	categoryItems     = "items"
	categoryBlessings = "blessings"
)

var (
	// skipPoint is an empty spot of the screen; clicking it dismisses overlays and rewards.
	skipPoint = domain.Pt(0.9, 0.5)
	// playZone is where a card is dropped to play it.
	playZone = domain.Pt(0.5, 0.5)

	// upgradeTitle reads the banner shown when a reward upgrade is offered.
	upgradeTitle = domain.Rect(0.4, 0.24, 0.2, 0.06)
	// dialogueText is the speech area of an event dialogue.
	dialogueText = domain.Rect(0.53, 0.07, 0.2, 0.13)
)

// New returns the state the agent starts in.
func New() runtime.State {
	return &Initialization{}
}

// ForKind builds a fresh state of kind k. Unknown kinds yield nil.
func ForKind(k domain.StateKind) runtime.State {
	switch k {
	case domain.KindInitialization:
		return &Initialization{}
	case domain.KindMapSelection:
		return &MapSelection{}
	case domain.KindCombat:
		return &Combat{}
	case domain.KindShop:
		return &Shop{}
	case domain.KindTavern:
		return &Tavern{}
	case domain.KindBlacksmith:
		return &Blacksmith{}
	case domain.KindChest:
		return &Chest{}
	case domain.KindFairyBlessing:
		return &FairyBlessing{}
	case domain.KindDialogueReward:
		return &DialogueReward{}
	case domain.KindSkill:
		return &Skill{}
	case domain.KindUpgrade:
		return &Upgrade{}
	case domain.KindUnknown:
		return &Unknown{}
	}
	return nil
}

// settle gives the target application time to react. A cancelled context surfaces on the next
// blocking call, so the error is not tracked here.
func settle(ctx context.Context, s *runtime.Session, d time.Duration) {
	_ = s.Sleep(ctx, d)
}

// click clicks a display-relative point, logging instead of failing.
func click(ctx context.Context, s *runtime.Session, at domain.Point, what string) bool {
	if err := s.ClickRelative(ctx, at); err != nil {
		s.Logger().Warn("click failed", "target", what, "err", err)
		return false
	}
	return true
}

// clickCenter clicks the middle of a button region, logging instead of failing.
func clickCenter(ctx context.Context, s *runtime.Session, r domain.Region, what string) bool {
	if err := s.ClickCenter(ctx, r); err != nil {
		s.Logger().Warn("click failed", "target", what, "err", err)
		return false
	}
	return true
}

// dismiss clicks the empty skip point n times.
func dismiss(ctx context.Context, s *runtime.Session, n int, pause time.Duration) {
	for range n {
		click(ctx, s, skipPoint, "skip")
		if pause > 0 {
			settle(ctx, s, pause)
		}
	}
}

// deleteSelected removes the node the agent last entered from the map.
func deleteSelected(ctx context.Context, s *runtime.Session) {
	node, ok := s.SelectedNode()
	if !ok {
		s.Logger().Warn("no selected node to delete")
		return
	}
	if err := s.DeleteLevel(ctx, node.Index); err != nil {
		s.Logger().Warn("delete node failed", "index", node.Index, "node", node.Text, "err", err)
		return
	}
	settle(ctx, s, time.Second)
}

// leave clicks the exit of an event screen and goes back to the map.
// With consume set the node is deleted first so the map does not offer it again.
func leave(ctx context.Context, s *runtime.Session, exit domain.Point, consume bool) error {
	click(ctx, s, exit, "leave")
	settle(ctx, s, time.Second)
	if consume {
		deleteSelected(ctx, s)
	}
	return s.TransitionTo(ctx, &MapSelection{})
}

// upgradeOffered reports whether the upgrade banner is on screen.
func upgradeOffered(ctx context.Context, s *runtime.Session) bool {
	title, _ := s.RecognizeText(ctx, upgradeTitle)
	return strings.Contains(title, "升级") || strings.Contains(title, "恭喜")
}

// templateUnusable reports whether err means the prompt itself could not be built, as opposed
// to the reasoner failing to answer it.
func templateUnusable(err error) bool {
	return errors.Is(err, domain.ErrTemplateMissing) || errors.Is(err, domain.ErrTemplate)
}

// describeAll renders names as "name (description)".
func describeAll(s *runtime.Session, category string, names []string, def string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("%s (%s)", name, s.Describe(category, name, def)))
	}
	return out
}

// squashSpaces removes every space, which OCR inserts between CJK glyphs.
func squashSpaces(text string) string {
	return strings.Join(strings.Fields(text), "")
}
