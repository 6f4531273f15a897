package states

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

var (
	upgradeOptions = domain.Rect(0.26, 0.53, 0.47, 0.05)
	upgradeDismiss = domain.Pt(0.5, 0.5)
)

// Upgrade picks a reward upgrade. Removing or upgrading a card opens the deck editor of the
// matching node.
type Upgrade struct{}

func (st *Upgrade) Kind() domain.StateKind {
	return domain.KindUpgrade
}

func (st *Upgrade) Handle(ctx context.Context, s *runtime.Session) error {
	if !upgradeOffered(ctx, s) {
		settle(ctx, s, time.Second)
		return s.TransitionTo(ctx, &MapSelection{})
	}

	raw, _ := s.RecognizeText(ctx, upgradeOptions)
	options := strings.TrimSpace(raw)
	if options == "" {
		click(ctx, s, upgradeDismiss, "dismiss")
		return s.TransitionTo(ctx, &MapSelection{})
	}

	answer, err := s.Ask(ctx, "upgrade", map[string]string{"options_text": options}, domain.TopicMap)
	if templateUnusable(err) {
		s.Logger().Warn("upgrade prompt unusable", "err", err)
		click(ctx, s, upgradeDismiss, "dismiss")
		return s.TransitionTo(ctx, &MapSelection{})
	}
	if err != nil {
		s.Logger().Warn("no upgrade choice", "err", err)
		settle(ctx, s, time.Second)
		return nil
	}

	item, ok := s.FindText(ctx, answer, upgradeOptions)
	if !ok {
		s.Logger().Warn("upgrade option not on screen", "answer", answer)
		settle(ctx, s, time.Second)
		return nil
	}
	if err := s.ClickIn(ctx, upgradeOptions, item.Center); err != nil {
		s.Logger().Warn("click upgrade option", "err", err)
		return nil
	}
	settle(ctx, s, 1500*time.Millisecond)

	switch {
	case strings.Contains(answer, "清除"):
		return s.TransitionTo(ctx, &Tavern{})
	case strings.Contains(answer, "强化"):
		return s.TransitionTo(ctx, &Blacksmith{FromUpgrade: true})
	}
	return s.TransitionTo(ctx, &MapSelection{})
}
