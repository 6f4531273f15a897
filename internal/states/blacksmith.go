package states

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/internal/scanner"
	"github.com/aretw0/spire/pkg/domain"
)

// skipUpgradeWords mark an answer declining the upgrade. Matched against the lowercased answer.
var skipUpgradeWords = []string{"不需要", "跳过", "nothing", "skip", "不升级"}

// Blacksmith upgrades one card of the deck. Reached from an Upgrade reward it applies the
// upgrade twice and returns straight to the map.
type Blacksmith struct {
	FromUpgrade bool
}

func (st *Blacksmith) Kind() domain.StateKind {
	return domain.KindBlacksmith
}

func (st *Blacksmith) Handle(ctx context.Context, s *runtime.Session) error {
	sc := scanner.New(scanner.CardGrid(-120))
	cards, err := sc.Enumerate(ctx, s)
	if err != nil && !errors.Is(err, domain.ErrPartialEnumeration) {
		return err
	}

	if len(cards) == 0 {
		s.Logger().Warn("no upgradeable cards")
	} else {
		st.upgrade(ctx, s, sc, cards)
	}

	if st.FromUpgrade {
		settle(ctx, s, time.Second)
		return s.TransitionTo(ctx, &MapSelection{})
	}
	settle(ctx, s, 500*time.Millisecond)
	return leave(ctx, s, deckLeave, true)
}

func (st *Blacksmith) upgrade(ctx context.Context, s *runtime.Session, sc *scanner.Scanner, cards []string) {
	vars := map[string]string{
		"upgradeable_cards": strings.Join(describeAll(s, categoryCards, cards, "未知卡牌"), ", "),
	}
	answer, err := s.Ask(ctx, "blacksmith_upgrade", vars, domain.TopicMap)
	if err != nil {
		s.Logger().Warn("no upgrade decision", "err", err)
		return
	}
	lower := strings.ToLower(answer)
	for _, w := range skipUpgradeWords {
		if strings.Contains(lower, w) {
			s.Logger().Info("upgrade declined")
			return
		}
	}

	target := scanner.Normalize(answer)
	if !slices.Contains(cards, target) {
		s.Logger().Warn("card to upgrade is not in the deck", "answer", answer)
		return
	}
	at, err := sc.Locate(ctx, s, target)
	if err != nil {
		s.Logger().Warn("locate card", "card", target, "err", err)
		return
	}

	times := 1
	if st.FromUpgrade {
		times = 2
	}
	for i := range times {
		if i > 0 {
			settle(ctx, s, time.Second)
		}
		click(ctx, s, at, "card")
		settle(ctx, s, time.Second)
		click(ctx, s, deckConfirm, "confirm")
		settle(ctx, s, 1500*time.Millisecond)
	}
	s.Logger().Info("card upgraded", "card", target, "times", times)
}
