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

var (
	// deckLeave and deckConfirm are shared by every deck-editing screen.
	deckLeave   = domain.Pt(0.86, 0.1)
	deckConfirm = domain.Pt(0.45, 0.73)
)

// Tavern offers to remove one card from the deck.
type Tavern struct{}

func (st *Tavern) Kind() domain.StateKind {
	return domain.KindTavern
}

func (st *Tavern) Handle(ctx context.Context, s *runtime.Session) error {
	sc := scanner.New(scanner.CardGrid(-520))
	cards, err := sc.Enumerate(ctx, s)
	if err != nil && !errors.Is(err, domain.ErrPartialEnumeration) {
		return err
	}
	if len(cards) == 0 {
		s.Logger().Warn("no removable cards")
		click(ctx, s, deckLeave, "leave")
		return s.TransitionTo(ctx, &MapSelection{})
	}

	vars := map[string]string{
		"removable_cards": strings.Join(describeAll(s, categoryCards, cards, "未知卡牌"), ", "),
	}
	answer, err := s.Ask(ctx, "tavern_removal", vars, domain.TopicMap)
	switch {
	case templateUnusable(err):
		s.Logger().Warn("removal prompt unusable", "err", err)
		click(ctx, s, deckLeave, "leave")
		return s.TransitionTo(ctx, &MapSelection{})
	case err != nil:
		s.Logger().Warn("no removal decision", "err", err)
	case strings.Contains(answer, "不需要移除"):
		s.Logger().Info("keeping the deck as is")
		return leave(ctx, s, deckLeave, true)
	default:
		st.remove(ctx, s, sc, cards, answer)
	}

	settle(ctx, s, time.Second)
	return leave(ctx, s, deckLeave, true)
}

func (st *Tavern) remove(ctx context.Context, s *runtime.Session, sc *scanner.Scanner, cards []string, answer string) {
	target := scanner.Normalize(answer)
	if !slices.Contains(cards, target) {
		s.Logger().Warn("card to remove is not in the deck", "answer", answer)
		return
	}
	at, err := sc.Locate(ctx, s, target)
	if err != nil {
		s.Logger().Warn("locate card", "card", target, "err", err)
		return
	}
	click(ctx, s, at, "card")
	settle(ctx, s, 500*time.Millisecond)
	click(ctx, s, deckConfirm, "confirm")
	s.Logger().Info("card removed", "card", target)
}
