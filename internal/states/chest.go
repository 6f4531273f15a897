package states

import (
	"context"
	"strings"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

var (
	chestContents = domain.Rect(0.4, 0.1, 0.2, 0.05)
	chestTake     = domain.Pt(0.45, 0.8)
	chestSkip     = domain.Pt(0.55, 0.8)
)

// Chest decides whether to take the card found in a chest.
type Chest struct{}

func (st *Chest) Kind() domain.StateKind {
	return domain.KindChest
}

func (st *Chest) Handle(ctx context.Context, s *runtime.Session) error {
	text, answer, err := s.RecognizeAndAsk(ctx, chestContents, "chest_reward", categoryCards)
	if templateUnusable(err) {
		s.Logger().Warn("chest prompt unusable", "err", err)
		return s.TransitionTo(ctx, &MapSelection{})
	}
	if err != nil {
		s.Logger().Warn("chest not read yet", "err", err)
		return nil
	}

	switch {
	case strings.Contains(answer, "拿取"):
		s.Logger().Info("taking chest reward", "reward", text)
		click(ctx, s, chestTake, "take")
	case strings.Contains(answer, "跳过"):
		s.Logger().Info("skipping chest reward", "reward", text)
		click(ctx, s, chestSkip, "skip")
		deleteSelected(ctx, s)
	default:
		s.Logger().Warn("unrecognized chest decision", "answer", answer)
	}
	return s.TransitionTo(ctx, &MapSelection{})
}
