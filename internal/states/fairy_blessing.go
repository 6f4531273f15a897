package states

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

var (
	blessingOptions = domain.Rect(0.28, 0.55, 0.50, 0.07)
	blessingPoints  = [...]domain.Point{{X: 0.3, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.7, Y: 0.5}}
	blessingConfirm = domain.Pt(0.5, 0.7)
)

// FairyBlessing picks one of three blessings.
type FairyBlessing struct{}

func (st *FairyBlessing) Kind() domain.StateKind {
	return domain.KindFairyBlessing
}

func (st *FairyBlessing) Handle(ctx context.Context, s *runtime.Session) error {
	_, answer, err := s.RecognizeAndAsk(ctx, blessingOptions, "fairy_blessing", categoryBlessings)
	if templateUnusable(err) {
		s.Logger().Warn("blessing prompt unusable", "err", err)
		return s.TransitionTo(ctx, &MapSelection{})
	}
	if err != nil {
		s.Logger().Warn("blessings not read yet", "err", err)
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(blessingPoints) {
		s.Logger().Warn("invalid blessing choice", "answer", answer)
		return nil
	}
	click(ctx, s, blessingPoints[n-1], "blessing")
	settle(ctx, s, 500*time.Millisecond)
	click(ctx, s, blessingConfirm, "confirm")
	s.Logger().Info("blessing chosen", "index", n)
	return s.TransitionTo(ctx, &MapSelection{})
}
