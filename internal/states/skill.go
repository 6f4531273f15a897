package states

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

var (
	skillButton = domain.Pt(0.21, 0.9)
	skillTip    = domain.Rect(0.4, 0.24, 0.25, 0.05)
)

// Skill triggers the skill node. Skills that only work after a fight show a tip instead of a
// reward chest.
type Skill struct{}

func (st *Skill) Kind() domain.StateKind {
	return domain.KindSkill
}

func (st *Skill) Handle(ctx context.Context, s *runtime.Session) error {
	for range 4 {
		click(ctx, s, skillButton, "skill")
		settle(ctx, s, 500*time.Millisecond)
	}
	tip, _ := s.RecognizeText(ctx, skillTip)
	if strings.Contains(squashSpaces(tip), "战斗后才可以使用") {
		s.Logger().Info("skill not usable outside a fight")
		return s.TransitionTo(ctx, &MapSelection{})
	}
	return s.TransitionTo(ctx, &Chest{})
}
