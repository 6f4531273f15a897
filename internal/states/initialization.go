package states

import (
	"context"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

// Initialization is the entry state. The game is expected to already sit on the map.
type Initialization struct{}

func (st *Initialization) Kind() domain.StateKind {
	return domain.KindInitialization
}

func (st *Initialization) Handle(ctx context.Context, s *runtime.Session) error {
	s.Logger().Info("agent ready, heading to the map")
	return s.TransitionTo(ctx, &MapSelection{})
}
