package states

import (
	"context"
	"strings"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

var unknownProbe = domain.Rect(0.4, 0.4, 0.2, 0.2)

// Unknown describes an unrecognized screen to the reasoner and falls back to the map.
type Unknown struct{}

func (st *Unknown) Kind() domain.StateKind {
	return domain.KindUnknown
}

func (st *Unknown) Handle(ctx context.Context, s *runtime.Session) error {
	sample, _ := s.RecognizeText(ctx, unknownProbe)
	if sample = strings.TrimSpace(sample); sample == "" {
		sample = "N/A"
	}
	summary := "无数据"
	if snap, err := s.Snapshot(ctx); err == nil {
		summary = snap.Summary()
	}

	vars := map[string]string{
		"ocr_sample":        sample,
		"game_data_summary": summary,
	}
	if answer, err := s.Ask(ctx, "unknown_state", vars, domain.TopicMap); err != nil {
		s.Logger().Warn("unknown screen not classified", "err", err)
	} else {
		s.Logger().Info("unknown screen classified", "answer", answer)
	}
	return s.TransitionTo(ctx, &MapSelection{})
}
