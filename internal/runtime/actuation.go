package runtime

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/geometry"
	"github.com/aretw0/spire/pkg/ports"
)

// Map-screen hotspots for the node management controls, indexed by level 1..3.
var (
	deleteLevelPoints = [...]domain.Point{{X: 0.35, Y: 0.24}, {X: 0.56, Y: 0.25}, {X: 0.76, Y: 0.25}}
	chooseLevelPoints = [...]domain.Point{{X: 0.3, Y: 0.63}, {X: 0.5, Y: 0.63}, {X: 0.7, Y: 0.63}}
)

var fullDisplay = domain.Rect(0, 0, 1, 1)

// ClickRelative clicks a display-relative point.
func (s *Session) ClickRelative(ctx context.Context, at domain.Point) error {
	return s.ClickIn(ctx, fullDisplay, at)
}

// ClickIn clicks a point relative to region.
func (s *Session) ClickIn(ctx context.Context, region domain.Region, at domain.Point) error {
	act, err := s.actuator()
	if err != nil {
		return err
	}
	p, err := s.global(region, at)
	if err != nil {
		return err
	}
	s.logger.Debug("click", "x", p.X, "y", p.Y)
	if err := act.Click(ctx, p.X, p.Y); err != nil {
		return fmt.Errorf("click at %v: %w", p, err)
	}
	return nil
}

// ClickCenter clicks the center of region.
func (s *Session) ClickCenter(ctx context.Context, region domain.Region) error {
	return s.ClickIn(ctx, region, domain.Pt(0.5, 0.5))
}

// MoveRelative moves the pointer to a display-relative point.
func (s *Session) MoveRelative(ctx context.Context, at domain.Point) error {
	act, err := s.actuator()
	if err != nil {
		return err
	}
	p, err := s.global(fullDisplay, at)
	if err != nil {
		return err
	}
	if err := act.Move(ctx, p.X, p.Y); err != nil {
		return fmt.Errorf("move to %v: %w", p, err)
	}
	return nil
}

// DragRelative drags between two display-relative points over d.
func (s *Session) DragRelative(ctx context.Context, from, to domain.Point, d time.Duration) error {
	act, err := s.actuator()
	if err != nil {
		return err
	}
	p1, err := s.global(fullDisplay, from)
	if err != nil {
		return err
	}
	p2, err := s.global(fullDisplay, to)
	if err != nil {
		return err
	}
	s.logger.Debug("drag", "from", p1, "to", p2, "duration", d)
	if err := act.Drag(ctx, p1.X, p1.Y, p2.X, p2.Y, d); err != nil {
		return fmt.Errorf("drag %v -> %v: %w", p1, p2, err)
	}
	return nil
}

// Scroll rolls the wheel by amount; negative scrolls down.
func (s *Session) Scroll(ctx context.Context, amount int) error {
	act, err := s.actuator()
	if err != nil {
		return err
	}
	if err := act.Scroll(ctx, amount); err != nil {
		return fmt.Errorf("scroll %d: %w", amount, err)
	}
	return nil
}

// DeleteLevel removes a resolved node from the map so it is not offered again.
func (s *Session) DeleteLevel(ctx context.Context, level int) error {
	if level < 1 || level > len(deleteLevelPoints) {
		return fmt.Errorf("delete level %d: %w", level, domain.ErrOutOfBounds)
	}
	s.logger.Info("deleting map node", "level", level)
	return s.ClickRelative(ctx, deleteLevelPoints[level-1])
}

// ChooseLevel clicks one of the three node choices on the map.
func (s *Session) ChooseLevel(ctx context.Context, level int) error {
	if level < 1 || level > len(chooseLevelPoints) {
		return fmt.Errorf("choose level %d: %w", level, domain.ErrOutOfBounds)
	}
	return s.ClickRelative(ctx, chooseLevelPoints[level-1])
}

func (s *Session) actuator() (ports.InputActuator, error) {
	if s.ports.Actuator == nil {
		return nil, fmt.Errorf("no input actuator: %w", domain.ErrNotFound)
	}
	return s.ports.Actuator, nil
}

func (s *Session) global(region domain.Region, at domain.Point) (image.Point, error) {
	if s.ports.Frames == nil {
		return image.Point{}, domain.ErrNoDisplay
	}
	return geometry.ToGlobal(s.ports.Frames.Display(), region, at)
}
