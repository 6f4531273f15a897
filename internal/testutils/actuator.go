package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/spire/pkg/domain"
)

// Action is one recorded input, in normalized display coordinates.
type Action struct {
	Kind     string
	At       domain.Point
	To       domain.Point
	Amount   int
	Duration time.Duration
}

func (a Action) String() string {
	switch a.Kind {
	case "drag":
		return fmt.Sprintf("drag(%.3f,%.3f->%.3f,%.3f)", a.At.X, a.At.Y, a.To.X, a.To.Y)
	case "scroll":
		return fmt.Sprintf("scroll(%d)", a.Amount)
	default:
		return fmt.Sprintf("%s(%.3f,%.3f)", a.Kind, a.At.X, a.At.Y)
	}
}

// Actuator is a fake InputActuator recording every action.
type Actuator struct {
	mu      sync.Mutex
	display domain.Display
	Actions []Action
	Err     error
}

func (a *Actuator) record(act Action) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Actions = append(a.Actions, act)
	return nil
}

func (a *Actuator) norm(x, y int) domain.Point {
	return domain.Pt(
		float64(x-a.display.X)/float64(a.display.Width),
		float64(y-a.display.Y)/float64(a.display.Height),
	)
}

func (a *Actuator) Move(ctx context.Context, x, y int) error {
	return a.record(Action{Kind: "move", At: a.norm(x, y)})
}

func (a *Actuator) Click(ctx context.Context, x, y int) error {
	return a.record(Action{Kind: "click", At: a.norm(x, y)})
}

func (a *Actuator) Drag(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	return a.record(Action{Kind: "drag", At: a.norm(x1, y1), To: a.norm(x2, y2), Duration: duration})
}

func (a *Actuator) Scroll(ctx context.Context, amount int) error {
	return a.record(Action{Kind: "scroll", Amount: amount})
}

// Clicks returns the normalized points of every click, in order.
func (a *Actuator) Clicks() []domain.Point {
	return a.points("click")
}

// Scrolls returns the amounts of every scroll, in order.
func (a *Actuator) Scrolls() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []int
	for _, act := range a.Actions {
		if act.Kind == "scroll" {
			out = append(out, act.Amount)
		}
	}
	return out
}

// Drags returns every recorded drag.
func (a *Actuator) Drags() []Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Action
	for _, act := range a.Actions {
		if act.Kind == "drag" {
			out = append(out, act)
		}
	}
	return out
}

// Clicked reports whether any click landed within 0.002 of p.
func (a *Actuator) Clicked(p domain.Point) bool {
	for _, c := range a.Clicks() {
		if near(c, p) {
			return true
		}
	}
	return false
}

// CountClicks reports how many clicks landed within 0.002 of p.
func (a *Actuator) CountClicks(p domain.Point) int {
	n := 0
	for _, c := range a.Clicks() {
		if near(c, p) {
			n++
		}
	}
	return n
}

func (a *Actuator) points(kind string) []domain.Point {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.Point
	for _, act := range a.Actions {
		if act.Kind == kind {
			out = append(out, act.At)
		}
	}
	return out
}

func near(a, b domain.Point) bool {
	const eps = 0.002
	return a.X > b.X-eps && a.X < b.X+eps && a.Y > b.Y-eps && a.Y < b.Y+eps
}
