package ports

import (
	"context"
	"time"
)

// InputActuator injects synthetic input at global pixel coordinates.
// Normalized coordinates are converted by the session before reaching the actuator.
type InputActuator interface {
	Move(ctx context.Context, x, y int) error
	Click(ctx context.Context, x, y int) error
	Drag(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error
	// Scroll rolls the wheel by amount raw wheel units (120 per notch); negative amounts scroll down.
	Scroll(ctx context.Context, amount int) error
}
