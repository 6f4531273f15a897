package desktop

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/domain"
)

const (
	// DefaultPause follows every injected input so the target application can react.
	DefaultPause = 50 * time.Millisecond

	// WheelDelta is the raw wheel distance of one notch.
	WheelDelta = 120

	dragStep = 10 * time.Millisecond
)

// Desktop implements ports.FrameSource and ports.InputActuator for one display of the host.
type Desktop struct {
	backend backend
	display domain.Display
	pause   time.Duration
	logger  *slog.Logger
}

// Option configures a Desktop.
type Option func(*Desktop)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Desktop) {
		d.logger = logger
	}
}

// WithPause sets the delay after every input.
func WithPause(p time.Duration) Option {
	return func(d *Desktop) {
		d.pause = p
	}
}

func withBackend(b backend) Option {
	return func(d *Desktop) {
		d.backend = b
	}
}

// Displays lists the monitors of the host. Indexes start at 1.
func Displays() []domain.Display {
	return listDisplays(robot{})
}

func listDisplays(b backend) []domain.Display {
	n := b.DisplaysNum()
	displays := make([]domain.Display, 0, n)
	for i := range n {
		x, y, w, h := b.DisplayBounds(i)
		displays = append(displays, domain.Display{Index: i + 1, X: x, Y: y, Width: w, Height: h})
	}
	return displays
}

// Open selects display index (1-based).
// It fails with domain.ErrNoDisplay when the index does not exist or the display has no area.
func Open(index int, opts ...Option) (*Desktop, error) {
	d := &Desktop{
		backend: robot{},
		pause:   DefaultPause,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	displays := listDisplays(d.backend)
	if index < 1 || index > len(displays) {
		return nil, fmt.Errorf("display %d of %d: %w", index, len(displays), domain.ErrNoDisplay)
	}
	d.display = displays[index-1]
	if d.display.Width <= 0 || d.display.Height <= 0 {
		return nil, fmt.Errorf("%s has no area: %w", d.display, domain.ErrNoDisplay)
	}
	d.logger.Info("display selected", "display", d.display.String())
	return d, nil
}

// Display reports the selected display.
func (d *Desktop) Display() domain.Display {
	return d.display
}

// Capture grabs the whole selected display.
func (d *Desktop) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := d.backend.Capture(d.display.X, d.display.Y, d.display.Width, d.display.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCaptureUnavailable, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, domain.ErrCaptureUnavailable
	}
	return img, nil
}

// Move places the pointer at global (x, y).
func (d *Desktop) Move(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.backend.Move(x, y)
	return d.settle(ctx)
}

// Click moves to global (x, y) and clicks the left button.
func (d *Desktop) Click(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.backend.Move(x, y)
	d.backend.Click()
	d.logger.Debug("click", "x", x, "y", y)
	return d.settle(ctx)
}

// Drag presses at (x1, y1), moves to (x2, y2) over duration and releases.
// The button is always released, even when ctx is cancelled mid-drag.
func (d *Desktop) Drag(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.backend.Move(x1, y1)
	if err := d.backend.Toggle(true); err != nil {
		return fmt.Errorf("press: %w", err)
	}
	defer func() {
		if upErr := d.backend.Toggle(false); upErr != nil && err == nil {
			err = fmt.Errorf("release: %w", upErr)
		}
	}()

	steps := max(int(duration/dragStep), 1)
	for i := 1; i <= steps; i++ {
		x := x1 + (x2-x1)*i/steps
		y := y1 + (y2-y1)*i/steps
		d.backend.Move(x, y)
		if i < steps {
			if err := sleep(ctx, duration/time.Duration(steps)); err != nil {
				return err
			}
		}
	}
	d.logger.Debug("drag", "from", image.Pt(x1, y1), "to", image.Pt(x2, y2), "duration", duration)
	return d.settle(ctx)
}

// Scroll rolls the wheel by amount raw wheel units, WheelDelta per notch; negative amounts
// scroll down. Any non-zero amount moves at least one notch.
func (d *Desktop) Scroll(ctx context.Context, amount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := Notches(amount)
	if n == 0 {
		return nil
	}
	d.backend.Scroll(n)
	d.logger.Debug("scroll", "units", amount, "notches", n)
	return d.settle(ctx)
}

// Notches converts raw wheel units to whole wheel notches, as the backend counts them.
func Notches(amount int) int {
	n := amount / WheelDelta
	switch {
	case n == 0 && amount > 0:
		return 1
	case n == 0 && amount < 0:
		return -1
	}
	return n
}

func (d *Desktop) settle(ctx context.Context) error {
	if d.pause <= 0 {
		return nil
	}
	return sleep(ctx, d.pause)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
