package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/spire/internal/logging"
)

// DefaultInterval is the pause between two ticks.
const DefaultInterval = 2 * time.Second

// Stepper is anything that advances by one perceive/decide/act step.
// Step returns an error only when it can no longer make progress, typically because ctx is done.
type Stepper interface {
	Step(ctx context.Context) error
}

// Runner handles the tick loop of an agent.
type Runner struct {
	Interval time.Duration

	// MaxTicks stops the loop after that many steps. Zero means no limit.
	MaxTicks int

	Logger *slog.Logger

	// OnTick is called after every step with the 1-based tick number.
	OnTick func(tick int)
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInterval sets the pause between ticks.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.Interval = d
	}
}

// WithMaxTicks bounds the number of steps.
func WithMaxTicks(n int) Option {
	return func(r *Runner) {
		r.MaxTicks = n
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithOnTick registers a callback run after every step.
func WithOnTick(fn func(tick int)) Option {
	return func(r *Runner) {
		r.OnTick = fn
	}
}

// NewRunner creates a Runner with DefaultInterval.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Interval: DefaultInterval,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run steps agent until ctx is done or MaxTicks is reached.
// A cancelled ctx is a normal shutdown and yields nil; any other step error is returned.
func (r *Runner) Run(ctx context.Context, agent Stepper) error {
	r.Logger.Info("agent loop started", "interval", r.Interval, "max_ticks", r.MaxTicks)

	for tick := 1; ; tick++ {
		if err := agent.Step(ctx); err != nil {
			if isShutdown(ctx, err) {
				r.Logger.Info("agent loop stopped", "ticks", tick-1)
				return nil
			}
			return err
		}
		if r.OnTick != nil {
			r.OnTick(tick)
		}
		if r.MaxTicks > 0 && tick >= r.MaxTicks {
			r.Logger.Info("tick budget reached", "ticks", tick)
			return nil
		}

		if err := wait(ctx, r.Interval); err != nil {
			r.Logger.Info("agent loop stopped", "ticks", tick)
			return nil
		}
	}
}

func isShutdown(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
