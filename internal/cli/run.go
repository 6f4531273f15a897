package cli

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/spire"
	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/internal/presentation/graph"
	"github.com/aretw0/spire/internal/states"
	"github.com/aretw0/spire/pkg/domain"
	httpAdapter "github.com/aretw0/spire/pkg/adapters/http"
	"github.com/aretw0/spire/pkg/runner"
)

// RunOptions contains the settings of a run that do not live in the agent itself.
type RunOptions struct {
	Interval time.Duration
	// Listen is the status server address. Empty disables it.
	Listen string
	// MaxTicks stops after that many steps. Zero runs until cancelled.
	MaxTicks int
	Logger   *slog.Logger
}

// Run ticks the agent until ctx is done or the tick budget is spent. When a listen address is
// set the status server runs alongside and stops with the loop.
func Run(ctx context.Context, stack *Stack, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if opts.Listen != "" {
		h := httpAdapter.NewHandler(stack.Agent,
			httpAdapter.WithMetrics(stack.Metrics.Handler()),
			httpAdapter.WithStreams(stack.Streams),
			httpAdapter.WithVersion(spire.Version),
			httpAdapter.WithDiagram(Diagram),
			httpAdapter.WithLogger(logger),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := httpAdapter.Serve(ctx, opts.Listen, h, logger); err != nil {
				logger.Error("status server stopped", "err", err)
			}
		}()
	}

	r := runner.NewRunner(
		runner.WithInterval(opts.Interval),
		runner.WithMaxTicks(opts.MaxTicks),
		runner.WithLogger(logger),
	)
	err := r.Run(ctx, stack.Agent)
	cancel()
	wg.Wait()
	return err
}

// Diagram draws the state machine in Mermaid, marking current when set.
func Diagram(current domain.StateKind) string {
	var overlay *graph.Overlay
	if current != "" {
		overlay = &graph.Overlay{Current: current}
	}
	return graph.StateDiagram(states.Edges(), overlay)
}
