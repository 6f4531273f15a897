package spire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/internal/states"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
	"github.com/aretw0/spire/pkg/ports"
	"github.com/google/uuid"
)

// Ports bundles the capabilities the agent drives. Frames is required.
type Ports struct {
	Frames     ports.FrameSource
	Recognizer ports.TextRecognizer
	Reasoner   ports.Reasoner
	Actuator   ports.InputActuator
	Memory     ports.MemorySnapshot
	Chat       ports.ChatSink
	Scratch    ports.ScratchStore
}

// Agent is the high-level entry point: it owns one session and advances it one step at a time.
// Status, History and the shared-value accessors are safe to call while Step runs.
type Agent struct {
	session *runtime.Session
	runID   string
	logger  *slog.Logger
	greet   sync.Once
}

type options struct {
	ports     Ports
	store     *knowledge.Store
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	runID     string
	initial   domain.StateKind
	sleep     func(context.Context, time.Duration) error
	reasonerT *time.Duration
	ocrT      *time.Duration
	debugDir  string
}

// Option defines a functional option for configuring the Agent.
type Option func(*options)

// WithPorts sets the capabilities.
func WithPorts(p Ports) Option {
	return func(o *options) {
		o.ports = p
	}
}

// WithKnowledge sets the knowledge and prompt store.
func WithKnowledge(store *knowledge.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger. Every line carries the run id.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithInitialState starts the agent in kind instead of initialization, for resuming mid-run.
func WithInitialState(kind domain.StateKind) Option {
	return func(o *options) {
		o.initial = kind
	}
}

// WithSleep replaces the pause used while the UI settles.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

// WithReasonerTimeout bounds every reasoner call.
func WithReasonerTimeout(d time.Duration) Option {
	return func(o *options) {
		o.reasonerT = &d
	}
}

// WithRecognizerTimeout bounds every recognition call.
func WithRecognizerTimeout(d time.Duration) Option {
	return func(o *options) {
		o.ocrT = &d
	}
}

// WithDebugDir saves every perception crop under dir.
func WithDebugDir(dir string) Option {
	return func(o *options) {
		o.debugDir = dir
	}
}

// New creates an agent. It fails when no frame source is given or the initial state is unknown.
func New(opts ...Option) (*Agent, error) {
	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.ports.Frames == nil {
		return nil, errors.New("spire: a frame source is required")
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	initial := states.New()
	if o.initial != "" {
		if initial = states.ForKind(o.initial); initial == nil {
			return nil, fmt.Errorf("spire: unknown initial state %q", o.initial)
		}
	}

	sessionOpts := []runtime.Option{
		runtime.WithLogger(o.logger),
		runtime.WithLifecycleHooks(o.hooks),
		runtime.WithRunID(o.runID),
	}
	if o.store != nil {
		sessionOpts = append(sessionOpts, runtime.WithKnowledge(o.store))
	}
	if o.sleep != nil {
		sessionOpts = append(sessionOpts, runtime.WithSleep(o.sleep))
	}
	if o.reasonerT != nil {
		sessionOpts = append(sessionOpts, runtime.WithReasonerTimeout(*o.reasonerT))
	}
	if o.ocrT != nil {
		sessionOpts = append(sessionOpts, runtime.WithRecognizerTimeout(*o.ocrT))
	}
	if o.debugDir != "" {
		sessionOpts = append(sessionOpts, runtime.WithDebugDir(o.debugDir))
	}

	session := runtime.New(initial, runtime.Ports(o.ports), sessionOpts...)
	return &Agent{
		session: session,
		runID:   o.runID,
		logger:  session.Logger(),
	}, nil
}

// RunID identifies this agent run in logs, events and scratch keys.
func (a *Agent) RunID() string {
	return a.runID
}

// Step runs one tick. The first call sends the initialization prompt, if any.
// It only returns an error when ctx is done.
func (a *Agent) Step(ctx context.Context) error {
	a.greet.Do(func() {
		a.logger.Info("agent started", "version", Version, "display", a.session.Status().Display.String())
		a.session.Greet(ctx)
	})
	return a.session.Step(ctx)
}

// State reports the kind of the active state.
func (a *Agent) State() domain.StateKind {
	return a.session.Status().State
}

// Status returns a point-in-time view of the agent.
func (a *Agent) Status() domain.Status {
	return a.session.Status()
}

// History returns the conversation kept for topic.
func (a *Agent) History(topic domain.Topic) ([]domain.Message, error) {
	if !topic.Valid() {
		return nil, fmt.Errorf("%q: %w", topic, domain.ErrUnknownTopic)
	}
	return a.session.History(topic), nil
}

// SetShared stores a value in the scratch space.
func (a *Agent) SetShared(ctx context.Context, key string, value any) {
	a.session.SetShared(ctx, key, value)
}

// SharedValue reads a scratch value, failing with domain.ErrScratchMiss when absent.
func (a *Agent) SharedValue(ctx context.Context, key string) (any, error) {
	return a.session.Lookup(ctx, key)
}

// SharedKeys lists the scratch keys.
func (a *Agent) SharedKeys(ctx context.Context) ([]string, error) {
	return a.session.SharedKeys(ctx)
}
