package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/adapters/memory"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
	"github.com/aretw0/spire/pkg/ports"
)

const (
	DefaultReasonerTimeout   = 30 * time.Second
	DefaultRecognizerTimeout = 10 * time.Second
)

// ErrStatePanic wraps a panic recovered from a state's Handle.
var ErrStatePanic = errors.New("state panicked")

// State is one screen of the target application. A Session holds exactly one active State.
// Handle performs a single perceive/decide/act step and may call Session.TransitionTo once.
type State interface {
	Kind() domain.StateKind
	Handle(ctx context.Context, s *Session) error
}

// Ports bundles the capabilities a Session drives. Only Frames is required for perception;
// missing ports make the matching operations fail soft.
type Ports struct {
	Frames     ports.FrameSource
	Recognizer ports.TextRecognizer
	Reasoner   ports.Reasoner
	Actuator   ports.InputActuator
	Memory     ports.MemorySnapshot
	Chat       ports.ChatSink
	Scratch    ports.ScratchStore
}

// Session is the single owner of the ports, the knowledge store, the conversation histories,
// the scratch space and the active state.
type Session struct {
	ports  Ports
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	store  *knowledge.Store
	runID  string

	sleep             func(context.Context, time.Duration) error
	reasonerTimeout   time.Duration
	recognizerTimeout time.Duration
	debugDir          string
	debugSeq          atomic.Int64

	// mu guards everything below; inspection surfaces read it from other goroutines.
	mu           sync.RWMutex
	state        State
	inStep       bool
	transitioned bool
	ticks        uint64
	faults       uint64
	lastFault    string
	selected     *domain.SelectedNode
	histories    map[domain.Topic][]domain.Message
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithKnowledge sets the knowledge and prompt store.
func WithKnowledge(store *knowledge.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithSleep replaces the pause used to let the UI settle. Tests pass a recorder.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(s *Session) {
		s.sleep = sleep
	}
}

// WithReasonerTimeout bounds every reasoner round-trip. Zero disables the bound.
func WithReasonerTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.reasonerTimeout = d
	}
}

// WithRecognizerTimeout bounds every recognition call. Zero disables the bound.
func WithRecognizerTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.recognizerTimeout = d
	}
}

// WithDebugDir saves every perception crop as a PNG under dir.
func WithDebugDir(dir string) Option {
	return func(s *Session) {
		s.debugDir = dir
	}
}

// WithRunID tags logs and events with id.
func WithRunID(id string) Option {
	return func(s *Session) {
		s.runID = id
	}
}

// New creates a Session whose active state is initial.
func New(initial State, p Ports, opts ...Option) *Session {
	s := &Session{
		ports:             p,
		logger:            logging.NewNop(),
		sleep:             sleepContext,
		reasonerTimeout:   DefaultReasonerTimeout,
		recognizerTimeout: DefaultRecognizerTimeout,
		state:             initial,
		histories: map[domain.Topic][]domain.Message{
			domain.TopicMap:    {},
			domain.TopicCombat: {},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = knowledge.New(nil, nil)
	}
	if s.ports.Scratch == nil {
		s.ports.Scratch = memory.NewStore()
	}
	if s.runID != "" {
		s.logger = s.logger.With("run_id", s.runID)
	}
	return s
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Knowledge returns the knowledge and prompt store.
func (s *Session) Knowledge() *knowledge.Store {
	return s.store
}

// State returns the active state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// TransitionTo replaces the active state. The outgoing state's remaining work is abandoned.
// Inside a step only the first transition is honored; later ones fail with
// domain.ErrAlreadyTransitioned.
func (s *Session) TransitionTo(ctx context.Context, next State) error {
	if next == nil {
		return fmt.Errorf("transition to nil state: %w", domain.ErrNotFound)
	}

	s.mu.Lock()
	if s.inStep && s.transitioned {
		s.mu.Unlock()
		s.logger.Warn("second transition in one step ignored", "next", next.Kind())
		return domain.ErrAlreadyTransitioned
	}
	prev := s.state
	s.state = next
	if s.inStep {
		s.transitioned = true
	}
	s.mu.Unlock()

	var prevKind domain.StateKind
	if prev != nil {
		prevKind = prev.Kind()
	}
	if prevKind == next.Kind() {
		s.logger.Warn("transition to the same state kind", "state", next.Kind())
	}
	s.logger.Info("state transition", "from", prevKind, "to", next.Kind())

	if prev != nil && s.hooks.OnStateLeave != nil {
		s.hooks.OnStateLeave(ctx, &domain.StateEvent{
			EventBase: s.event(domain.EventStateLeave),
			State:     prevKind,
			Peer:      next.Kind(),
		})
	}
	if s.hooks.OnStateEnter != nil {
		s.hooks.OnStateEnter(ctx, &domain.StateEvent{
			EventBase: s.event(domain.EventStateEnter),
			State:     next.Kind(),
			Peer:      prevKind,
		})
	}
	return nil
}

// Step runs one Handle of the active state behind the fault boundary: returned errors and
// panics are logged and counted, and the loop carries on. Step only returns an error when
// ctx is done.
func (s *Session) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	current := s.state
	s.ticks++
	s.inStep = true
	s.transitioned = false
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inStep = false
		s.mu.Unlock()
	}()

	if current == nil {
		return fmt.Errorf("no active state: %w", domain.ErrNotFound)
	}

	panicked, err := s.handle(ctx, current)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	s.mu.Lock()
	s.faults++
	s.lastFault = err.Error()
	s.mu.Unlock()

	s.logger.Error("step failed, retrying next tick", "state", current.Kind(), "err", err, "panic", panicked)
	if s.hooks.OnStepFault != nil {
		s.hooks.OnStepFault(ctx, &domain.FaultEvent{
			EventBase: s.event(domain.EventStepFault),
			State:     current.Kind(),
			Err:       err,
			Panic:     panicked,
		})
	}
	return nil
}

func (s *Session) handle(ctx context.Context, st State) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = fmt.Errorf("%w: %v", ErrStatePanic, r)
		}
	}()
	return false, st.Handle(ctx, s)
}

// Status returns a point-in-time view for the inspection surfaces.
func (s *Session) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := domain.Status{
		RunID:     s.runID,
		Ticks:     s.ticks,
		Faults:    s.faults,
		LastFault: s.lastFault,
	}
	if s.state != nil {
		status.State = s.state.Kind()
	}
	if s.selected != nil {
		node := *s.selected
		status.SelectedNode = &node
	}
	if s.ports.Frames != nil {
		status.Display = s.ports.Frames.Display()
	}
	return status
}

// SetSelectedNode records the last chosen map node.
func (s *Session) SetSelectedNode(node domain.SelectedNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &node
}

// SelectedNode returns the last chosen map node.
func (s *Session) SelectedNode() (domain.SelectedNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return domain.SelectedNode{}, false
	}
	return *s.selected, true
}

// Sleep pauses for d so the UI can settle. It returns early when ctx is done.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	return s.sleep(ctx, d)
}

// Snapshot reads the numeric memory snapshot.
func (s *Session) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if s.ports.Memory == nil {
		return nil, domain.ErrNoData
	}
	snap, err := s.ports.Memory.Read(ctx)
	if err != nil {
		s.logger.Warn("memory snapshot unavailable", "err", err)
		return nil, err
	}
	return snap, nil
}

func (s *Session) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: s.runID}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
