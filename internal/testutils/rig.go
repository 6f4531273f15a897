package testutils

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
)

// DisplaySize is the side of the virtual display used by a Rig. A square power of ten keeps
// normalized coordinates exact after the round-trip through global pixels.
const DisplaySize = 1000

// Rig bundles fakes for every port over one virtual display.
type Rig struct {
	Frames     *Frames
	Recognizer *Recognizer
	Reasoner   *Reasoner
	Actuator   *Actuator
	Memory     *Memory
	Chat       *Chat
	Sleeper    *Sleeper
}

// NewRig creates a Rig with a black frame and empty scripts.
func NewRig() *Rig {
	display := domain.Display{Index: 1, Width: DisplaySize, Height: DisplaySize}
	return &Rig{
		Frames:     NewFrames(display),
		Recognizer: NewRecognizer(display),
		Reasoner:   &Reasoner{},
		Actuator:   &Actuator{display: display},
		Memory:     &Memory{},
		Chat:       &Chat{},
		Sleeper:    &Sleeper{},
	}
}

// Ports exposes the fakes as session ports. The scratch space is left to the session default.
func (r *Rig) Ports() runtime.Ports {
	return runtime.Ports{
		Frames:     r.Frames,
		Recognizer: r.Recognizer,
		Reasoner:   r.Reasoner,
		Actuator:   r.Actuator,
		Memory:     r.Memory,
		Chat:       r.Chat,
	}
}

// Session builds a session over the rig with recorded sleeps and the given prompts and
// knowledge. Later options override earlier ones.
func (r *Rig) Session(initial runtime.State, prompts map[string]string, kb map[string]map[string]any, opts ...runtime.Option) *runtime.Session {
	base := []runtime.Option{
		runtime.WithSleep(r.Sleeper.Sleep),
		runtime.WithKnowledge(knowledge.New(prompts, kb)),
	}
	return runtime.New(initial, r.Ports(), append(base, opts...)...)
}

// Frames is a fake FrameSource serving one mutable solid-color frame.
type Frames struct {
	mu       sync.Mutex
	display  domain.Display
	img      *image.RGBA
	Fail     bool
	Captures int
}

// NewFrames creates a black frame the size of display.
func NewFrames(display domain.Display) *Frames {
	img := image.NewRGBA(image.Rect(0, 0, display.Width, display.Height))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	return &Frames{display: display, img: img}
}

// Fill paints the whole frame with c.
func (f *Frames) Fill(c domain.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(color.RGBA{c.R, c.G, c.B, 255}), image.Point{}, draw.Src)
}

func (f *Frames) Capture(ctx context.Context) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Captures++
	if f.Fail {
		return nil, domain.ErrCaptureUnavailable
	}
	return f.img, nil
}

func (f *Frames) Display() domain.Display {
	return f.display
}

// Memory is a fake MemorySnapshot returning queued snapshots; the last one repeats.
type Memory struct {
	mu    sync.Mutex
	queue []domain.Snapshot
	Reads int
}

// Push queues snapshots. A nil snapshot reads as domain.ErrNoData.
func (m *Memory) Push(snaps ...domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, snaps...)
}

func (m *Memory) Read(ctx context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	if len(m.queue) == 0 {
		return nil, domain.ErrNoData
	}
	snap := m.queue[0]
	if len(m.queue) > 1 {
		m.queue = m.queue[1:]
	}
	if snap == nil {
		return nil, domain.ErrNoData
	}
	return snap, nil
}

// Chat is a fake ChatSink recording every message.
type Chat struct {
	mu       sync.Mutex
	Messages []string
}

func (c *Chat) Say(ctx context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Messages = append(c.Messages, message)
	return nil
}

// Sleeper records pauses instead of sleeping.
type Sleeper struct {
	mu     sync.Mutex
	Pauses []time.Duration
}

// Sleep satisfies the session's sleep hook.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pauses = append(s.Pauses, d)
	return ctx.Err()
}

// StubState is a scripted runtime.State for tests that only need a step to do something.
type StubState struct {
	K       domain.StateKind
	Handled int
	Fn      func(ctx context.Context, s *runtime.Session) error
}

func (st *StubState) Kind() domain.StateKind {
	return st.K
}

func (st *StubState) Handle(ctx context.Context, s *runtime.Session) error {
	st.Handled++
	if st.Fn == nil {
		return nil
	}
	return st.Fn(ctx, s)
}
