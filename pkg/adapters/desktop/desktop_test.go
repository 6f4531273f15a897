package desktop_test

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/aretw0/spire/pkg/adapters/desktop"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.FrameSource   = (*desktop.Desktop)(nil)
	_ ports.InputActuator = (*desktop.Desktop)(nil)
)

type fakeBackend struct {
	bounds  [][4]int
	capture image.Image
	err     error

	moves    []image.Point
	clicks   int
	pressed  bool
	releases int
	scrolls  []int
	captured [4]int
}

func (f *fakeBackend) DisplaysNum() int { return len(f.bounds) }

func (f *fakeBackend) DisplayBounds(i int) (x, y, w, h int) {
	b := f.bounds[i]
	return b[0], b[1], b[2], b[3]
}

func (f *fakeBackend) Capture(x, y, w, h int) (image.Image, error) {
	f.captured = [4]int{x, y, w, h}
	return f.capture, f.err
}

func (f *fakeBackend) Move(x, y int) { f.moves = append(f.moves, image.Pt(x, y)) }

func (f *fakeBackend) Toggle(down bool) error {
	f.pressed = down
	if !down {
		f.releases++
	}
	return nil
}

func (f *fakeBackend) Click()            { f.clicks++ }
func (f *fakeBackend) Scroll(amount int) { f.scrolls = append(f.scrolls, amount) }

func twoScreens() *fakeBackend {
	return &fakeBackend{
		bounds:  [][4]int{{0, 0, 1920, 1080}, {1920, 0, 2560, 1440}},
		capture: image.NewRGBA(image.Rect(0, 0, 2560, 1440)),
	}
}

func open(t *testing.T, b desktop.Backend, index int) *desktop.Desktop {
	t.Helper()
	d, err := desktop.Open(index, desktop.WithBackend(b), desktop.WithPause(0))
	require.NoError(t, err)
	return d
}

func TestOpen(t *testing.T) {
	t.Run("Selects One Based Index", func(t *testing.T) {
		d := open(t, twoScreens(), 2)
		assert.Equal(t, domain.Display{Index: 2, X: 1920, Y: 0, Width: 2560, Height: 1440}, d.Display())
	})

	t.Run("Missing Display", func(t *testing.T) {
		for _, index := range []int{0, 3, -1} {
			_, err := desktop.Open(index, desktop.WithBackend(twoScreens()))
			assert.ErrorIs(t, err, domain.ErrNoDisplay, "index %d", index)
		}
	})

	t.Run("Zero Area", func(t *testing.T) {
		b := &fakeBackend{bounds: [][4]int{{0, 0, 0, 0}}}
		_, err := desktop.Open(1, desktop.WithBackend(b))
		assert.ErrorIs(t, err, domain.ErrNoDisplay)
	})
}

func TestDesktop_Capture(t *testing.T) {
	ctx := context.Background()

	t.Run("Grabs Selected Display", func(t *testing.T) {
		b := twoScreens()
		img, err := open(t, b, 2).Capture(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2560, img.Bounds().Dx())
		assert.Equal(t, [4]int{1920, 0, 2560, 1440}, b.captured)
	})

	t.Run("Backend Failure", func(t *testing.T) {
		b := twoScreens()
		b.err = errors.New("no x server")
		_, err := open(t, b, 1).Capture(ctx)
		assert.ErrorIs(t, err, domain.ErrCaptureUnavailable)
	})

	t.Run("Empty Frame", func(t *testing.T) {
		b := twoScreens()
		b.capture = image.NewRGBA(image.Rectangle{})
		_, err := open(t, b, 1).Capture(ctx)
		assert.ErrorIs(t, err, domain.ErrCaptureUnavailable)
	})
}

func TestDesktop_Input(t *testing.T) {
	ctx := context.Background()

	t.Run("Click", func(t *testing.T) {
		b := twoScreens()
		require.NoError(t, open(t, b, 1).Click(ctx, 100, 200))
		assert.Equal(t, []image.Point{{100, 200}}, b.moves)
		assert.Equal(t, 1, b.clicks)
	})

	t.Run("Drag Ends At Target And Releases", func(t *testing.T) {
		b := twoScreens()
		require.NoError(t, open(t, b, 1).Drag(ctx, 0, 0, 300, 100, 30*time.Millisecond))

		require.NotEmpty(t, b.moves)
		assert.Equal(t, image.Pt(0, 0), b.moves[0])
		assert.Equal(t, image.Pt(300, 100), b.moves[len(b.moves)-1])
		assert.False(t, b.pressed)
		assert.Equal(t, 1, b.releases)
	})

	t.Run("Cancelled Drag Still Releases", func(t *testing.T) {
		b := twoScreens()
		d := open(t, b, 1)
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		err := d.Drag(ctx, 0, 0, 300, 100, 5*time.Second)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, b.releases)
	})

	t.Run("Scroll", func(t *testing.T) {
		b := twoScreens()
		d := open(t, b, 1)
		require.NoError(t, d.Scroll(ctx, -520))
		require.NoError(t, d.Scroll(ctx, -120))
		require.NoError(t, d.Scroll(ctx, 0))
		assert.Equal(t, []int{-4, -1}, b.scrolls)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		b := twoScreens()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, open(t, b, 1).Click(ctx, 1, 1), context.Canceled)
		assert.Zero(t, b.clicks)
	})
}

func TestNotches(t *testing.T) {
	tests := []struct {
		units int
		want  int
	}{
		{0, 0},
		{-520, -4},
		{-120, -1},
		{-30, -1},
		{30, 1},
		{240, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, desktop.Notches(tt.units), "Notches(%d)", tt.units)
	}
}
