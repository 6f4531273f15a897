package runtime_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/internal/testutils"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_PixelColor(t *testing.T) {
	ctx := context.Background()
	rig := testutils.NewRig()
	s := rig.Session(&testutils.StubState{K: domain.KindCombat}, nil, nil)

	t.Run("Samples Fresh Frame", func(t *testing.T) {
		rig.Frames.Fill(domain.Color{R: 79, G: 102, B: 52})
		c, err := s.PixelColor(ctx, domain.Pt(0.8, 0.87))
		require.NoError(t, err)
		assert.Equal(t, domain.Color{R: 79, G: 102, B: 52}, c)

		rig.Frames.Fill(domain.Color{R: 89, G: 89, B: 89})
		c, err = s.PixelColor(ctx, domain.Pt(1, 1))
		require.NoError(t, err)
		assert.Equal(t, domain.Color{R: 89, G: 89, B: 89}, c)
	})

	t.Run("Out Of Bounds", func(t *testing.T) {
		_, err := s.PixelColor(ctx, domain.Pt(1.2, 0.5))
		assert.ErrorIs(t, err, domain.ErrOutOfBounds)
	})

	t.Run("Capture Unavailable", func(t *testing.T) {
		rig.Frames.Fail = true
		defer func() { rig.Frames.Fail = false }()
		_, err := s.PixelColor(ctx, domain.Pt(0.5, 0.5))
		assert.ErrorIs(t, err, domain.ErrCaptureUnavailable)
	})
}

func TestSession_Recognize(t *testing.T) {
	ctx := context.Background()
	band := domain.Rect(0.2, 0.25, 0.6, 0.03)

	t.Run("Items Are Region Relative", func(t *testing.T) {
		rig := testutils.NewRig()
		rig.Recognizer.On(band, testutils.Texts("战斗(精英)", " 商店 ", "未知事件"))
		s := rig.Session(&testutils.StubState{K: domain.KindMapSelection}, nil, nil)

		text, items := s.RecognizeText(ctx, band)

		assert.Equal(t, "战斗(精英) 商店 未知事件", text)
		require.Len(t, items, 3)
		for i, item := range items {
			assert.Equal(t, i+1, item.Index)
			want := testutils.SlotCenter(i, 3)
			assert.InDelta(t, want.X, item.Center.X, 0.01)
			assert.InDelta(t, want.Y, item.Center.Y, 0.01)
		}
		assert.Equal(t, "商店", items[1].Text)
		assert.Equal(t, 0, items[0].Bounds.Min.X, "bounds are inside the crop")
	})

	t.Run("Fresh Frame Per Call", func(t *testing.T) {
		rig := testutils.NewRig()
		rig.Recognizer.On(band, testutils.Texts("商店"), testutils.Texts("铁匠铺"))
		s := rig.Session(&testutils.StubState{K: domain.KindMapSelection}, nil, nil)

		first, _ := s.RecognizeText(ctx, band)
		second, _ := s.RecognizeText(ctx, band)

		assert.Equal(t, "商店", first)
		assert.Equal(t, "铁匠铺", second)
		assert.Equal(t, 2, rig.Frames.Captures)
	})

	t.Run("Fails Soft", func(t *testing.T) {
		rig := testutils.NewRig()
		s := rig.Session(&testutils.StubState{K: domain.KindMapSelection}, nil, nil)

		assert.Empty(t, s.RecognizeItems(ctx, domain.Rect(0.5, 0.5, 0, 0.1)), "degenerate region")

		rig.Frames.Fail = true
		assert.Empty(t, s.RecognizeItems(ctx, band), "no frame")
		rig.Frames.Fail = false

		rig.Recognizer.Err = testutils.ErrRecognizer
		text, items := s.RecognizeText(ctx, band)
		assert.Empty(t, text)
		assert.Empty(t, items)
	})

	t.Run("Find Text Matches Exactly", func(t *testing.T) {
		rig := testutils.NewRig()
		region := domain.Rect(0.10, 0.6, 0.80, 0.07)
		rig.Recognizer.On(region, testutils.Texts("打击", "防御+", "打"))
		s := rig.Session(&testutils.StubState{K: domain.KindCombat}, nil, nil)

		item, ok := s.FindText(ctx, "打", region)
		require.True(t, ok)
		assert.Equal(t, 3, item.Index)

		_, ok = s.FindText(ctx, "防御", region)
		assert.False(t, ok)
	})
}

func TestSession_DebugCrops(t *testing.T) {
	ctx := context.Background()
	band := domain.Rect(0.2, 0.25, 0.6, 0.03)
	dir := t.TempDir()
	rig := testutils.NewRig()
	rig.Recognizer.On(band, testutils.Texts("商店"))
	s := rig.Session(&testutils.StubState{K: domain.KindMapSelection}, nil, nil, runtime.WithDebugDir(dir))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RecognizeText(ctx, band)
		}()
	}
	wg.Wait()

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 8, "every concurrent crop gets its own file")
}
