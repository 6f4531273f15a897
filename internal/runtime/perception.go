package runtime

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/geometry"
)

// PixelColor samples the color at a display-relative point of a fresh frame.
func (s *Session) PixelColor(ctx context.Context, at domain.Point) (domain.Color, error) {
	frame, err := s.capture(ctx)
	if err != nil {
		return domain.Color{}, err
	}
	p, err := geometry.PixelAt(frame.Bounds(), at)
	if err != nil {
		return domain.Color{}, err
	}
	r, g, b, _ := frame.At(p.X, p.Y).RGBA()
	return domain.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}, nil
}

// RecognizeItems recognizes every text label inside region of a fresh frame, normalized to
// the region. It fails soft: any missing precondition yields no items.
func (s *Session) RecognizeItems(ctx context.Context, region domain.Region) []domain.RecognizedItem {
	crop, err := s.crop(ctx, region)
	if err != nil {
		s.logger.Warn("perception skipped", "region", region.String(), "err", err)
		return nil
	}
	if s.ports.Recognizer == nil {
		s.logger.Warn("perception skipped: no recognizer", "region", region.String())
		return nil
	}

	rctx, cancel := withTimeout(ctx, s.recognizerTimeout)
	defer cancel()
	boxes, err := s.ports.Recognizer.Recognize(rctx, crop)
	if err != nil {
		s.logger.Warn("text recognition failed", "region", region.String(), "err", err)
		return nil
	}

	bounds := crop.Bounds()
	items := make([]domain.RecognizedItem, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Text)
		if text == "" {
			continue
		}
		local := box.Bounds.Sub(bounds.Min)
		rel, center, err := geometry.Normalize(local, bounds.Dx(), bounds.Dy())
		if err != nil {
			s.logger.Debug("skipping box outside crop", "text", text, "err", err)
			continue
		}
		items = append(items, domain.RecognizedItem{
			Index:      len(items) + 1,
			Text:       text,
			Bounds:     local.Intersect(image.Rect(0, 0, bounds.Dx(), bounds.Dy())),
			Box:        rel,
			Center:     center,
			Confidence: box.Confidence,
		})
	}
	s.logger.Debug("recognized items", "region", region.String(), "count", len(items))
	return items
}

// RecognizeText recognizes region and returns the labels joined by a space together with the
// individual items. Both are empty when nothing was recognized.
func (s *Session) RecognizeText(ctx context.Context, region domain.Region) (string, []domain.RecognizedItem) {
	items := s.RecognizeItems(ctx, region)
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return strings.Join(texts, " "), items
}

// FindText returns the first item whose text equals text exactly (after trimming).
func (s *Session) FindText(ctx context.Context, text string, region domain.Region) (domain.RecognizedItem, bool) {
	want := strings.TrimSpace(text)
	for _, item := range s.RecognizeItems(ctx, region) {
		if item.Text == want {
			return item, true
		}
	}
	s.logger.Debug("text not found", "text", want, "region", region.String())
	return domain.RecognizedItem{}, false
}

func (s *Session) capture(ctx context.Context) (image.Image, error) {
	if s.ports.Frames == nil {
		return nil, domain.ErrCaptureUnavailable
	}
	frame, err := s.ports.Frames.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	if frame == nil {
		return nil, domain.ErrCaptureUnavailable
	}
	return frame, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// crop captures a frame and cuts region out of it. The crop keeps the frame's coordinate
// space, so its bounds locate it inside the frame.
func (s *Session) crop(ctx context.Context, region domain.Region) (image.Image, error) {
	frame, err := s.capture(ctx)
	if err != nil {
		return nil, err
	}
	fb := frame.Bounds()
	rect, err := geometry.CropRect(region, fb.Dx(), fb.Dy())
	if err != nil {
		return nil, err
	}
	rect = rect.Add(fb.Min)

	var out image.Image
	if si, ok := frame.(subImager); ok {
		out = si.SubImage(rect)
	} else {
		rgba := image.NewRGBA(rect)
		draw.Draw(rgba, rect, frame, rect.Min, draw.Src)
		out = rgba
	}
	s.saveDebug(out)
	return out, nil
}

func (s *Session) saveDebug(img image.Image) {
	if s.debugDir == "" {
		return
	}
	seq := s.debugSeq.Add(1)
	path := filepath.Join(s.debugDir, fmt.Sprintf("crop_%05d.png", seq))
	if err := os.MkdirAll(s.debugDir, 0o755); err != nil {
		s.logger.Warn("debug dir unavailable", "dir", s.debugDir, "err", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		s.logger.Warn("debug crop not saved", "path", path, "err", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		s.logger.Warn("debug crop not saved", "path", path, "err", err)
	}
}
