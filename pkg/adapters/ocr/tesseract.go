package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/nfnt/resize"
	"github.com/otiai10/gosseract/v2"
)

const (
	// DefaultLanguage is the Tesseract language pack used for the game UI.
	DefaultLanguage = "chi_sim"

	// MinHeight is the crop height under which images are upscaled before recognition.
	MinHeight = 32
)

// engine is the part of gosseract.Client the recognizer uses.
type engine interface {
	SetImageFromBytes(data []byte) error
	GetBoundingBoxes(level gosseract.PageIteratorLevel) ([]gosseract.BoundingBox, error)
	Close() error
}

// Recognizer implements ports.TextRecognizer with Tesseract.
// A single Tesseract client is shared; calls are serialized.
type Recognizer struct {
	mu     sync.Mutex
	engine engine
	level  gosseract.PageIteratorLevel
	merge  bool
	logger *slog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) {
		r.logger = logger
	}
}

// WithLineLevel reports whole text lines instead of merged words.
func WithLineLevel() Option {
	return func(r *Recognizer) {
		r.level = gosseract.RIL_TEXTLINE
		r.merge = false
	}
}

func withEngine(e engine) Option {
	return func(r *Recognizer) {
		r.engine = e
	}
}

// New creates a recognizer for language. An empty language uses DefaultLanguage.
func New(language string, opts ...Option) (*Recognizer, error) {
	r := &Recognizer{
		level:  gosseract.RIL_WORD,
		merge:  true,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		if language == "" {
			language = DefaultLanguage
		}
		client := gosseract.NewClient()
		if err := client.SetLanguage(language); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("tesseract language %q: %w", language, err)
		}
		r.engine = client
	}
	return r, nil
}

// Close releases the Tesseract client.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Close()
}

// Recognize returns the text hits of img in reading order, with bounds in img's pixel space.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) ([]domain.TextBox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, nil
	}

	scale := 1
	src := img
	if bounds.Dy() < MinHeight {
		scale = 2
		src = resize.Resize(uint(bounds.Dx()*scale), uint(bounds.Dy()*scale), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}

	type result struct {
		boxes []gosseract.BoundingBox
		err   error
	}
	done := make(chan result, 1)
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.engine.SetImageFromBytes(buf.Bytes()); err != nil {
			done <- result{err: err}
			return
		}
		boxes, err := r.engine.GetBoundingBoxes(r.level)
		done <- result{boxes: boxes, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("tesseract: %w", res.err)
	}

	hits := make([]domain.TextBox, 0, len(res.boxes))
	for _, b := range res.boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		hits = append(hits, domain.TextBox{
			Text:       text,
			Bounds:     unscale(b.Box, scale).Add(bounds.Min),
			Confidence: b.Confidence / 100,
		})
	}
	if r.merge {
		hits = MergeWords(hits)
	}
	r.logger.Debug("recognized", "hits", len(hits), "scale", scale)
	return hits, nil
}

func unscale(r image.Rectangle, scale int) image.Rectangle {
	if scale == 1 {
		return r
	}
	return image.Rect(r.Min.X/scale, r.Min.Y/scale, r.Max.X/scale, r.Max.Y/scale)
}

// MergeWords joins Han hits that sit on the same line with a gap narrower than about half a glyph.
// Tesseract splits Chinese labels into single characters at word level.
// The result is in reading order: top to bottom, then left to right.
func MergeWords(hits []domain.TextBox) []domain.TextBox {
	var out []domain.TextBox
	for _, line := range lines(hits) {
		for _, h := range line {
			if n := len(out); n > 0 && joinable(out[n-1], h) {
				last := &out[n-1]
				last.Text += h.Text
				last.Bounds = last.Bounds.Union(h.Bounds)
				last.Confidence = min(last.Confidence, h.Confidence)
				continue
			}
			out = append(out, h)
		}
	}
	return out
}

// lines groups hits into text lines, top to bottom. A hit starts a new line unless it shares
// a line with the first hit of the current one. Each line is ordered left to right.
func lines(hits []domain.TextBox) [][]domain.TextBox {
	sorted := append([]domain.TextBox(nil), hits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bounds.Min.Y < sorted[j].Bounds.Min.Y
	})

	var out [][]domain.TextBox
	for _, h := range sorted {
		if n := len(out); n > 0 && sameLine(out[n-1][0].Bounds, h.Bounds) {
			out[n-1] = append(out[n-1], h)
			continue
		}
		out = append(out, []domain.TextBox{h})
	}
	for _, line := range out {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].Bounds.Min.X < line[j].Bounds.Min.X
		})
	}
	return out
}

func sameLine(a, b image.Rectangle) bool {
	overlap := min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	return overlap*2 >= min(a.Dy(), b.Dy())
}

func joinable(prev, next domain.TextBox) bool {
	if !han(prev.Text) || !han(next.Text) || !sameLine(prev.Bounds, next.Bounds) {
		return false
	}
	gap := next.Bounds.Min.X - prev.Bounds.Max.X
	return gap >= 0 && gap*2 <= max(prev.Bounds.Dy(), next.Bounds.Dy())
}

// han reports whether s is made of Han glyphs, allowing the "+" of upgraded card names.
func han(s string) bool {
	for _, r := range s {
		if (r < 0x4E00 || r > 0x9FFF) && r != '+' {
			return false
		}
	}
	return s != ""
}
