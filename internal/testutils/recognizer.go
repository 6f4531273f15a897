package testutils

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/geometry"
)

// Recognizer is a fake TextRecognizer scripted per region.
// It identifies the region from the bounds of the cropped image it receives.
type Recognizer struct {
	mu      sync.Mutex
	display domain.Display
	scripts map[image.Rectangle][][]string
	Calls   map[image.Rectangle]int
	Err     error
}

// NewRecognizer creates an empty script over display.
func NewRecognizer(display domain.Display) *Recognizer {
	return &Recognizer{
		display: display,
		scripts: map[image.Rectangle][][]string{},
		Calls:   map[image.Rectangle]int{},
	}
}

// On queues one recognition result per call for region. Each result is a list of labels laid
// out left to right in equal slots across the region. The last result repeats; regions with no
// script see no text.
func (r *Recognizer) On(region domain.Region, results ...[]string) *Recognizer {
	rect := r.rect(region)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[rect] = append(r.scripts[rect], results...)
	return r
}

// Texts is shorthand for one recognition result.
func Texts(labels ...string) []string {
	return labels
}

// CallsFor reports how many times region was recognized.
func (r *Recognizer) CallsFor(region domain.Region) int {
	rect := r.rect(region)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Calls[rect]
}

// SlotCenter is the region-relative center of label i of n as laid out by On.
func SlotCenter(i, n int) domain.Point {
	return domain.Pt((float64(i)+0.5)/float64(n), 0.5)
}

func (r *Recognizer) Recognize(ctx context.Context, img image.Image) ([]domain.TextBox, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	bounds := img.Bounds()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls[bounds]++

	queue := r.scripts[bounds]
	if len(queue) == 0 {
		return nil, nil
	}
	labels := queue[0]
	if len(queue) > 1 {
		r.scripts[bounds] = queue[1:]
	}

	boxes := make([]domain.TextBox, 0, len(labels))
	slot := bounds.Dx() / max(len(labels), 1)
	for i, label := range labels {
		minX := bounds.Min.X + i*slot
		boxes = append(boxes, domain.TextBox{
			Text:       label,
			Bounds:     image.Rect(minX, bounds.Min.Y, minX+slot, bounds.Max.Y),
			Confidence: 0.99,
		})
	}
	return boxes, nil
}

func (r *Recognizer) rect(region domain.Region) image.Rectangle {
	rect, err := geometry.CropRect(region, r.display.Width, r.display.Height)
	if err != nil {
		panic(fmt.Sprintf("testutils: unusable region %s: %v", region, err))
	}
	return rect
}

// ErrRecognizer is a canned recognizer failure.
var ErrRecognizer = errors.New("recognizer offline")
