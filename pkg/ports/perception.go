package ports

import (
	"context"
	"image"

	"github.com/aretw0/spire/pkg/domain"
)

// FrameSource captures frames of the selected display.
type FrameSource interface {
	// Capture returns a fresh frame of the whole display.
	// Returns domain.ErrCaptureUnavailable when nothing can be captured.
	Capture(ctx context.Context) (image.Image, error)

	// Display reports the geometry of the selected display.
	Display() domain.Display
}

// TextRecognizer extracts text from an image.
type TextRecognizer interface {
	// Recognize returns every text hit in img, in reading order.
	// Bounds are expressed in img's own pixel space.
	Recognize(ctx context.Context, img image.Image) ([]domain.TextBox, error)
}

// MemorySnapshot reads the game's memory as flat key/value pairs.
type MemorySnapshot interface {
	// Read returns domain.ErrNoData when no complete snapshot could be produced.
	Read(ctx context.Context) (domain.Snapshot, error)
}
