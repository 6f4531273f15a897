package geometry

import (
	"fmt"
	"image"

	"github.com/aretw0/spire/pkg/domain"
)

// CropRect resolves a region to absolute pixels inside a frame of the given size.
// The result is clamped to the frame.
func CropRect(r domain.Region, frameW, frameH int) (image.Rectangle, error) {
	if frameW <= 0 || frameH <= 0 {
		return image.Rectangle{}, fmt.Errorf("frame %dx%d: %w", frameW, frameH, domain.ErrInvalidGeometry)
	}
	left := max(0, int(float64(frameW)*r.Left))
	top := max(0, int(float64(frameH)*r.Top))
	right := min(frameW, int(float64(frameW)*(r.Left+r.Width)))
	bottom := min(frameH, int(float64(frameH)*(r.Top+r.Height)))
	if left >= right || top >= bottom {
		return image.Rectangle{}, fmt.Errorf("region %s on %dx%d: %w", r, frameW, frameH, domain.ErrInvalidGeometry)
	}
	return image.Rect(left, top, right, bottom), nil
}

// RegionToDisplay maps a point relative to r onto the display: origin + size*rel,
// clamped to the unit square.
func RegionToDisplay(r domain.Region, rel domain.Point) (domain.Point, error) {
	if !r.Valid() {
		return domain.Point{}, fmt.Errorf("region %s: %w", r, domain.ErrInvalidGeometry)
	}
	return domain.Point{
		X: r.Left + r.Width*rel.X,
		Y: r.Top + r.Height*rel.Y,
	}.Clamp(0, 1), nil
}

// DisplayToGlobal maps a display-relative point to global pixels: offset + size*rel.
func DisplayToGlobal(d domain.Display, rel domain.Point) (image.Point, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return image.Point{}, fmt.Errorf("%s: %w", d, domain.ErrInvalidGeometry)
	}
	rel = rel.Clamp(0, 1)
	return image.Point{
		X: d.X + int(float64(d.Width)*rel.X),
		Y: d.Y + int(float64(d.Height)*rel.Y),
	}, nil
}

// ToGlobal composes RegionToDisplay and DisplayToGlobal.
func ToGlobal(d domain.Display, r domain.Region, rel domain.Point) (image.Point, error) {
	p, err := RegionToDisplay(r, rel)
	if err != nil {
		return image.Point{}, err
	}
	return DisplayToGlobal(d, p)
}

// PixelAt resolves a display-relative point to a pixel index inside a frame.
func PixelAt(bounds image.Rectangle, rel domain.Point) (image.Point, error) {
	if rel.X < 0 || rel.X > 1 || rel.Y < 0 || rel.Y > 1 {
		return image.Point{}, fmt.Errorf("point (%.3f, %.3f): %w", rel.X, rel.Y, domain.ErrOutOfBounds)
	}
	if bounds.Empty() {
		return image.Point{}, fmt.Errorf("empty frame: %w", domain.ErrOutOfBounds)
	}
	x := bounds.Min.X + min(int(float64(bounds.Dx())*rel.X), bounds.Dx()-1)
	y := bounds.Min.Y + min(int(float64(bounds.Dy())*rel.Y), bounds.Dy()-1)
	return image.Point{X: x, Y: y}, nil
}

// Normalize expresses a pixel box found inside a crop of the given size relative to that
// crop. The box is clamped to the crop first.
func Normalize(box image.Rectangle, cropW, cropH int) (domain.Region, domain.Point, error) {
	box = box.Canon().Intersect(image.Rect(0, 0, cropW, cropH))
	if box.Empty() {
		return domain.Region{}, domain.Point{}, fmt.Errorf("box %v in %dx%d crop: %w", box, cropW, cropH, domain.ErrInvalidGeometry)
	}
	w, h := float64(cropW), float64(cropH)
	rel := domain.Region{
		Left:   float64(box.Min.X) / w,
		Top:    float64(box.Min.Y) / h,
		Width:  float64(box.Dx()) / w,
		Height: float64(box.Dy()) / h,
	}
	center := domain.Point{
		X: float64(box.Min.X+box.Max.X) / 2 / w,
		Y: float64(box.Min.Y+box.Max.Y) / 2 / h,
	}
	return rel, center, nil
}
