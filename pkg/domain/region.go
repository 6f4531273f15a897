package domain

import "fmt"

// Region is a normalized rectangle (left, top, width, height) on the logical screen.
// All components are fractions of the display in [0,1].
type Region struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect builds a Region from its four components.
func Rect(left, top, width, height float64) Region {
	return Region{Left: left, Top: top, Width: width, Height: height}
}

// Center returns the normalized center of the region.
func (r Region) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Clamp trims the region so it lies inside the unit square.
func (r Region) Clamp() Region {
	left, top := clamp01(r.Left), clamp01(r.Top)
	right, bottom := clamp01(r.Left+r.Width), clamp01(r.Top+r.Height)
	return Region{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Valid reports whether the region still has a positive area after clamping.
func (r Region) Valid() bool {
	c := r.Clamp()
	return c.Width > 0 && c.Height > 0
}

// Offset returns the region translated by (dx, dy).
func (r Region) Offset(dx, dy float64) Region {
	return Region{Left: r.Left + dx, Top: r.Top + dy, Width: r.Width, Height: r.Height}
}

func (r Region) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", r.Left, r.Top, r.Width, r.Height)
}

// Point is a normalized (x, y) coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt builds a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Clamp bounds both coordinates to [lo, hi].
func (p Point) Clamp(lo, hi float64) Point {
	return Point{X: min(max(p.X, lo), hi), Y: min(max(p.Y, lo), hi)}
}

// Display describes the selected monitor in global pixel space.
type Display struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Display) String() string {
	return fmt.Sprintf("display %d (%dx%d at %d,%d)", d.Index, d.Width, d.Height, d.X, d.Y)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
