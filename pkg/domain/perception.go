package domain

import "image"

// TextBox is a raw recognizer hit: the text and its bounding box in the pixels of the
// image that was handed to the recognizer.
type TextBox struct {
	Text       string
	Bounds     image.Rectangle
	Confidence float64
}

// RecognizedItem is a TextBox normalized against the region it was found in.
// It is consumed within a single step and never persisted.
type RecognizedItem struct {
	// Index is the 1-based ordinal in recognizer order.
	Index int `json:"index"`
	Text  string `json:"text"`
	// Bounds is the absolute pixel rectangle inside the cropped region.
	Bounds image.Rectangle `json:"-"`
	// Box is the bounding box relative to the region.
	Box Region `json:"box"`
	// Center is the box center relative to the region.
	Center     Point   `json:"center"`
	Confidence float64 `json:"confidence"`
}

// Color is an RGB triple sampled from a frame.
type Color struct {
	R, G, B uint8
}

// Near reports whether every channel of c is within tol of o.
func (c Color) Near(o Color, tol int) bool {
	return absDiff(c.R, o.R) <= tol && absDiff(c.G, o.G) <= tol && absDiff(c.B, o.B) <= tol
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
