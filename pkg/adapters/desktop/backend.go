package desktop

import (
	"image"

	"github.com/go-vgo/robotgo"
)

// backend is the slice of robotgo the desktop adapter drives.
type backend interface {
	DisplaysNum() int
	DisplayBounds(i int) (x, y, w, h int)
	Capture(x, y, w, h int) (image.Image, error)
	Move(x, y int)
	Toggle(down bool) error
	Click()
	Scroll(amount int)
}

type robot struct{}

func (robot) DisplaysNum() int {
	return robotgo.DisplaysNum()
}

func (robot) DisplayBounds(i int) (x, y, w, h int) {
	return robotgo.GetDisplayBounds(i)
}

func (robot) Capture(x, y, w, h int) (image.Image, error) {
	return robotgo.CaptureImg(x, y, w, h)
}

func (robot) Move(x, y int) {
	robotgo.Move(x, y)
}

func (robot) Toggle(down bool) error {
	if down {
		return robotgo.Toggle("left")
	}
	return robotgo.Toggle("left", "up")
}

func (robot) Click() {
	robotgo.Click("left")
}

func (robot) Scroll(amount int) {
	robotgo.Scroll(0, amount)
}
