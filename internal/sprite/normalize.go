package sprite

import (
	"image"

	"github.com/Faultbox/ffbetool/pkg/imageops"
)

// Normalize gives every frame the size of the unit frame rectangle.
//
// Empty frames become fully transparent images of that size and take the
// unit rectangle as their own. Other frames are placed at their canvas
// position inside a window over the unit rectangle, so the result matches
// cropping the whole canvas to it, and keep their visible rectangle. Pixels
// outside the window are dropped.
func Normalize(frames []CompositeFrame, unit imageops.Rect) {
	for i := range frames {
		f := &frames[i]
		window := image.NewNRGBA(image.Rect(0, 0, int(unit.Width), int(unit.Height)))
		if f.Empty {
			f.Rect = unit
		} else {
			imageops.Paste(window, f.Image, int(f.Rect.X)-int(unit.X), int(f.Rect.Y)-int(unit.Y))
		}
		f.Image = window
	}
}
