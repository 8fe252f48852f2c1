package sprite

import (
	"image"

	"github.com/Faultbox/ffbetool/pkg/imageops"
)

// SheetSize returns the grid dimensions for count frames. A column count of
// zero, or one at least count, lays the frames out in a single row.
func SheetSize(count, columns int) (cols, rows int) {
	if count == 0 {
		return 0, 0
	}
	if columns <= 0 || columns >= count {
		return count, 1
	}
	return columns, (count + columns - 1) / columns
}

// Layout tiles normalized frames into one spritesheet, left to right and
// top to bottom, without gaps.
func Layout(frames []CompositeFrame, unit imageops.Rect, columns int) *image.NRGBA {
	cols, rows := SheetSize(len(frames), columns)
	w, h := int(unit.Width), int(unit.Height)
	sheet := image.NewNRGBA(image.Rect(0, 0, cols*w, rows*h))

	for i, f := range frames {
		x := (i % cols) * w
		y := (i / cols) * h
		imageops.Paste(sheet, f.Image, x, y)
	}
	return sheet
}
