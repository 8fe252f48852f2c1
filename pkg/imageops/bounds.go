package imageops

import (
	"image"
	"image/color"
)

// Transparent is fully transparent black, the canvas background.
var Transparent = color.NRGBA{}

// ColorBounds returns the smallest rectangle holding every pixel that equals
// c (match true) or differs from c (match false). ok is false when no pixel
// qualifies. The returned rectangle is relative to the image origin.
func ColorBounds(img *image.NRGBA, c color.NRGBA, match bool) (r Rect, ok bool) {
	b := img.Bounds()
	minX, minY := b.Dx(), b.Dy()
	maxX, maxY := -1, -1

	for y := 0; y < b.Dy(); y++ {
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[i : i+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+4]
			same := p[0] == c.R && p[1] == c.G && p[2] == c.B && p[3] == c.A
			if same != match {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < 0 {
		return Rect{}, false
	}
	return RectFrom(image.Rect(minX, minY, maxX+1, maxY+1)), true
}

// VisibleBounds returns the bounds of every pixel that is not fully
// transparent black.
func VisibleBounds(img *image.NRGBA) (Rect, bool) {
	return ColorBounds(img, Transparent, false)
}
