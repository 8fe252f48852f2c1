package imageops

import (
	"image"

	"github.com/chewxy/math32"
)

// Overlay draws src over dst with its top-left corner at (x, y), using
// straight-alpha "over" compositing. Pixels falling outside dst are clipped.
func Overlay(dst, src *image.NRGBA, x, y int) {
	sb := src.Bounds()
	target := image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Intersect(dst.Bounds())
	if target.Empty() {
		return
	}

	for dy := target.Min.Y; dy < target.Max.Y; dy++ {
		sy := sb.Min.Y + dy - y
		di := dst.PixOffset(target.Min.X, dy)
		si := src.PixOffset(sb.Min.X+target.Min.X-x, sy)
		for dx := target.Min.X; dx < target.Max.X; dx, di, si = dx+1, di+4, si+4 {
			blendOver(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
		}
	}
}

// blendOver composites the straight-alpha pixel fg over bg in place.
func blendOver(bg, fg []byte) {
	switch fg[3] {
	case 0:
		return
	case 255:
		copy(bg, fg)
		return
	}

	bgA := float32(bg[3]) / 255
	fgA := float32(fg[3]) / 255
	outA := bgA + fgA - bgA*fgA
	if outA == 0 {
		return
	}

	for c := 0; c < 3; c++ {
		bgC := float32(bg[c]) / 255 * bgA
		fgC := float32(fg[c]) / 255 * fgA
		out := (fgC + bgC*(1-fgA)) / outA
		bg[c] = unitToByte(out)
	}
	bg[3] = unitToByte(outA)
}

// unitToByte maps [0,1] to [0,255], rounding to nearest.
func unitToByte(v float32) uint8 {
	return uint8(math32.Round(math32.Max(0, math32.Min(v, 1)) * 255))
}

// Paste copies src into dst with its top-left corner at (x, y), replacing
// the destination pixels. Pixels falling outside dst are clipped.
func Paste(dst, src *image.NRGBA, x, y int) {
	sb := src.Bounds()
	target := image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Intersect(dst.Bounds())
	if target.Empty() {
		return
	}

	rowLen := target.Dx() * 4
	for dy := target.Min.Y; dy < target.Max.Y; dy++ {
		di := dst.PixOffset(target.Min.X, dy)
		si := src.PixOffset(sb.Min.X+target.Min.X-x, sb.Min.Y+dy-y)
		copy(dst.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
	}
}
