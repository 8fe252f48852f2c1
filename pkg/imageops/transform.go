package imageops

import (
	"errors"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"
)

// ErrOutOfBounds is returned when a crop rectangle leaves the source image.
var ErrOutOfBounds = errors.New("rectangle outside image bounds")

// Crop copies the sub-rectangle r of src into a new image whose origin is
// (0,0). r is relative to the top-left corner of src.
func Crop(src image.Image, r image.Rectangle) (*image.NRGBA, error) {
	sb := src.Bounds()
	r = r.Add(sb.Min)
	if !r.Empty() && !r.In(sb) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, r.Sub(sb.Min), sb.Sub(sb.Min))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if r.Empty() {
		return dst, nil
	}

	// Copy rows directly when possible; the generic path round-trips through
	// premultiplied color and loses precision at low alpha.
	if n, ok := src.(*image.NRGBA); ok {
		rowLen := r.Dx() * 4
		for y := 0; y < r.Dy(); y++ {
			so := n.PixOffset(r.Min.X, r.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], n.Pix[so:so+rowLen])
		}
		return dst, nil
	}

	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst, nil
}

// Blend approximates the game's additive blend: color channels are
// multiplied by alpha and alpha becomes the mean of the original color
// channels. Fully transparent pixels are left untouched. The operation is
// lossy and cannot be undone.
func Blend(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			p := img.Pix[i : i+4 : i+4]
			if p[3] == 0 {
				continue
			}
			r := float32(p[0]) / 255
			g := float32(p[1]) / 255
			bl := float32(p[2]) / 255
			a := float32(p[3]) / 255

			p[0] = uint8(r * a * 255)
			p[1] = uint8(g * a * 255)
			p[2] = uint8(bl * a * 255)
			p[3] = uint8((r + g + bl) / 3 * 255)
		}
	}
}

// FlipHorizontal mirrors img left to right in place.
func FlipHorizontal(img *image.NRGBA) {
	b := img.Bounds()
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
			li, ri := l*4, r*4
			for c := 0; c < 4; c++ {
				row[li+c], row[ri+c] = row[ri+c], row[li+c]
			}
		}
	}
}

// FlipVertical mirrors img top to bottom in place.
func FlipVertical(img *image.NRGBA) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	tmp := make([]byte, rowLen)
	for t, bt := b.Min.Y, b.Max.Y-1; t < bt; t, bt = t+1, bt-1 {
		top := img.Pix[img.PixOffset(b.Min.X, t):][:rowLen]
		bot := img.Pix[img.PixOffset(b.Min.X, bt):][:rowLen]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

// Rotate90 returns img rotated 90 degrees clockwise.
func Rotate90(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copyPixel(dst, h-1-y, x, img, b.Min.X+x, b.Min.Y+y)
		}
	}
	return dst
}

// Rotate180 returns img rotated by 180 degrees.
func Rotate180(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copyPixel(dst, w-1-x, h-1-y, img, b.Min.X+x, b.Min.Y+y)
		}
	}
	return dst
}

// Rotate270 returns img rotated 270 degrees clockwise.
func Rotate270(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copyPixel(dst, y, w-1-x, img, b.Min.X+x, b.Min.Y+y)
		}
	}
	return dst
}

func copyPixel(dst *image.NRGBA, dx, dy int, src *image.NRGBA, sx, sy int) {
	di := dst.PixOffset(dx, dy)
	si := src.PixOffset(sx, sy)
	copy(dst.Pix[di:di+4], src.Pix[si:si+4])
}

// ClockwiseAngle maps a counter-clockwise rotation from the tables to the
// clockwise right angle that reproduces it. Anything that is not a right
// angle maps to 0.
func ClockwiseAngle(ccw int32) int {
	switch ccw {
	case 90, -270:
		return 270
	case 180, -180:
		return 180
	case 270, -90:
		return 90
	default:
		return 0
	}
}

// RotateCCW rotates img counter-clockwise by a right angle. Other angles
// return img unchanged.
func RotateCCW(img *image.NRGBA, ccw int32) *image.NRGBA {
	switch ClockwiseAngle(ccw) {
	case 90:
		return Rotate90(img)
	case 180:
		return Rotate180(img)
	case 270:
		return Rotate270(img)
	default:
		return img
	}
}

// Opacity scales the alpha channel by percent/100, rounding to the nearest
// value. percent is clamped to [0,100].
func Opacity(img *image.NRGBA, percent uint8) {
	factor := math32.Min(float32(percent), 100) / 100
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y) + 3
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			a := math32.Round(float32(img.Pix[i]) * factor)
			img.Pix[i] = uint8(math32.Max(0, math32.Min(a, 255)))
		}
	}
}
