// Package export writes rendered animations to disk as spritesheets,
// animated images and JSON metadata.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// GIF has no partial transparency; pixels below this alpha are dropped.
const gifAlphaThreshold = 128

// gifPalette is a transparent entry followed by the 216 web-safe colors.
var gifPalette = append(color.Palette{color.Transparent}, palette.WebSafe...)

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(bw, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return bw.Flush()
}

// GIFDelay converts a delay in 1/60 s to GIF hundredths of a second,
// rounding to nearest.
func GIFDelay(delay uint32) int {
	return int((uint64(delay)*100 + 30) / 60)
}

// EncodeGIF writes frames as an infinitely looping GIF. delays are in
// 1/60 s.
func EncodeGIF(w io.Writer, frames []*image.NRGBA, delays []uint32) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if len(delays) != len(frames) {
		return fmt.Errorf("got %d delays for %d frames", len(delays), len(frames))
	}

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		Disposal:  make([]byte, len(frames)),
		LoopCount: 0,
	}
	for i, f := range frames {
		anim.Image[i] = toPaletted(f)
		anim.Delay[i] = GIFDelay(delays[i])
		anim.Disposal[i] = gif.DisposalBackground
	}

	bw := bufio.NewWriter(w)
	if err := gif.EncodeAll(bw, anim); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return bw.Flush()
}

// toPaletted maps img onto gifPalette. Pixels below gifAlphaThreshold
// become the transparent entry, the rest are dithered over the opaque ones.
func toPaletted(img *image.NRGBA) *image.Paletted {
	b := img.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := img.PixOffset(b.Min.X, b.Min.Y+y)
		di := flat.PixOffset(0, y)
		for x := 0; x < b.Dx(); x, si, di = x+1, si+4, di+4 {
			if img.Pix[si+3] < gifAlphaThreshold {
				continue
			}
			copy(flat.Pix[di:di+3], img.Pix[si:si+3])
			flat.Pix[di+3] = 0xff
		}
	}

	dst := image.NewPaletted(flat.Bounds(), gifPalette)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), flat, image.Point{})
	return dst
}
