package imageops

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// solid returns a w×h image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// numbered returns a w×h image whose pixel (x,y) has R=x, G=y.
func numbered(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	return img
}

func TestCrop(t *testing.T) {
	src := numbered(10, 8)

	part, err := Crop(src, image.Rect(2, 3, 6, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if part.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("unexpected bounds %v", part.Bounds())
	}
	if c := part.NRGBAAt(0, 0); c.R != 2 || c.G != 3 {
		t.Errorf("expected pixel (2,3) at origin, got (%d,%d)", c.R, c.G)
	}
	if c := part.NRGBAAt(3, 1); c.R != 5 || c.G != 4 {
		t.Errorf("expected pixel (5,4) at (3,1), got (%d,%d)", c.R, c.G)
	}

	// Mutating the crop must not touch the source.
	part.SetNRGBA(0, 0, color.NRGBA{})
	if src.NRGBAAt(2, 3).A != 255 {
		t.Error("crop aliases the source image")
	}
}

func TestCrop_GenericSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(1, 1, color.RGBA{R: 200, A: 255})

	part, err := Crop(src, image.Rect(1, 1, 3, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c := part.NRGBAAt(0, 0); c.R != 200 || c.A != 255 {
		t.Errorf("unexpected pixel %v", c)
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	src := numbered(10, 10)
	_, err := Crop(src, image.Rect(8, 8, 12, 12))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestCrop_Empty(t *testing.T) {
	part, err := Crop(numbered(4, 4), image.Rect(1, 1, 1, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !part.Bounds().Empty() {
		t.Errorf("expected empty image, got %v", part.Bounds())
	}
}

func TestBlend(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 90, G: 60, B: 30, A: 0})

	Blend(img)

	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("opaque white should be unchanged, got %v", c)
	}
	if c := img.NRGBAAt(1, 0); c != (color.NRGBA{90, 60, 30, 0}) {
		t.Errorf("transparent pixel should be untouched, got %v", c)
	}

	half := solid(1, 1, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	Blend(half)
	c := half.NRGBAAt(0, 0)
	if c.R < 127 || c.R > 128 {
		t.Errorf("expected red premultiplied to ~128, got %d", c.R)
	}
	if c.A < 84 || c.A > 85 {
		t.Errorf("expected alpha to be mean of rgb (~85), got %d", c.A)
	}
	if c.G != 0 || c.B != 0 {
		t.Errorf("expected zero green/blue, got %v", c)
	}
}

func TestFlipHorizontal(t *testing.T) {
	img := numbered(3, 2)
	FlipHorizontal(img)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if c := img.NRGBAAt(x, y); int(c.R) != 2-x || int(c.G) != y {
				t.Errorf("(%d,%d): got (%d,%d)", x, y, c.R, c.G)
			}
		}
	}
}

func TestFlipVertical(t *testing.T) {
	img := numbered(2, 3)
	FlipVertical(img)
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			if c := img.NRGBAAt(x, y); int(c.R) != x || int(c.G) != 2-y {
				t.Errorf("(%d,%d): got (%d,%d)", x, y, c.R, c.G)
			}
		}
	}
}

func TestRotate(t *testing.T) {
	img := numbered(3, 2) // 3 wide, 2 tall

	cw90 := Rotate90(img)
	if cw90.Bounds() != image.Rect(0, 0, 2, 3) {
		t.Fatalf("rotate90: unexpected bounds %v", cw90.Bounds())
	}
	// Top-left moves to top-right.
	if c := cw90.NRGBAAt(1, 0); c.R != 0 || c.G != 0 {
		t.Errorf("rotate90: expected source (0,0) at (1,0), got (%d,%d)", c.R, c.G)
	}
	// Bottom-left moves to top-left.
	if c := cw90.NRGBAAt(0, 0); c.R != 0 || c.G != 1 {
		t.Errorf("rotate90: expected source (0,1) at (0,0), got (%d,%d)", c.R, c.G)
	}

	r180 := Rotate180(img)
	if c := r180.NRGBAAt(0, 0); c.R != 2 || c.G != 1 {
		t.Errorf("rotate180: expected source (2,1) at origin, got (%d,%d)", c.R, c.G)
	}

	cw270 := Rotate270(img)
	if cw270.Bounds() != image.Rect(0, 0, 2, 3) {
		t.Fatalf("rotate270: unexpected bounds %v", cw270.Bounds())
	}
	// Top-left moves to bottom-left.
	if c := cw270.NRGBAAt(0, 2); c.R != 0 || c.G != 0 {
		t.Errorf("rotate270: expected source (0,0) at (0,2), got (%d,%d)", c.R, c.G)
	}

	// Four quarter turns are the identity.
	back := Rotate90(Rotate90(Rotate90(Rotate90(img))))
	if string(back.Pix) != string(img.Pix) {
		t.Error("four rotations should restore the image")
	}
}

func TestClockwiseAngle(t *testing.T) {
	tests := []struct {
		ccw  int32
		want int
	}{
		{90, 270},
		{180, 180},
		{270, 90},
		{-90, 90},
		{-180, 180},
		{-270, 270},
		{0, 0},
		{45, 0},
		{360, 0},
		{-45, 0},
	}
	for _, tt := range tests {
		if got := ClockwiseAngle(tt.ccw); got != tt.want {
			t.Errorf("ClockwiseAngle(%d) = %d, want %d", tt.ccw, got, tt.want)
		}
	}
}

func TestRotateCCW_NonRightAngle(t *testing.T) {
	img := numbered(3, 2)
	if RotateCCW(img, 45) != img {
		t.Error("non right angles should return the input unchanged")
	}
	if RotateCCW(img, 90).Bounds().Dx() != 2 {
		t.Error("90 degrees should swap dimensions")
	}
}

func TestOpacity(t *testing.T) {
	tests := []struct {
		percent uint8
		alpha   uint8
		want    uint8
	}{
		{100, 200, 200},
		{0, 200, 0},
		{50, 255, 128},
		{70, 100, 70},
		{33, 3, 1},
		{150, 200, 200},
	}
	for _, tt := range tests {
		img := solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: tt.alpha})
		Opacity(img, tt.percent)
		c := img.NRGBAAt(1, 1)
		if c.A != tt.want {
			t.Errorf("opacity %d on alpha %d: got %d, want %d", tt.percent, tt.alpha, c.A, tt.want)
		}
		if c.R != 10 || c.G != 20 || c.B != 30 {
			t.Errorf("opacity changed color channels: %v", c)
		}
	}
}

func TestOpacity_Monotonic(t *testing.T) {
	prev := uint8(0)
	for p := 0; p <= 100; p++ {
		img := solid(1, 1, color.NRGBA{A: 255})
		Opacity(img, uint8(p))
		a := img.NRGBAAt(0, 0).A
		if a < prev {
			t.Fatalf("alpha decreased from %d to %d at %d%%", prev, a, p)
		}
		prev = a
	}
}

func TestColorBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if _, ok := VisibleBounds(img); ok {
		t.Error("transparent canvas should have no bounds")
	}

	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(3, 3, color.NRGBA{G: 255, A: 255})

	r, ok := VisibleBounds(img)
	if !ok {
		t.Fatal("expected bounds")
	}
	want := Rect{X: 1, Y: 1, Width: 3, Height: 3}
	if r != want {
		t.Errorf("got %+v, want %+v", r, want)
	}

	// Matching mode finds the transparent area instead.
	r, ok = ColorBounds(img, Transparent, true)
	if !ok || r != (Rect{X: 0, Y: 0, Width: 10, Height: 10}) {
		t.Errorf("unexpected matching bounds %+v ok=%v", r, ok)
	}
}

func TestColorBounds_ColorWithZeroAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	img.SetNRGBA(4, 2, color.NRGBA{R: 7})

	r, ok := VisibleBounds(img)
	if !ok || r != (Rect{X: 4, Y: 2, Width: 1, Height: 1}) {
		t.Errorf("non-black transparent pixel should count: %+v ok=%v", r, ok)
	}
}

func TestOverlay(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src := solid(2, 2, color.NRGBA{R: 255, A: 255})

	Overlay(dst, src, 3, -1)

	if c := dst.NRGBAAt(3, 0); c != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("expected clipped pixel at (3,0), got %v", c)
	}
	if c := dst.NRGBAAt(2, 0); c.A != 0 {
		t.Errorf("pixel outside source should stay transparent, got %v", c)
	}
	if c := dst.NRGBAAt(3, 1); c.A != 0 {
		t.Errorf("pixel below clipped source should stay transparent, got %v", c)
	}
}

func TestOverlay_AlphaOver(t *testing.T) {
	dst := solid(1, 1, color.NRGBA{B: 255, A: 255})
	src := solid(1, 1, color.NRGBA{R: 255, A: 128})

	Overlay(dst, src, 0, 0)

	c := dst.NRGBAAt(0, 0)
	if c.A != 255 {
		t.Errorf("over an opaque pixel should stay opaque, got alpha %d", c.A)
	}
	if c.R < 126 || c.R > 129 || c.B < 126 || c.B > 128 {
		t.Errorf("expected an even mix of red and blue, got %v", c)
	}

	// Transparent source leaves the destination alone.
	before := dst.NRGBAAt(0, 0)
	Overlay(dst, image.NewNRGBA(image.Rect(0, 0, 1, 1)), 0, 0)
	if dst.NRGBAAt(0, 0) != before {
		t.Error("transparent source modified destination")
	}
}

func TestOverlay_OpaqueStaysOpaque(t *testing.T) {
	for _, a := range []uint8{1, 64, 128, 200, 254} {
		dst := solid(1, 1, color.NRGBA{B: 255, A: 255})
		Overlay(dst, solid(1, 1, color.NRGBA{R: 255, A: a}), 0, 0)
		if got := dst.NRGBAAt(0, 0).A; got != 255 {
			t.Errorf("alpha %d over opaque: got alpha %d", a, got)
		}
	}
}

func TestOverlay_OntoTransparent(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src := solid(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 100})

	Overlay(dst, src, 0, 0)

	c := dst.NRGBAAt(0, 0)
	if c.A < 99 || c.A > 100 {
		t.Errorf("expected source alpha, got %d", c.A)
	}
	if c.R < 198 || c.G < 98 || c.B < 48 {
		t.Errorf("expected source color preserved, got %v", c)
	}
}

func TestRectConversions(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 5}
	if r.Rectangle() != image.Rect(2, 3, 6, 8) {
		t.Errorf("unexpected rectangle %v", r.Rectangle())
	}
	if RectFrom(image.Rect(2, 3, 6, 8)) != r {
		t.Errorf("RectFrom round trip failed")
	}
}

func TestPaste(t *testing.T) {
	dst := solid(4, 4, color.NRGBA{G: 255, A: 255})
	src := solid(2, 2, color.NRGBA{R: 9, A: 10})

	Paste(dst, src, -1, 1)

	if c := dst.NRGBAAt(0, 1); c != (color.NRGBA{R: 9, A: 10}) {
		t.Errorf("expected source pixel to replace destination, got %v", c)
	}
	if c := dst.NRGBAAt(1, 1); c != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("pixel right of clipped source changed: %v", c)
	}
	if c := dst.NRGBAAt(0, 3); c != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("pixel below source changed: %v", c)
	}
}
