// Package imageops provides the straight-alpha RGBA operations used to
// assemble unit sprites: cropping, blending, mirroring, rotation, opacity,
// over-compositing and visible-bounds detection.
//
// All operations work on *image.NRGBA so channel values stay un-premultiplied
// from the atlas to the written sheet.
package imageops

import "image"

// Rect is an axis-aligned rectangle in unsigned canvas coordinates.
type Rect struct {
	X      uint32 `json:"x" yaml:"x"`
	Y      uint32 `json:"y" yaml:"y"`
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	x, y := int(r.X), int(r.Y)
	return image.Rect(x, y, x+int(r.Width), y+int(r.Height))
}

// RectFrom converts an image.Rectangle with a non-negative origin.
func RectFrom(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{
		X:      uint32(max(r.Min.X, 0)),
		Y:      uint32(max(r.Min.Y, 0)),
		Width:  uint32(r.Dx()),
		Height: uint32(r.Dy()),
	}
}
