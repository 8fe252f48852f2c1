package sprite

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/ffbetool/pkg/imageops"
)

// ErrMissingValue is returned when a derived value was never set.
var ErrMissingValue = errors.New("missing value")

// MissingValueError names the value that was never set.
type MissingValueError struct {
	Name string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingValue, e.Name)
}

func (e *MissingValueError) Unwrap() error {
	return ErrMissingValue
}

// UnitBounds is the union of the visible rectangles of an animation's frames
// in canvas coordinates. The zero value holds nothing.
type UnitBounds struct {
	topLeft     image.Point
	bottomRight image.Point
	set         bool
}

// Merge widens the bounds to cover r.
func (b *UnitBounds) Merge(r imageops.Rect) {
	tl := image.Pt(int(r.X), int(r.Y))
	br := tl.Add(image.Pt(int(r.Width), int(r.Height)))
	if !b.set {
		b.topLeft, b.bottomRight, b.set = tl, br, true
		return
	}
	b.topLeft = image.Pt(min(b.topLeft.X, tl.X), min(b.topLeft.Y, tl.Y))
	b.bottomRight = image.Pt(max(b.bottomRight.X, br.X), max(b.bottomRight.Y, br.Y))
}

// Valid reports whether at least one rectangle has been merged.
func (b UnitBounds) Valid() bool { return b.set }

// FrameRect returns the unit frame rectangle with padding added to its width
// and height.
func (b UnitBounds) FrameRect(padding uint32) (imageops.Rect, error) {
	if !b.Valid() {
		return imageops.Rect{}, &MissingValueError{Name: "top_left"}
	}
	return imageops.Rect{
		X:      uint32(b.topLeft.X),
		Y:      uint32(b.topLeft.Y),
		Width:  uint32(b.bottomRight.X-b.topLeft.X) + padding,
		Height: uint32(b.bottomRight.Y-b.topLeft.Y) + padding,
	}, nil
}

// Aggregate merges every rectangle into fresh bounds.
func Aggregate(rects []imageops.Rect) UnitBounds {
	var b UnitBounds
	for _, r := range rects {
		b.Merge(r)
	}
	return b
}

// Collect reduces the results of a compositing pass. Empty frames never
// contribute to the bounds and are dropped unless includeEmpty is set.
func Collect(results []CompositeFrame, includeEmpty bool) ([]CompositeFrame, UnitBounds) {
	var (
		b    UnitBounds
		kept = make([]CompositeFrame, 0, len(results))
	)
	for _, f := range results {
		if f.Empty {
			if includeEmpty {
				kept = append(kept, f)
			}
			continue
		}
		b.Merge(f.Rect)
		kept = append(kept, f)
	}
	return kept, b
}
