// Package sprite composites unit animation frames from atlas parts and lays
// them out as spritesheets.
package sprite

import (
	"fmt"
	"image"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/ffbetool/pkg/formats"
	"github.com/Faultbox/ffbetool/pkg/imageops"
)

const (
	// CanvasSize is the side of the square scratch canvas. It fits the
	// largest part displacement seen in exported tables.
	CanvasSize = 2000

	// FramePadding is added to the unit frame width and height so
	// anti-aliased edges are not clipped.
	FramePadding = 5
)

// Frame is one animation entry ready for compositing.
type Frame struct {
	Seq      int // position in the animation
	Template formats.FrameTemplate
	Entry    formats.SequenceEntry
}

// CompositeFrame is the rendered result of one Frame.
//
// For a frame with visible content, Image holds exactly the visible area and
// Rect is where that area sits on the canvas. An empty frame has Empty set, a
// 1×1 transparent placeholder image and a zero Rect; neither is geometry.
type CompositeFrame struct {
	Seq        int
	FrameIndex int
	Image      *image.NRGBA
	Rect       imageops.Rect
	Delay      uint32
	Empty      bool
}

// BuildFrames pairs every sequence entry with a copy of its template.
func BuildFrames(entries []formats.SequenceEntry, templates []formats.FrameTemplate) ([]Frame, error) {
	if err := formats.CheckFrameRefs(entries, len(templates)); err != nil {
		return nil, err
	}

	frames := make([]Frame, len(entries))
	for i, e := range entries {
		frames[i] = Frame{
			Seq:      i,
			Template: templates[e.FrameIndex].Clone(),
			Entry:    e,
		}
	}
	return frames, nil
}

// Compositor renders frames from a shared atlas. The atlas is only read, so
// one Compositor may render many frames concurrently.
type Compositor struct {
	atlas      image.Image
	canvasSize int
	workers    int
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithWorkers limits how many frames are composited at once. Zero or less
// means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Compositor) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCanvasSize overrides the scratch canvas side.
func WithCanvasSize(size int) Option {
	return func(c *Compositor) {
		if size > 0 {
			c.canvasSize = size
		}
	}
}

// NewCompositor creates a compositor over the given atlas.
func NewCompositor(atlas image.Image, opts ...Option) *Compositor {
	c := &Compositor{
		atlas:      atlas,
		canvasSize: CanvasSize,
		workers:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Composite draws every part of f onto a fresh canvas, bottom layer first,
// and keeps the visible area.
func (c *Compositor) Composite(f Frame) (CompositeFrame, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, c.canvasSize, c.canvasSize))
	half := c.canvasSize / 2

	for i, part := range f.Template.Parts {
		img, err := TransformPart(c.atlas, part)
		if err != nil {
			return CompositeFrame{}, fmt.Errorf("frame %d (template %d) part %d: %w", f.Seq, f.Template.ID, i, err)
		}
		x := half + int(f.Entry.X) + int(part.X)
		y := half + int(f.Entry.Y) + int(part.Y)
		imageops.Overlay(canvas, img, x, y)
	}

	result := CompositeFrame{
		Seq:        f.Seq,
		FrameIndex: f.Entry.FrameIndex,
		Delay:      f.Entry.Delay,
	}

	rect, ok := imageops.VisibleBounds(canvas)
	if !ok {
		result.Empty = true
		result.Image = image.NewNRGBA(image.Rect(0, 0, 1, 1))
		return result, nil
	}

	// Copy the visible area out so the canvas can be released.
	visible, err := imageops.Crop(canvas, rect.Rectangle())
	if err != nil {
		return CompositeFrame{}, err
	}
	result.Image = visible
	result.Rect = rect
	return result, nil
}

// CompositeAll renders every frame in parallel. Results keep the order of
// frames. A failing frame does not stop the others; all failures are
// returned together once every frame has finished.
func (c *Compositor) CompositeAll(frames []Frame) ([]CompositeFrame, error) {
	results := make([]CompositeFrame, len(frames))
	errs := make([]error, len(frames))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i := range frames {
		g.Go(func() error {
			results[i], errs[i] = c.Composite(frames[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
