// Package unit turns the part and sequence tables of one unit into finished
// animation frames and spritesheets.
package unit

import (
	"fmt"
	"image"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/ffbetool/internal/sprite"
	"github.com/Faultbox/ffbetool/pkg/formats"
	"github.com/Faultbox/ffbetool/pkg/imageops"
)

// Options controls how animations are rendered.
type Options struct {
	// Logger receives progress and failure reports. Nil disables logging.
	Logger *zap.Logger

	// IncludeEmpty keeps frames without visible pixels.
	IncludeEmpty bool

	// Columns is the spritesheet column count. Zero means a single row.
	Columns int

	// Workers limits parallel frame compositing. Zero means GOMAXPROCS.
	Workers int

	// OnAnimationDone, if set, is called by All after each animation,
	// whether it succeeded or not.
	OnAnimationDone func(name string, err error)
}

// Result is one rendered animation.
type Result struct {
	UnitID    int
	Name      string
	Frames    []sprite.CompositeFrame // normalized, in sequence order
	FrameRect imageops.Rect
	Sheet     *image.NRGBA
}

// Delays returns the delay of every frame in order.
func (r *Result) Delays() []uint32 {
	delays := make([]uint32, len(r.Frames))
	for i, f := range r.Frames {
		delays[i] = f.Delay
	}
	return delays
}

// Processor renders the animations of one unit. Templates and atlas are
// shared by every animation and never modified.
type Processor struct {
	unitID     int
	templates  []formats.FrameTemplate
	compositor *sprite.Compositor
	opts       Options
	log        *zap.Logger
}

// NewProcessor creates a processor for a unit.
func NewProcessor(unitID int, atlas image.Image, templates []formats.FrameTemplate, opts Options) *Processor {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		unitID:     unitID,
		templates:  templates,
		compositor: sprite.NewCompositor(atlas, sprite.WithWorkers(opts.Workers)),
		opts:       opts,
		log:        log.With(zap.Int("unit", unitID)),
	}
}

// LoadTemplates reads the frame templates of a unit from its CGG table.
func LoadTemplates(r io.Reader) ([]formats.FrameTemplate, error) {
	templates, err := formats.ParseCGG(r)
	if err != nil {
		return nil, fmt.Errorf("loading frame templates: %w", err)
	}
	return templates, nil
}

// LoadSequence reads an animation's CGS table and pairs each entry with its
// template.
func LoadSequence(r io.Reader, templates []formats.FrameTemplate) ([]sprite.Frame, error) {
	entries, err := formats.ParseCGS(r)
	if err != nil {
		return nil, fmt.Errorf("loading sequence: %w", err)
	}
	return sprite.BuildFrames(entries, templates)
}

// Animation renders one animation from its CGS table. Any failure aborts
// the whole animation.
func (p *Processor) Animation(name string, r io.Reader) (*Result, error) {
	log := p.log.With(zap.String("anim", name))
	start := time.Now()

	frames, err := LoadSequence(r, p.templates)
	if err != nil {
		return nil, fmt.Errorf("animation %s: %w", name, err)
	}

	rendered, err := p.compositor.CompositeAll(frames)
	if err != nil {
		return nil, fmt.Errorf("animation %s: %w", name, err)
	}

	kept, bounds := sprite.Collect(rendered, p.opts.IncludeEmpty)
	if dropped := len(rendered) - len(kept); dropped > 0 {
		log.Debug("dropped empty frames", zap.Int("count", dropped))
	}

	rect, err := bounds.FrameRect(sprite.FramePadding)
	if err != nil {
		return nil, fmt.Errorf("animation %s: %w", name, err)
	}

	sprite.Normalize(kept, rect)
	sheet := sprite.Layout(kept, rect, p.opts.Columns)

	log.Debug("animation rendered",
		zap.Int("frames", len(kept)),
		zap.Uint32("width", rect.Width),
		zap.Uint32("height", rect.Height),
		zap.Duration("took", time.Since(start)),
	)

	return &Result{
		UnitID:    p.unitID,
		Name:      name,
		Frames:    kept,
		FrameRect: rect,
		Sheet:     sheet,
	}, nil
}

// Report summarizes a batch run.
type Report struct {
	Processed []string
	Failed    map[string]error
}

// OpenFunc opens the CGS table of an animation.
type OpenFunc func(name string) (io.ReadCloser, error)

// SinkFunc consumes a rendered animation, typically by writing it out.
type SinkFunc func(*Result) error

// All renders every named animation and hands each result to sink. A
// failing animation is logged and recorded; the others still run. The
// returned error combines every failure.
func (p *Processor) All(names []string, open OpenFunc, sink SinkFunc) (Report, error) {
	report := Report{Failed: make(map[string]error)}
	var errs error

	for _, name := range names {
		err := p.one(name, open, sink)
		if err != nil {
			p.log.Warn("animation failed", zap.String("anim", name), zap.Error(err))
			report.Failed[name] = err
			errs = multierr.Append(errs, err)
		} else {
			report.Processed = append(report.Processed, name)
		}
		if p.opts.OnAnimationDone != nil {
			p.opts.OnAnimationDone(name, err)
		}
	}

	p.log.Info("unit processed",
		zap.Int("succeeded", len(report.Processed)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, errs
}

func (p *Processor) one(name string, open OpenFunc, sink SinkFunc) (err error) {
	rc, err := open(name)
	if err != nil {
		return fmt.Errorf("animation %s: %w", name, err)
	}
	defer func() {
		err = multierr.Append(err, rc.Close())
	}()

	res, err := p.Animation(name, rc)
	if err != nil {
		return err
	}
	if sink == nil {
		return nil
	}
	if err := sink(res); err != nil {
		return fmt.Errorf("animation %s: %w", name, err)
	}
	return nil
}
