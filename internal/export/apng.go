package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/kettek/apng"
)

// ErrNoFrames is returned when an animation has nothing to encode.
var ErrNoFrames = errors.New("no frames to encode")

// apngTicksPerSecond is the delay denominator; frame delays are in 1/60 s.
const apngTicksPerSecond = 60

// EncodeAPNG writes frames as an infinitely looping animated PNG. All frames
// must have the size of the first one, which is also the default image.
// delays are in 1/60 s.
func EncodeAPNG(w io.Writer, frames []*image.NRGBA, delays []uint32) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if len(delays) != len(frames) {
		return fmt.Errorf("got %d delays for %d frames", len(delays), len(frames))
	}

	size := frames[0].Bounds().Size()
	anim := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}
	for i, f := range frames {
		if f.Bounds().Size() != size {
			return fmt.Errorf("frame %d is %v, expected %v", i, f.Bounds().Size(), size)
		}
		anim.Frames[i] = apng.Frame{
			Image:            f,
			DelayNumerator:   uint16(min(delays[i], math.MaxUint16)),
			DelayDenominator: apngTicksPerSecond,
			DisposeOp:        apng.DISPOSE_OP_NONE,
			BlendOp:          apng.BLEND_OP_SOURCE,
		}
	}

	bw := bufio.NewWriter(w)
	if err := apng.Encode(bw, anim); err != nil {
		return fmt.Errorf("encoding apng: %w", err)
	}
	return bw.Flush()
}
