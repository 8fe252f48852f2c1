package export

import (
	"encoding/json"
	"io"

	"github.com/Faultbox/ffbetool/internal/unit"
)

// RectJSON is a frame rectangle in canvas coordinates.
type RectJSON struct {
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// AnimationJSON describes a spritesheet for game engines and web viewers.
type AnimationJSON struct {
	UnitID      int      `json:"unitId"`
	AnimName    string   `json:"animName"`
	FrameDelays []uint32 `json:"frameDelays"`
	FrameRect   RectJSON `json:"frameRect"`
	ImageWidth  int      `json:"imageWidth"`
	ImageHeight int      `json:"imageHeight"`
}

// NewAnimationJSON builds the metadata of a rendered animation.
func NewAnimationJSON(res *unit.Result) AnimationJSON {
	b := res.Sheet.Bounds()
	return AnimationJSON{
		UnitID:      res.UnitID,
		AnimName:    res.Name,
		FrameDelays: res.Delays(),
		FrameRect: RectJSON{
			X:      res.FrameRect.X,
			Y:      res.FrameRect.Y,
			Width:  res.FrameRect.Width,
			Height: res.FrameRect.Height,
		},
		ImageWidth:  b.Dx(),
		ImageHeight: b.Dy(),
	}
}

// Encode writes the metadata as indented JSON.
func (a AnimationJSON) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
