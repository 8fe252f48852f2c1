package sprite

import (
	"fmt"
	"image"

	"github.com/Faultbox/ffbetool/pkg/formats"
	"github.com/Faultbox/ffbetool/pkg/imageops"
)

// TransformPart cuts a part out of the atlas and applies its transforms.
// The order is fixed: crop, blend, flips, rotation, opacity.
func TransformPart(atlas image.Image, p formats.Part) (*image.NRGBA, error) {
	x, y := int(p.ImgX), int(p.ImgY)
	src := image.Rect(x, y, x+int(p.ImgWidth), y+int(p.ImgHeight))
	img, err := imageops.Crop(atlas, src)
	if err != nil {
		return nil, fmt.Errorf("cropping part at %v: %w", src, err)
	}

	if p.BlendMode == 1 {
		imageops.Blend(img)
	}
	if p.FlipX {
		imageops.FlipHorizontal(img)
	}
	if p.FlipY {
		imageops.FlipVertical(img)
	}
	if p.Rotate != 0 {
		img = imageops.RotateCCW(img, p.Rotate)
	}
	if p.Opacity < 100 {
		imageops.Opacity(img, p.Opacity)
	}

	return img, nil
}
