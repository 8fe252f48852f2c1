package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/ffbetool/internal/unit"
)

// Formats selects the optional outputs. The spritesheet is always written.
type Formats struct {
	JSON bool
	GIF  bool
	APNG bool
}

// Writer saves rendered animations into one output directory.
type Writer struct {
	outputDir string
	log       *zap.Logger
}

// NewWriter creates a writer for dir. A nil logger disables logging.
func NewWriter(dir string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{outputDir: dir, log: log}
}

// BaseName returns the file name stem shared by all outputs of an animation.
func BaseName(unitID int, anim string) string {
	return fmt.Sprintf("%d-%s", unitID, anim)
}

// SheetPath returns the spritesheet path of an animation.
func (w *Writer) SheetPath(unitID int, anim string) string {
	return filepath.Join(w.outputDir, BaseName(unitID, anim)+".png")
}

// JSONPath returns the metadata path of an animation.
func (w *Writer) JSONPath(unitID int, anim string) string {
	return filepath.Join(w.outputDir, BaseName(unitID, anim)+".json")
}

// GIFPath returns the animated GIF path of an animation.
func (w *Writer) GIFPath(unitID int, anim string) string {
	return filepath.Join(w.outputDir, BaseName(unitID, anim)+"-anim.gif")
}

// APNGPath returns the animated PNG path of an animation.
func (w *Writer) APNGPath(unitID int, anim string) string {
	return filepath.Join(w.outputDir, BaseName(unitID, anim)+"-anim.png")
}

// Write saves the spritesheet and the selected extra outputs of res and
// returns the paths written.
func (w *Writer) Write(res *unit.Result, formats Formats) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	save := func(path string, encode func(io.Writer) error) error {
		if err := w.save(path, encode); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := save(w.SheetPath(res.UnitID, res.Name), func(f io.Writer) error {
		return EncodePNG(f, res.Sheet)
	}); err != nil {
		return written, err
	}

	if formats.JSON {
		if err := save(w.JSONPath(res.UnitID, res.Name), NewAnimationJSON(res).Encode); err != nil {
			return written, err
		}
	}

	if formats.GIF || formats.APNG {
		frames := frameImages(res)
		delays := res.Delays()
		if formats.GIF {
			if err := save(w.GIFPath(res.UnitID, res.Name), func(f io.Writer) error {
				return EncodeGIF(f, frames, delays)
			}); err != nil {
				return written, err
			}
		}
		if formats.APNG {
			if err := save(w.APNGPath(res.UnitID, res.Name), func(f io.Writer) error {
				return EncodeAPNG(f, frames, delays)
			}); err != nil {
				return written, err
			}
		}
	}

	return written, nil
}

func (w *Writer) save(path string, encode func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := encode(file); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	if info, statErr := file.Stat(); statErr == nil {
		w.log.Info("saved",
			zap.String("file", path),
			zap.String("size", humanize.Bytes(uint64(info.Size()))),
		)
	}
	return nil
}

func frameImages(res *unit.Result) []*image.NRGBA {
	images := make([]*image.NRGBA, len(res.Frames))
	for i, f := range res.Frames {
		images[i] = f.Image
	}
	return images
}
