// Package assets locates and loads the exported files of a unit.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // atlas decoder
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp" // atlas decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // atlas decoder
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidInput = errors.New("invalid input")
)

// AtlasExtensions are tried in order when looking for a unit atlas.
var AtlasExtensions = []string{".png", ".webp", ".bmp"}

// AtlasName returns the atlas file name of a unit for the given extension.
func AtlasName(unitID int, ext string) string {
	return fmt.Sprintf("unit_anime_%d%s", unitID, ext)
}

// CGGName returns the part table file name of a unit.
func CGGName(unitID int) string {
	return fmt.Sprintf("unit_cgg_%d.csv", unitID)
}

// CGSName returns the sequence table file name of an animation.
func CGSName(anim string, unitID int) string {
	return fmt.Sprintf("unit_%s_cgs_%d.csv", anim, unitID)
}

// AnimationFromCGSName extracts the animation name from a sequence table
// file name. ok is false if the name does not belong to the unit.
func AnimationFromCGSName(name string, unitID int) (anim string, ok bool) {
	suffix := "_cgs_" + strconv.Itoa(unitID) + ".csv"
	if !strings.HasPrefix(name, "unit_") || !strings.HasSuffix(name, suffix) {
		return "", false
	}
	anim = strings.TrimSuffix(strings.TrimPrefix(name, "unit_"), suffix)
	if anim == "" {
		return "", false
	}
	return anim, true
}

// Store reads unit files from one input directory.
type Store struct {
	dir string
}

// NewStore creates a store over dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the input directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// AtlasPath returns the path of the first atlas file that exists.
func (s *Store) AtlasPath(unitID int) (string, error) {
	for _, ext := range AtlasExtensions {
		p := s.path(AtlasName(unitID, ext))
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFileNotFound, s.path(AtlasName(unitID, AtlasExtensions[0])))
}

// CGGPath returns the part table path of a unit.
func (s *Store) CGGPath(unitID int) string {
	return s.path(CGGName(unitID))
}

// CGSPath returns the sequence table path of an animation.
func (s *Store) CGSPath(unitID int, anim string) string {
	return s.path(CGSName(anim, unitID))
}

// Validate checks that everything needed to render a unit is present. An
// empty anim skips the sequence table check.
func (s *Store) Validate(unitID int, anim string) error {
	if unitID <= 0 {
		return fmt.Errorf("%w: unit id must be greater than 0", ErrInvalidInput)
	}

	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("%w: input directory %s", ErrFileNotFound, s.dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: input path %s is not a directory", ErrInvalidInput, s.dir)
	}

	if _, err := s.AtlasPath(unitID); err != nil {
		return err
	}
	if p := s.CGGPath(unitID); !fileExists(p) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	if anim != "" {
		if p := s.CGSPath(unitID, anim); !fileExists(p) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
	}
	return nil
}

// DiscoverAnimations lists the animations of a unit, sorted by name.
func (s *Store) DiscoverAnimations(unitID int) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: input directory %s", ErrFileNotFound, s.dir)
		}
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var anims []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if anim, ok := AnimationFromCGSName(e.Name(), unitID); ok {
			anims = append(anims, anim)
		}
	}
	if len(anims) == 0 {
		return nil, fmt.Errorf("%w: no animations for unit %d in %s", ErrFileNotFound, unitID, s.dir)
	}

	sort.Strings(anims)
	return anims, nil
}

// LoadAtlas decodes the atlas of a unit into straight-alpha RGBA.
func (s *Store) LoadAtlas(unitID int) (*image.NRGBA, error) {
	p, err := s.AtlasPath(unitID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening atlas: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding atlas %s: %w", p, err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// OpenCGG opens the part table of a unit.
func (s *Store) OpenCGG(unitID int) (io.ReadCloser, error) {
	return open(s.CGGPath(unitID))
}

// OpenCGS opens the sequence table of an animation.
func (s *Store) OpenCGS(unitID int, anim string) (io.ReadCloser, error) {
	return open(s.CGSPath(unitID, anim))
}

func open(p string) (io.ReadCloser, error) {
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		return nil, err
	}
	return f, nil
}

// EnsureOutputDir creates dir if needed and checks that it is a directory.
func EnsureOutputDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%w: output path %s is not a directory", ErrInvalidInput, dir)
		}
		return nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("checking output directory: %w", err)
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
