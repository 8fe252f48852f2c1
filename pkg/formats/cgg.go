package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// partFieldCount is the number of fields describing one part in a CGG line.
const partFieldCount = 11

// maxLineSize bounds a single table line; frame templates with many parts
// produce lines well past bufio's default 64KB token size.
const maxLineSize = 4 << 20

// Part is one visual layer of a frame template.
type Part struct {
	Anchor    int
	X         int32 // offset from the frame origin
	Y         int32
	NextType  int // mirroring code, see FlipX/FlipY
	BlendMode int // 1 = additive-style blend
	Opacity   uint8
	Rotate    int32 // degrees, counter-clockwise
	ImgX      uint32
	ImgY      uint32
	ImgWidth  uint32
	ImgHeight uint32
	PageID    int
	FlipX     bool
	FlipY     bool
}

// FrameTemplate is an ordered list of parts. Parts are stored bottom layer
// first, so iterating forward is paint order.
type FrameTemplate struct {
	ID    int
	Parts []Part
}

// Clone returns a copy whose part slice does not alias the receiver's.
func (t FrameTemplate) Clone() FrameTemplate {
	parts := make([]Part, len(t.Parts))
	copy(parts, t.Parts)
	return FrameTemplate{ID: t.ID, Parts: parts}
}

// IsEmpty reports whether the template has no parts to draw.
func (t FrameTemplate) IsEmpty() bool {
	return len(t.Parts) == 0
}

// flipsFromNextType decodes the mirroring code: 1 or 3 mirror horizontally,
// 2 or 3 mirror vertically.
func flipsFromNextType(nextType int) (flipX, flipY bool) {
	return nextType == 1 || nextType == 3, nextType == 2 || nextType == 3
}

// ParseCGGLine decodes one CGG line. row is the 0-based row index and is
// reported 1-based in errors.
//
// The line layout is: anchor, count, followed by count equal-sized chunks
// whose first 11 fields describe a part. ok is false for lines that carry no
// frame at all (blank lines, or too few fields to fill count chunks); the
// caller skips those. A count of zero yields an empty, valid template.
func ParseCGGLine(line string, row int) (parts []Part, ok bool, err error) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return nil, false, nil
	}

	r := fieldReader{format: FormatCGG, line: row + 1}
	if len(fields) < 2 {
		return nil, false, r.fail("record", "", fmt.Errorf("%w: %d leading fields, want 2", ErrMalformedRecord, len(fields)))
	}

	anchor, err := parseSigned[int](r, "anchor", fields[0], 32)
	if err != nil {
		return nil, false, err
	}
	count, err := parseIndex(r, "count", fields[1])
	if err != nil {
		return nil, false, err
	}

	rest := fields[2:]
	if count == 0 {
		return []Part{}, true, nil
	}

	chunkSize := len(rest) / count
	if chunkSize == 0 {
		return nil, false, nil
	}
	if chunkSize < partFieldCount {
		return nil, false, r.fail("part", "", fmt.Errorf("%w: %d fields per part, want %d", ErrMalformedRecord, chunkSize, partFieldCount))
	}

	parts = make([]Part, count)
	for i := 0; i < count; i++ {
		chunk := rest[i*chunkSize : (i+1)*chunkSize]
		part, err := parsePart(r, chunk)
		if err != nil {
			return nil, false, err
		}
		part.Anchor = anchor
		// First-declared part is the topmost layer; store it last.
		parts[count-1-i] = part
	}

	return parts, true, nil
}

// parsePart decodes the 11 part fields at the head of chunk.
func parsePart(r fieldReader, chunk []string) (Part, error) {
	var (
		p   Part
		err error
	)

	if p.X, err = parseSigned[int32](r, "x_pos", chunk[0], 32); err != nil {
		return Part{}, err
	}
	if p.Y, err = parseSigned[int32](r, "y_pos", chunk[1], 32); err != nil {
		return Part{}, err
	}
	if p.NextType, err = parseSigned[int](r, "next_type", chunk[2], 32); err != nil {
		return Part{}, err
	}
	if p.BlendMode, err = parseSigned[int](r, "blend_mode", chunk[3], 32); err != nil {
		return Part{}, err
	}
	if p.Opacity, err = parseUnsigned[uint8](r, "opacity", chunk[4], 8); err != nil {
		return Part{}, err
	}
	if p.Opacity > 100 {
		return Part{}, r.fail("opacity", chunk[4], fmt.Errorf("%w: opacity above 100", ErrMalformedRecord))
	}
	if p.Rotate, err = parseSigned[int32](r, "rotate", chunk[5], 32); err != nil {
		return Part{}, err
	}
	if p.ImgX, err = parseUnsigned[uint32](r, "img_x", chunk[6], 32); err != nil {
		return Part{}, err
	}
	if p.ImgY, err = parseUnsigned[uint32](r, "img_y", chunk[7], 32); err != nil {
		return Part{}, err
	}
	if p.ImgWidth, err = parseUnsigned[uint32](r, "img_width", chunk[8], 32); err != nil {
		return Part{}, err
	}
	if p.ImgHeight, err = parseUnsigned[uint32](r, "img_height", chunk[9], 32); err != nil {
		return Part{}, err
	}
	if p.PageID, err = parseSigned[int](r, "page_id", chunk[10], 32); err != nil {
		return Part{}, err
	}

	p.FlipX, p.FlipY = flipsFromNextType(p.NextType)
	return p, nil
}

// ParseCGG reads every frame template from a CGG table. Template ids are
// assigned in parse order; lines without a frame are skipped.
func ParseCGG(rd io.Reader) ([]FrameTemplate, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var templates []FrameTemplate
	for row := 0; sc.Scan(); row++ {
		parts, ok, err := ParseCGGLine(sc.Text(), row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		templates = append(templates, FrameTemplate{ID: len(templates), Parts: parts})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading cgg table: %w", err)
	}

	return templates, nil
}

// ParseCGGFile parses a CGG table from disk.
func ParseCGGFile(path string) ([]FrameTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cgg file: %w", err)
	}
	defer f.Close()
	return ParseCGG(f)
}
