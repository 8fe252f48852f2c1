package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// cgsFieldCount is the number of fields in a CGS record.
const cgsFieldCount = 4

// SequenceEntry is one frame of an animation.
type SequenceEntry struct {
	FrameIndex int    // CGG frame template id
	X          int32  // canvas offset of the whole frame
	Y          int32
	Delay      uint32 // display time, in 1/60 s ticks
	Line       int    // 1-based source line
}

// ParseCGSLine decodes one CGS line. ok is false when the line is not a
// record (blank, or not exactly four leading fields).
func ParseCGSLine(line string, row int) (entry SequenceEntry, ok bool, err error) {
	fields := splitFields(line)
	if len(fields) != cgsFieldCount {
		return SequenceEntry{}, false, nil
	}

	r := fieldReader{format: FormatCGS, line: row + 1}
	entry.Line = row + 1

	if entry.FrameIndex, err = parseIndex(r, "frame_index", fields[0]); err != nil {
		return SequenceEntry{}, false, err
	}
	if entry.X, err = parseSigned[int32](r, "x", fields[1], 32); err != nil {
		return SequenceEntry{}, false, err
	}
	if entry.Y, err = parseSigned[int32](r, "y", fields[2], 32); err != nil {
		return SequenceEntry{}, false, err
	}
	if entry.Delay, err = parseUnsigned[uint32](r, "delay", fields[3], 32); err != nil {
		return SequenceEntry{}, false, err
	}

	return entry, true, nil
}

// ParseCGS reads every record from a CGS table.
func ParseCGS(rd io.Reader) ([]SequenceEntry, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []SequenceEntry
	for row := 0; sc.Scan(); row++ {
		entry, ok, err := ParseCGSLine(sc.Text(), row)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading cgs table: %w", err)
	}

	return entries, nil
}

// ParseCGSFile parses a CGS table from disk.
func ParseCGSFile(path string) ([]SequenceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cgs file: %w", err)
	}
	defer f.Close()
	return ParseCGS(f)
}

// CheckFrameRefs verifies that every entry references an existing template.
func CheckFrameRefs(entries []SequenceEntry, templateCount int) error {
	r := fieldReader{format: FormatCGS}
	for _, e := range entries {
		if e.FrameIndex >= templateCount {
			r.line = e.Line
			return r.fail("frame_index", fmt.Sprint(e.FrameIndex),
				fmt.Errorf("%w: %d templates available", ErrInvalidFrameRef, templateCount))
		}
	}
	return nil
}
