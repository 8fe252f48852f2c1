// Package formats provides parsers for the unit animation tables exported
// from the game client.
//
// A unit ships two kinds of comma-separated tables next to its sprite atlas:
//
//   - CGG (part geometry): one line per frame template, listing the atlas
//     rectangles and transforms of every part layered into that frame.
//   - CGS (frame sequence): one line per animation frame, referencing a CGG
//     frame template by its zero-based row and adding an offset and a delay.
package formats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Format names used in parse errors.
const (
	FormatCGG = "cgg"
	FormatCGS = "cgs"
)

// Table errors.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrInvalidFrameRef = errors.New("invalid frame template reference")
)

// ParseError describes a field that could not be decoded.
type ParseError struct {
	Format string // "cgg" or "cgs"
	Line   int    // 1-based
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s line %d: invalid %s value %q: %v", e.Format, e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s line %d: %s: %v", e.Format, e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// splitFields splits a table line on commas and stops at the first empty
// field, so trailing comma noise is ignored.
func splitFields(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	raw := strings.Split(line, ",")
	fields := raw[:0]
	for _, f := range raw {
		f = strings.TrimSpace(f)
		if f == "" {
			break
		}
		fields = append(fields, f)
	}
	return fields
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// fieldReader decodes the fields of one record and remembers where the
// record came from so every failure carries the same context.
type fieldReader struct {
	format string
	line   int
}

func (r fieldReader) fail(field, value string, err error) *ParseError {
	if ne, ok := err.(*strconv.NumError); ok {
		err = ne.Err
	}
	return &ParseError{Format: r.format, Line: r.line, Field: field, Value: value, Err: err}
}

func parseSigned[T signed](r fieldReader, field, value string, bits int) (T, error) {
	v, err := strconv.ParseInt(value, 10, bits)
	if err != nil {
		return 0, r.fail(field, value, err)
	}
	return T(v), nil
}

func parseUnsigned[T unsigned](r fieldReader, field, value string, bits int) (T, error) {
	v, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return 0, r.fail(field, value, err)
	}
	return T(v), nil
}

// parseIndex reads a non-negative 32-bit count or index as an int.
func parseIndex(r fieldReader, field, value string) (int, error) {
	v, err := parseUnsigned[uint32](r, field, value, 32)
	return int(v), err
}
