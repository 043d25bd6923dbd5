// Package text measures and places text for text instances. It does not
// rasterise: glyph origins and advances are handed to the renderer with
// the string itself.
package text

import (
	"errors"

	"golang.org/x/text/unicode/bidi"
)

// ErrNoFont is returned when a measurer is built from empty font data.
var ErrNoFont = errors.New("text: no font data")

// Glyph is one shaped glyph. Cluster is the index of the first rune of the
// string it was produced from.
type Glyph struct {
	Cluster int
	Advance float64
}

// Metrics are vertical font metrics at a given size. Descent is positive
// below the baseline.
type Metrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Height returns the distance between consecutive baselines.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Measurer shapes single lines of text. Implementations must be safe for
// concurrent use.
type Measurer interface {
	// Measure returns the glyphs of s in visual order at the given size.
	Measure(s string, size float64) ([]Glyph, error)

	// Metrics returns the vertical metrics at the given size.
	Metrics(size float64) Metrics
}

// Width sums the advances of glyphs.
func Width(glyphs []Glyph) float64 {
	var w float64
	for _, g := range glyphs {
		w += g.Advance
	}
	return w
}

// Direction is the base direction of a paragraph.
type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "RightToLeft"
	}
	return "LeftToRight"
}

// DetectDirection returns the base direction of s from its first strong
// character. Text without strong characters is left to right.
func DetectDirection(s string) Direction {
	for len(s) > 0 {
		p, n := bidi.LookupString(s)
		switch p.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
		if n == 0 {
			break
		}
		s = s[n:]
	}
	return LeftToRight
}
