package text

import (
	"fmt"
	"math"
	"strings"

	"github.com/cartokit/carto"
)

// Align is the horizontal alignment of a text block.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCentre
	AlignRight

	// AlignJustify stretches the spacing between glyphs so every line
	// spans the full layout width.
	AlignJustify
)

var alignNames = [...]string{
	AlignLeft:    "Left",
	AlignCentre:  "Centre",
	AlignRight:   "Right",
	AlignJustify: "Justify",
}

func (a Align) String() string {
	if int(a) < len(alignNames) {
		return alignNames[a]
	}
	return fmt.Sprintf("Align(%d)", a)
}

// Options control Layout.
type Options struct {
	Size  float64
	Align Align

	// Width of the layout box. Centre and Right align inside it, Justify
	// fills it. With zero width the left edge becomes the centre or right
	// anchor.
	Width float64

	// LineSpacing multiplies the font's line height; zero means 1.
	LineSpacing float64
}

// PlacedGlyph is a glyph with its pen origin on the baseline.
type PlacedGlyph struct {
	Line    int
	Cluster int
	Origin  carto.Point
	Advance float64
}

// Line is one laid out line. Start is the baseline origin of its first
// glyph; Width includes justification spacing.
type Line struct {
	Text  string
	Start carto.Point
	Width float64
}

// Block is the result of Layout.
type Block struct {
	Lines  []Line
	Glyphs []PlacedGlyph
	Bounds carto.Rect
}

// Layout breaks s at newlines and places each line's glyphs below topLeft,
// with Y growing downwards. Glyph clusters index runes of their own line.
func Layout(m Measurer, s string, topLeft carto.Point, opts Options) (Block, error) {
	if opts.Size <= 0 || math.IsNaN(opts.Size) || math.IsInf(opts.Size, 0) {
		return Block{}, fmt.Errorf("text: invalid font size %v", opts.Size)
	}
	spacing := opts.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	met := m.Metrics(opts.Size)
	lineHeight := met.Height() * spacing

	var b Block
	minX, maxX := topLeft.X, topLeft.X
	baseline := topLeft.Y + met.Ascent
	for li, text := range strings.Split(s, "\n") {
		glyphs, err := m.Measure(text, opts.Size)
		if err != nil {
			return Block{}, fmt.Errorf("text: measure line %d: %w", li, err)
		}
		natural := Width(glyphs)
		x, extra := place(opts, topLeft.X, natural, len(glyphs))

		line := Line{Text: text, Start: carto.Pt(x, baseline), Width: natural}
		for i, g := range glyphs {
			b.Glyphs = append(b.Glyphs, PlacedGlyph{
				Line:    li,
				Cluster: g.Cluster,
				Origin:  carto.Pt(x, baseline),
				Advance: g.Advance,
			})
			x += g.Advance
			if i < len(glyphs)-1 {
				x += extra
				line.Width += extra
			}
		}
		b.Lines = append(b.Lines, line)
		minX = min(minX, line.Start.X)
		maxX = max(maxX, line.Start.X+line.Width)
		baseline += lineHeight
	}

	bottom := baseline - lineHeight + met.Descent
	b.Bounds = carto.NewRect(carto.Pt(minX, topLeft.Y), carto.Pt(maxX, bottom))
	return b, nil
}

// place returns the x of the first glyph and the spacing added after every
// glyph but the last.
func place(opts Options, left, natural float64, n int) (x, extra float64) {
	free := opts.Width - natural
	switch opts.Align {
	case AlignCentre:
		return left + free/2, 0
	case AlignRight:
		return left + free, 0
	case AlignJustify:
		if n > 1 && free > 0 {
			return left, free / float64(n-1)
		}
	}
	return left, 0
}
