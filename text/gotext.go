package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// GoTextMeasurer shapes text with the HarfBuzz port in go-text/typesetting,
// so kerning, ligatures and right-to-left runs are measured as drawn.
//
// The parsed font is shared; a face and a shaper are taken per call since
// neither is safe for concurrent use.
type GoTextMeasurer struct {
	font    *font.Font
	shapers sync.Pool
}

// NewGoTextMeasurer parses TrueType or OpenType data. A nil slice selects
// the embedded Go Regular face.
func NewGoTextMeasurer(data []byte) (*GoTextMeasurer, error) {
	if data == nil {
		data = goregular.TTF
	}
	if len(data) == 0 {
		return nil, ErrNoFont
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &GoTextMeasurer{
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		font: face.Font,
	}, nil
}

// Measure implements Measurer. Shaping runs at one unit per em so map-unit
// font sizes keep full precision; advances are scaled afterwards.
func (m *GoTextMeasurer) Measure(s string, size float64) ([]Glyph, error) {
	if s == "" {
		return nil, nil
	}
	runes := []rune(s)
	upem := float64(m.font.Upem())
	dir := di.DirectionLTR
	if DetectDirection(s) == RightToLeft {
		dir = di.DirectionRTL
	}
	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(m.font),
		Size:      toFixed(upem),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := m.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(in)
	m.shapers.Put(hb)

	scale := size / upem
	glyphs := make([]Glyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		glyphs[i] = Glyph{Cluster: g.TextIndex(), Advance: fromFixed(g.Advance) * scale}
	}
	return glyphs, nil
}

// Metrics implements Measurer.
func (m *GoTextMeasurer) Metrics(size float64) Metrics {
	ext, ok := font.NewFace(m.font).FontHExtents()
	upem := float64(m.font.Upem())
	if !ok || upem == 0 {
		return Metrics{Ascent: 0.8 * size, Descent: 0.2 * size}
	}
	scale := size / upem
	return Metrics{
		Ascent:  float64(ext.Ascender) * scale,
		Descent: -float64(ext.Descender) * scale,
		LineGap: float64(ext.LineGap) * scale,
	}
}

// scriptOf returns the script of the first letter-like rune.
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if s := language.LookupScript(r); s.Strong() {
			return s
		}
	}
	return language.Latin
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
