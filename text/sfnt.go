package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNTMeasurer measures text with per-rune advances and pair kerning from
// golang.org/x/image/font/sfnt. It does no shaping, which makes it cheap
// and predictable for Latin labels.
type SFNTMeasurer struct {
	font    *opentype.Font
	upem    fixed.Int26_6
	buffers sync.Pool
}

// NewSFNTMeasurer parses TrueType or OpenType data. A nil slice selects the
// embedded Go Regular face.
func NewSFNTMeasurer(data []byte) (*SFNTMeasurer, error) {
	if data == nil {
		data = goregular.TTF
	}
	if len(data) == 0 {
		return nil, ErrNoFont
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &SFNTMeasurer{
		buffers: sync.Pool{
			New: func() any { return new(sfnt.Buffer) },
		},
		font: f,
		upem: fixed.I(int(f.UnitsPerEm())),
	}, nil
}

// Measure implements Measurer. Runes missing from the font measure as the
// font's .notdef glyph.
func (m *SFNTMeasurer) Measure(s string, size float64) ([]Glyph, error) {
	if s == "" {
		return nil, nil
	}
	buf := m.buffers.Get().(*sfnt.Buffer)
	defer m.buffers.Put(buf)

	scale := size / fromFixed(m.upem)
	var (
		glyphs []Glyph
		prev   sfnt.GlyphIndex
	)
	i := 0
	for _, r := range s {
		gi, err := m.font.GlyphIndex(buf, r)
		if err != nil {
			return nil, fmt.Errorf("text: glyph for %q: %w", r, err)
		}
		adv, err := m.font.GlyphAdvance(buf, gi, m.upem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("text: advance for %q: %w", r, err)
		}
		if len(glyphs) > 0 {
			if k, err := m.font.Kern(buf, prev, gi, m.upem, font.HintingNone); err == nil {
				glyphs[len(glyphs)-1].Advance += fromFixed(k) * scale
			}
		}
		glyphs = append(glyphs, Glyph{Cluster: i, Advance: fromFixed(adv) * scale})
		prev = gi
		i++
	}
	return glyphs, nil
}

// Metrics implements Measurer.
func (m *SFNTMeasurer) Metrics(size float64) Metrics {
	buf := m.buffers.Get().(*sfnt.Buffer)
	defer m.buffers.Put(buf)

	met, err := m.font.Metrics(buf, m.upem, font.HintingNone)
	if err != nil {
		return Metrics{Ascent: 0.8 * size, Descent: 0.2 * size}
	}
	scale := size / fromFixed(m.upem)
	return Metrics{
		Ascent:  fromFixed(met.Ascent) * scale,
		Descent: fromFixed(met.Descent) * scale,
		LineGap: (fromFixed(met.Height) - fromFixed(met.Ascent) - fromFixed(met.Descent)) * scale,
	}
}
