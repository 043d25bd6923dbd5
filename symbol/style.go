package symbol

import (
	"fmt"
	"slices"
)

// Style is the kind-specific payload of a symbol. Implementations:
// *PointStyle, *LineStyle, *AreaStyle, *TextStyle, *FileStyle.
type Style interface {
	Kind() Kind

	appendColourRefs(add func(ColourRef))
	validate() error
	clone() Style
}

// PointStyle draws an ordered list of elements in symbol-local coordinates
// around the instance position. Element order is the drawing order.
type PointStyle struct {
	Elements []Element

	// Upright symbols ignore the instance rotation and are always drawn
	// with the map's axes.
	Upright bool
}

// FileStyle is a symbol backed by an external graphic that has been
// converted into elements by the loader. Source records where it came from.
type FileStyle struct {
	Source   string
	Elements []Element
}

// Dash describes a dash pattern: alternating on/off lengths.
type Dash struct {
	Pattern []float64
	Offset  float64
}

// Clone returns a deep copy of d. It returns nil for a nil d.
func (d *Dash) Clone() *Dash {
	if d == nil {
		return nil
	}
	c := *d
	c.Pattern = slices.Clone(d.Pattern)
	return &c
}

// Border is a stroke drawn on both sides of a line, under the main stroke.
type Border struct {
	Colour ColourRef
	Width  float64

	// Shift is the gap between the main stroke edge and the border.
	Shift float64
}

// LineStyle strokes a path.
type LineStyle struct {
	Colour ColourRef
	Width  float64
	Dash   *Dash
	Border *Border
}

// AreaStyle fills a closed path and optionally strokes its boundary.
type AreaStyle struct {
	Fill   Fill
	Border *LineStyle
}

// Font describes the typeface of a text symbol. Size is in map units.
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// TextStyle draws text instances.
type TextStyle struct {
	Font   Font
	Colour ColourRef

	// LineSpacing is a multiple of Font.Size; zero means 1.
	LineSpacing float64
}

func (*PointStyle) Kind() Kind { return KindPoint }
func (*LineStyle) Kind() Kind  { return KindLine }
func (*AreaStyle) Kind() Kind  { return KindArea }
func (*TextStyle) Kind() Kind  { return KindText }
func (*FileStyle) Kind() Kind  { return KindFile }

func (s *PointStyle) appendColourRefs(add func(ColourRef)) {
	for _, e := range s.Elements {
		add(e.ElementColour())
	}
}

func (s *FileStyle) appendColourRefs(add func(ColourRef)) {
	for _, e := range s.Elements {
		add(e.ElementColour())
	}
}

func (s *LineStyle) appendColourRefs(add func(ColourRef)) {
	if s.Border != nil {
		add(s.Border.Colour)
	}
	add(s.Colour)
}

func (s *AreaStyle) appendColourRefs(add func(ColourRef)) {
	switch f := s.Fill.(type) {
	case SolidFill:
		add(f.Colour)
	case PatternFill:
		add(f.Colour)
	case CombinedFill:
		add(f.First.Colour)
		add(f.Second.Colour)
	}
	if s.Border != nil {
		s.Border.appendColourRefs(add)
	}
}

func (s *TextStyle) appendColourRefs(add func(ColourRef)) {
	add(s.Colour)
}

func (s *PointStyle) validate() error {
	return validateElements(s.Elements)
}

func (s *FileStyle) validate() error {
	return validateElements(s.Elements)
}

func (s *LineStyle) validate() error {
	if s.Colour == "" {
		return fmt.Errorf("%w: line without colour", ErrInvalidStyle)
	}
	if err := checkWidth("line", s.Width); err != nil {
		return err
	}
	if s.Dash != nil {
		if len(s.Dash.Pattern) == 0 || len(s.Dash.Pattern)%2 != 0 {
			return fmt.Errorf("%w: dash pattern needs on/off pairs", ErrInvalidStyle)
		}
		for _, v := range s.Dash.Pattern {
			if v < 0 || !isFinite(v) {
				return fmt.Errorf("%w: dash length %v", ErrInvalidStyle, v)
			}
		}
	}
	if s.Border != nil {
		if err := checkWidth("border", s.Border.Width); err != nil {
			return err
		}
	}
	return nil
}

func (s *AreaStyle) validate() error {
	switch f := s.Fill.(type) {
	case nil:
		return fmt.Errorf("%w: area without fill", ErrInvalidStyle)
	case SolidFill:
	case PatternFill:
		if err := f.validate(); err != nil {
			return err
		}
	case CombinedFill:
		if err := f.First.validate(); err != nil {
			return err
		}
		if err := f.Second.validate(); err != nil {
			return err
		}
	}
	if s.Border != nil {
		return s.Border.validate()
	}
	return nil
}

func (s *TextStyle) validate() error {
	if s.Font.Size <= 0 || !isFinite(s.Font.Size) {
		return fmt.Errorf("%w: font size %v", ErrInvalidStyle, s.Font.Size)
	}
	return nil
}

func (s *PointStyle) clone() Style {
	c := *s
	c.Elements = cloneElements(s.Elements)
	return &c
}

func (s *FileStyle) clone() Style {
	c := *s
	c.Elements = cloneElements(s.Elements)
	return &c
}

func (s *LineStyle) clone() Style {
	c := *s
	c.Dash = s.Dash.Clone()
	if s.Border != nil {
		b := *s.Border
		c.Border = &b
	}
	return &c
}

func (s *AreaStyle) clone() Style {
	c := *s
	if s.Border != nil {
		c.Border = s.Border.clone().(*LineStyle)
	}
	return &c
}

func (s *TextStyle) clone() Style {
	c := *s
	return &c
}

// Fill is the closed set of area fills: SolidFill, PatternFill,
// CombinedFill.
type Fill interface {
	isFill()
}

// SolidFill paints the whole area.
type SolidFill struct {
	Colour ColourRef
}

// PatternFill hatches the area with parallel lines.
type PatternFill struct {
	Colour ColourRef

	// Angle of the hatch lines in radians.
	Angle float64

	// Spacing between line centres.
	Spacing   float64
	LineWidth float64
}

// CombinedFill overlays two hatch patterns, typically at different angles.
type CombinedFill struct {
	First, Second PatternFill
}

func (SolidFill) isFill()    {}
func (PatternFill) isFill()  {}
func (CombinedFill) isFill() {}

func (f PatternFill) validate() error {
	if f.Spacing <= 0 || !isFinite(f.Spacing) {
		return fmt.Errorf("%w: pattern spacing %v", ErrInvalidStyle, f.Spacing)
	}
	return checkWidth("pattern line", f.LineWidth)
}

// Patterns returns the hatch patterns of f in drawing order; nil for a
// solid fill.
func Patterns(f Fill) []PatternFill {
	switch f := f.(type) {
	case PatternFill:
		return []PatternFill{f}
	case CombinedFill:
		return []PatternFill{f.First, f.Second}
	}
	return nil
}
