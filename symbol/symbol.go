// Package symbol defines map symbols: reusable style definitions shared by
// many instances.
//
// A Symbol carries common identity attributes and exactly one Style. The set
// of styles is closed (point, line, area, text, file); every consumer
// switches over it exhaustively.
package symbol

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cartokit/carto"
)

// ErrInvalidStyle is returned by Validate for malformed style data.
var ErrInvalidStyle = errors.New("symbol: invalid style")

// ID is the stable identifier of a symbol within a catalog.
type ID string

// ColourRef names a colour in the map's colour set.
type ColourRef string

// Code is the numeric symbol code, e.g. {401, 0, 0} for "401.0.0". Codes
// order the catalog and provide a second lookup key.
type Code [3]int

func (c Code) String() string {
	return fmt.Sprintf("%d.%d.%d", c[0], c[1], c[2])
}

// Compare orders codes lexicographically.
func (c Code) Compare(other Code) int {
	return slices.Compare(c[:], other[:])
}

// Kind identifies the symbol variant.
type Kind uint8

const (
	KindPoint Kind = iota
	KindLine
	KindArea
	KindText
	KindFile
)

var kindNames = [...]string{
	KindPoint: "Point",
	KindLine:  "Line",
	KindArea:  "Area",
	KindText:  "Text",
	KindFile:  "File",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Symbol is a style definition.
type Symbol struct {
	ID   ID
	Name string
	Code Code

	// Helper symbols are construction aids hidden from print output.
	Helper bool
	// Uncrossable marks features competitors may not cross.
	Uncrossable bool

	Style Style
}

// Kind returns the kind of the symbol's style.
func (s *Symbol) Kind() Kind {
	return s.Style.Kind()
}

// ColourRefs returns every colour the symbol references, in first-use order
// without duplicates.
func (s *Symbol) ColourRefs() []ColourRef {
	if s.Style == nil {
		return nil
	}
	var refs []ColourRef
	s.Style.appendColourRefs(func(r ColourRef) {
		if r != "" && !slices.Contains(refs, r) {
			refs = append(refs, r)
		}
	})
	return refs
}

// UsesColour reports whether the symbol references ref.
func (s *Symbol) UsesColour(ref ColourRef) bool {
	return slices.Contains(s.ColourRefs(), ref)
}

// Validate checks identity attributes and style data.
func (s *Symbol) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidStyle)
	}
	if s.Style == nil {
		return fmt.Errorf("%w: symbol %s has no style", ErrInvalidStyle, s.ID)
	}
	if err := s.Style.validate(); err != nil {
		return fmt.Errorf("symbol %s: %w", s.ID, err)
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Symbol) Clone() *Symbol {
	c := *s
	if s.Style != nil {
		c.Style = s.Style.clone()
	}
	return &c
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkWidth(name string, w float64) error {
	if w < 0 || !isFinite(w) {
		return fmt.Errorf("%w: %s width %v", ErrInvalidStyle, name, w)
	}
	return nil
}

func checkPoints(pts []carto.Point) error {
	for _, p := range pts {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return fmt.Errorf("%w: non-finite coordinate %v", ErrInvalidStyle, p)
		}
	}
	return nil
}
