// Package model holds map instances and the Map aggregate that owns
// colours, symbols and instances and keeps references between them valid.
package model

import (
	"fmt"
	"maps"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/geometry"
	"github.com/cartokit/carto/symbol"
	"github.com/cartokit/carto/text"
)

// ID identifies an instance within a Map.
type ID string

// Instance is one placement of a symbol. The set is closed:
// *PointInstance, *LineInstance, *AreaInstance, *TextInstance and
// *FileInstance.
type Instance interface {
	// Common returns the attributes shared by every instance.
	Common() *Base

	// Kind is the symbol kind the instance can carry.
	Kind() symbol.Kind

	// Clone returns a deep copy.
	Clone() Instance

	isInstance()
}

// Base holds the attributes every instance has.
type Base struct {
	ID    ID
	Layer int

	// Opacity in [0,1] applies to every shape of the instance.
	Opacity float64

	// Symbol is a handle into the owning map's catalog.
	Symbol symbol.ID

	zIndex map[int]int
}

// NewBase returns a fully opaque Base on layer 0.
func NewBase(id ID, sym symbol.ID) Base {
	return Base{ID: id, Opacity: 1, Symbol: sym}
}

// Common implements Instance.
func (b *Base) Common() *Base { return b }

// ZIndex returns the drawing-order override for sub-object i of the
// instance's symbol, or -1 when catalog order applies.
func (b *Base) ZIndex(i int) int {
	if z, ok := b.zIndex[i]; ok {
		return z
	}
	return -1
}

// SetZIndex overrides the drawing order of sub-object i. A negative z
// removes the override.
func (b *Base) SetZIndex(i, z int) {
	if z < 0 {
		delete(b.zIndex, i)
		return
	}
	if b.zIndex == nil {
		b.zIndex = make(map[int]int)
	}
	b.zIndex[i] = z
}

func (b Base) clone() Base {
	b.zIndex = maps.Clone(b.zIndex)
	return b
}

// PointInstance places a point symbol.
type PointInstance struct {
	Base
	Position carto.Point

	// Rotation in radians; ignored by symbols that are not rotatable.
	Rotation float64
}

// PathGeometry is the outline shared by line and area instances.
type PathGeometry struct {
	Path   *geometry.Collection
	Closed bool
}

func (g PathGeometry) clone() PathGeometry {
	g.Path = g.Path.Clone()
	return g
}

// LineInstance strokes a path with a line symbol.
type LineInstance struct {
	Base
	PathGeometry
}

// AreaInstance fills an outline minus its holes with an area symbol.
type AreaInstance struct {
	Base
	PathGeometry
	Holes []*geometry.Collection

	// PatternRotation in radians is added to every hatch pattern angle.
	PatternRotation float64
}

// TextInstance draws text with a text symbol.
type TextInstance struct {
	Base
	Text    string
	TopLeft carto.Point
	Align   text.Align

	// Rotation in radians around TopLeft.
	Rotation float64

	// Width is the layout box width used by centred, right and
	// justified alignment.
	Width float64
}

// FileInstance places a symbol converted from an external graphic.
type FileInstance struct {
	Base
	Centre   carto.Point
	Rotation float64

	// Scale is a uniform factor; zero means 1.
	Scale float64
}

func (*PointInstance) Kind() symbol.Kind { return symbol.KindPoint }
func (*LineInstance) Kind() symbol.Kind  { return symbol.KindLine }
func (*AreaInstance) Kind() symbol.Kind  { return symbol.KindArea }
func (*TextInstance) Kind() symbol.Kind  { return symbol.KindText }
func (*FileInstance) Kind() symbol.Kind  { return symbol.KindFile }

func (*PointInstance) isInstance() {}
func (*LineInstance) isInstance()  {}
func (*AreaInstance) isInstance()  {}
func (*TextInstance) isInstance()  {}
func (*FileInstance) isInstance()  {}

func (p *PointInstance) Clone() Instance {
	c := *p
	c.Base = p.Base.clone()
	return &c
}

func (l *LineInstance) Clone() Instance {
	c := *l
	c.Base = l.Base.clone()
	c.PathGeometry = l.PathGeometry.clone()
	return &c
}

func (a *AreaInstance) Clone() Instance {
	c := *a
	c.Base = a.Base.clone()
	c.PathGeometry = a.PathGeometry.clone()
	c.Holes = cloneHoles(a.Holes)
	return &c
}

func (t *TextInstance) Clone() Instance {
	c := *t
	c.Base = t.Base.clone()
	return &c
}

func (f *FileInstance) Clone() Instance {
	c := *f
	c.Base = f.Base.clone()
	return &c
}

func cloneHoles(holes []*geometry.Collection) []*geometry.Collection {
	if holes == nil {
		return nil
	}
	out := make([]*geometry.Collection, len(holes))
	for i, h := range holes {
		out[i] = h.Clone()
	}
	return out
}

// PathInstance is implemented by *LineInstance and *AreaInstance.
type PathInstance interface {
	Instance
	Geometry() *PathGeometry
}

// Geometry returns the outline.
func (g *PathGeometry) Geometry() *PathGeometry { return g }

// ClonePath copies p as the instance type matching sym's kind. A line
// symbol yields a *LineInstance, dropping holes and pattern rotation. An
// area symbol yields an *AreaInstance that keeps them. The clone refers to
// sym. Any other kind returns carto.ErrUnsupportedSymbolKind.
func ClonePath(p PathInstance, sym *symbol.Symbol) (PathInstance, error) {
	if sym == nil {
		return nil, fmt.Errorf("clone path instance %s: nil symbol: %w", p.Common().ID, carto.ErrUnknownSymbol)
	}
	base := p.Common().clone()
	base.Symbol = sym.ID
	geom := p.Geometry().clone()

	switch sym.Style.(type) {
	case *symbol.LineStyle:
		return &LineInstance{Base: base, PathGeometry: geom}, nil
	case *symbol.AreaStyle:
		a := &AreaInstance{Base: base, PathGeometry: geom}
		if src, ok := p.(*AreaInstance); ok {
			a.Holes = cloneHoles(src.Holes)
			a.PatternRotation = src.PatternRotation
		}
		return a, nil
	case *symbol.PointStyle, *symbol.TextStyle, *symbol.FileStyle, nil:
	}
	return nil, fmt.Errorf("clone path instance %s with symbol %s (%T): %w",
		p.Common().ID, sym.ID, sym.Style, carto.ErrUnsupportedSymbolKind)
}
