package model

import (
	"errors"
	"slices"
	"testing"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/geometry"
	"github.com/cartokit/carto/symbol"
)

func square(x0, y0, x1, y1 float64) *geometry.Collection {
	return geometry.NewCollection(geometry.Line(
		carto.Pt(x0, y0), carto.Pt(x1, y0), carto.Pt(x1, y1), carto.Pt(x0, y1), carto.Pt(x0, y0),
	))
}

func areaInstance() *AreaInstance {
	a := &AreaInstance{
		Base:            NewBase("a1", "marsh"),
		PathGeometry:    PathGeometry{Path: square(0, 0, 10, 10), Closed: true},
		Holes:           []*geometry.Collection{square(2, 2, 4, 4)},
		PatternRotation: 0.5,
	}
	a.SetZIndex(1, 7)
	return a
}

var (
	lineSymbol  = &symbol.Symbol{ID: "path", Style: &symbol.LineStyle{Colour: "black", Width: 0.35}}
	areaSymbol  = &symbol.Symbol{ID: "marsh", Style: &symbol.AreaStyle{Fill: symbol.SolidFill{Colour: "blue"}}}
	pointSymbol = &symbol.Symbol{ID: "boulder", Style: &symbol.PointStyle{}}
)

func TestClonePathArea(t *testing.T) {
	src := areaInstance()
	got, err := ClonePath(src, areaSymbol)
	if err != nil {
		t.Fatalf("ClonePath() error = %v", err)
	}
	a, ok := got.(*AreaInstance)
	if !ok {
		t.Fatalf("ClonePath() = %T, want *AreaInstance", got)
	}
	if len(a.Holes) != 1 || a.PatternRotation != 0.5 || !a.Closed || a.Symbol != "marsh" {
		t.Errorf("clone lost area attributes: %+v", a)
	}
	if a.ZIndex(1) != 7 {
		t.Errorf("ZIndex(1) = %d, want 7", a.ZIndex(1))
	}
	if !slices.Equal(a.Holes[0].Anchors(), src.Holes[0].Anchors()) {
		t.Error("hole geometry differs")
	}
	if a.Holes[0] == src.Holes[0] || a.Path == src.Path {
		t.Error("clone shares geometry with the source")
	}
}

func TestClonePathLine(t *testing.T) {
	got, err := ClonePath(areaInstance(), lineSymbol)
	if err != nil {
		t.Fatalf("ClonePath() error = %v", err)
	}
	l, ok := got.(*LineInstance)
	if !ok {
		t.Fatalf("ClonePath() = %T, want *LineInstance", got)
	}
	if l.Symbol != "path" || !l.Closed || l.Path.Len() != 1 {
		t.Errorf("line clone = %+v", l)
	}

	back, err := ClonePath(l, areaSymbol)
	if err != nil {
		t.Fatal(err)
	}
	if a := back.(*AreaInstance); a.Holes != nil || a.PatternRotation != 0 {
		t.Error("area cloned from a line should start without holes and rotation")
	}
}

func TestClonePathUnsupported(t *testing.T) {
	for _, s := range []*symbol.Symbol{pointSymbol, {ID: "t", Style: &symbol.TextStyle{}}, {ID: "x"}} {
		if _, err := ClonePath(areaInstance(), s); !errors.Is(err, carto.ErrUnsupportedSymbolKind) {
			t.Errorf("ClonePath(%s) error = %v, want ErrUnsupportedSymbolKind", s.ID, err)
		}
	}
}

func TestCloneEveryInstance(t *testing.T) {
	instances := []Instance{
		&PointInstance{Base: NewBase("p", "boulder"), Position: carto.Pt(1, 2)},
		&LineInstance{Base: NewBase("l", "path"), PathGeometry: PathGeometry{Path: square(0, 0, 1, 1)}},
		areaInstance(),
		&TextInstance{Base: NewBase("t", "label"), Text: "Hill"},
		&FileInstance{Base: NewBase("f", "logo"), Scale: 2},
	}
	for _, inst := range instances {
		c := inst.Clone()
		if c == inst {
			t.Errorf("%T.Clone() returned the receiver", inst)
		}
		if c.Kind() != inst.Kind() || c.Common().ID != inst.Common().ID {
			t.Errorf("%T.Clone() changed identity", inst)
		}
		c.Common().SetZIndex(0, 3)
		if inst.Common().ZIndex(0) == 3 {
			t.Errorf("%T.Clone() shares z-index overrides", inst)
		}
	}
}

func TestZIndex(t *testing.T) {
	b := NewBase("x", "s")
	if b.ZIndex(0) != -1 {
		t.Errorf("default ZIndex = %d, want -1", b.ZIndex(0))
	}
	b.SetZIndex(0, 2)
	if b.ZIndex(0) != 2 {
		t.Errorf("ZIndex(0) = %d, want 2", b.ZIndex(0))
	}
	b.SetZIndex(0, -1)
	if b.ZIndex(0) != -1 {
		t.Errorf("ZIndex after reset = %d, want -1", b.ZIndex(0))
	}
}
