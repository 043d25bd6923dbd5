package geometry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cartokit/carto"
)

// ErrDegenerateRing is returned for an outer boundary with fewer than three
// points or no area.
var ErrDegenerateRing = errors.New("geometry: degenerate ring")

// Rings are implicitly closed point sequences: the edge from the last point
// back to the first is part of the ring.

// SignedArea returns the shoelace area of ring. The sign follows the
// orientation: positive for counter-clockwise in a Y-up system.
func SignedArea(ring []carto.Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	var area float64
	prev := ring[len(ring)-1]
	for _, p := range ring {
		area += prev.Cross(p)
		prev = p
	}
	return area / 2
}

// Winding returns the winding number of ring around pt, casting a
// horizontal ray to the right. Zero means outside.
func Winding(ring []carto.Point, pt carto.Point) int {
	if len(ring) < 3 {
		return 0
	}
	var w int
	prev := ring[len(ring)-1]
	for _, p := range ring {
		w += edgeWinding(prev, p, pt)
		prev = p
	}
	return w
}

func edgeWinding(p0, p1, pt carto.Point) int {
	if p0.Y <= pt.Y && p1.Y > pt.Y {
		if side(p0, p1, pt) > 0 {
			return 1
		}
	} else if p0.Y > pt.Y && p1.Y <= pt.Y {
		if side(p0, p1, pt) < 0 {
			return -1
		}
	}
	return 0
}

// side is positive if pt is left of p0→p1, negative if right, zero if on
// the line.
func side(p0, p1, pt carto.Point) float64 {
	return p1.Sub(p0).Cross(pt.Sub(p0))
}

// ContainsPoint applies the non-zero rule.
func ContainsPoint(ring []carto.Point, pt carto.Point) bool {
	return Winding(ring, pt) != 0
}

// RingInside reports whether inner lies strictly inside outer: every
// vertex of inner is inside outer and no edges touch or cross.
func RingInside(inner, outer []carto.Point) bool {
	if len(inner) < 3 || len(outer) < 3 {
		return false
	}
	ib, _ := carto.BoundsOf(inner)
	ob, _ := carto.BoundsOf(outer)
	if !ob.ContainsRect(ib) {
		return false
	}
	for _, p := range inner {
		if !ContainsPoint(outer, p) {
			return false
		}
	}
	prevA := inner[len(inner)-1]
	for _, a := range inner {
		prevB := outer[len(outer)-1]
		for _, b := range outer {
			if segmentsTouch(prevA, a, prevB, b) {
				return false
			}
			prevB = b
		}
		prevA = a
	}
	return true
}

// segmentsTouch reports whether p1-p2 and q1-q2 share at least one point.
func segmentsTouch(p1, p2, q1, q2 carto.Point) bool {
	d1 := side(q1, q2, p1)
	d2 := side(q1, q2, p2)
	d3 := side(p1, p2, q1)
	d4 := side(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

// onSegment reports whether pt, known to be collinear with a-b, lies
// within the segment's extent.
func onSegment(a, b, pt carto.Point) bool {
	return min(a.X, b.X) <= pt.X && pt.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= pt.Y && pt.Y <= max(a.Y, b.Y)
}

// Polygon is an outer ring minus the union of its holes. The outer ring is
// stored with positive signed area and every hole with negative.
type Polygon struct {
	Outer []carto.Point
	Holes [][]carto.Point
}

// NewPolygon orients the rings and checks the hole geometry. Each hole must
// have at least three points and lie strictly inside outer; otherwise
// carto.ErrInvalidHoleGeometry is returned. Holes may overlap each other.
func NewPolygon(outer []carto.Point, holes ...[]carto.Point) (Polygon, error) {
	if len(outer) < 3 || SignedArea(outer) == 0 {
		return Polygon{}, ErrDegenerateRing
	}
	p := Polygon{Outer: oriented(outer, true)}
	for i, h := range holes {
		if !RingInside(h, outer) {
			return Polygon{}, fmt.Errorf("hole %d: %w", i, carto.ErrInvalidHoleGeometry)
		}
		p.Holes = append(p.Holes, oriented(h, false))
	}
	return p, nil
}

func oriented(ring []carto.Point, positive bool) []carto.Point {
	out := slices.Clone(ring)
	if (SignedArea(out) > 0) != positive {
		slices.Reverse(out)
	}
	return out
}

// Rings returns the outer ring followed by the holes.
func (p Polygon) Rings() [][]carto.Point {
	return append([][]carto.Point{p.Outer}, p.Holes...)
}

// Contains reports whether pt is inside the outer ring and outside every
// hole.
func (p Polygon) Contains(pt carto.Point) bool {
	if !ContainsPoint(p.Outer, pt) {
		return false
	}
	for _, h := range p.Holes {
		if ContainsPoint(h, pt) {
			return false
		}
	}
	return true
}

// Area returns the outer area minus the hole areas. Overlapping holes are
// counted twice.
func (p Polygon) Area() float64 {
	a := SignedArea(p.Outer)
	for _, h := range p.Holes {
		a += SignedArea(h)
	}
	return a
}

// Bounds returns the bounding box of the outer ring.
func (p Polygon) Bounds() carto.Rect {
	r, _ := carto.BoundsOf(p.Outer)
	return r
}

// Transform maps every ring through m. Orientation is restored when m
// mirrors.
func (p Polygon) Transform(m carto.Matrix) Polygon {
	out := Polygon{Outer: oriented(m.TransformPoints(p.Outer), true)}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, oriented(m.TransformPoints(h), false))
	}
	return out
}
