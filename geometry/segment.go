// Package geometry holds editable path geometry: straight and Bezier runs
// with per-segment gap state, their flattening into polylines, and ring
// queries used to build polygons with holes.
package geometry

import (
	"errors"
	"slices"

	"github.com/cartokit/carto"
)

// ErrEmptySegment is reported by Validate for a segment without points.
var ErrEmptySegment = errors.New("geometry: empty segment")

// Segment is one run of a path. The set is closed: LinearRun and BezierRun.
type Segment interface {
	// Len returns the number of anchors in the run.
	Len() int

	isSegment()
}

// LinearRun is a polyline passed through unchanged by flattening.
type LinearRun struct {
	Points []carto.Point
}

// Node is one anchor of a BezierRun with its optional handles. Early is the
// control point on the incoming side, Late the one on the outgoing side. A
// missing control collapses onto the anchor, making that side a straight
// join.
type Node struct {
	Anchor carto.Point
	Early  *carto.Point
	Late   *carto.Point
}

// BezierRun is a chain of cubic curves through its anchors.
type BezierRun struct {
	Nodes []Node
}

// Line creates a LinearRun through pts.
func Line(pts ...carto.Point) LinearRun {
	return LinearRun{Points: pts}
}

// Curve creates a BezierRun from nodes.
func Curve(nodes ...Node) BezierRun {
	return BezierRun{Nodes: nodes}
}

// Smooth returns a node with both handles set.
func Smooth(early, anchor, late carto.Point) Node {
	return Node{Anchor: anchor, Early: &early, Late: &late}
}

// Corner returns a node without handles.
func Corner(anchor carto.Point) Node {
	return Node{Anchor: anchor}
}

func (s LinearRun) Len() int { return len(s.Points) }
func (s BezierRun) Len() int { return len(s.Nodes) }

func (LinearRun) isSegment() {}
func (BezierRun) isSegment() {}

// Cubic returns the curve between node i and node i+1.
func (s BezierRun) Cubic(i int) carto.CubicBez {
	a, b := s.Nodes[i], s.Nodes[i+1]
	c1, c2 := a.Anchor, b.Anchor
	if a.Late != nil {
		c1 = *a.Late
	}
	if b.Early != nil {
		c2 = *b.Early
	}
	return carto.NewCubicBez(a.Anchor, c1, c2, b.Anchor)
}

func (n Node) clone() Node {
	if n.Early != nil {
		p := *n.Early
		n.Early = &p
	}
	if n.Late != nil {
		p := *n.Late
		n.Late = &p
	}
	return n
}

func cloneSegment(s Segment) Segment {
	switch s := s.(type) {
	case LinearRun:
		return LinearRun{Points: slices.Clone(s.Points)}
	case BezierRun:
		nodes := make([]Node, len(s.Nodes))
		for i, n := range s.Nodes {
			nodes[i] = n.clone()
		}
		return BezierRun{Nodes: nodes}
	}
	return s
}

func transformSegment(s Segment, m carto.Matrix) Segment {
	switch s := s.(type) {
	case LinearRun:
		return LinearRun{Points: m.TransformPoints(s.Points)}
	case BezierRun:
		nodes := make([]Node, len(s.Nodes))
		for i, n := range s.Nodes {
			n = n.clone()
			n.Anchor = m.TransformPoint(n.Anchor)
			if n.Early != nil {
				*n.Early = m.TransformPoint(*n.Early)
			}
			if n.Late != nil {
				*n.Late = m.TransformPoint(*n.Late)
			}
			nodes[i] = n
		}
		return BezierRun{Nodes: nodes}
	}
	return s
}

// appendFlattened appends the linear approximation of s to dst. Bezier runs
// contribute each anchor followed by n samples of the curve to the next
// anchor; the final anchor closes the run.
func appendFlattened(dst []carto.Point, s Segment, n int) []carto.Point {
	switch s := s.(type) {
	case LinearRun:
		return append(dst, s.Points...)
	case BezierRun:
		for i := range s.Nodes {
			dst = append(dst, s.Nodes[i].Anchor)
			if i+1 < len(s.Nodes) {
				dst = s.Cubic(i).Samples(dst, n)
			}
		}
	}
	return dst
}

// appendPoints appends anchors and explicitly present controls in path
// order: early, anchor, late.
func appendPoints(dst []carto.Point, s Segment) []carto.Point {
	switch s := s.(type) {
	case LinearRun:
		return append(dst, s.Points...)
	case BezierRun:
		for _, n := range s.Nodes {
			if n.Early != nil {
				dst = append(dst, *n.Early)
			}
			dst = append(dst, n.Anchor)
			if n.Late != nil {
				dst = append(dst, *n.Late)
			}
		}
	}
	return dst
}

func appendAnchors(dst []carto.Point, s Segment) []carto.Point {
	switch s := s.(type) {
	case LinearRun:
		return append(dst, s.Points...)
	case BezierRun:
		for _, n := range s.Nodes {
			dst = append(dst, n.Anchor)
		}
	}
	return dst
}

func appendControls(dst []carto.Point, s Segment) []carto.Point {
	if b, ok := s.(BezierRun); ok {
		for _, n := range b.Nodes {
			if n.Early != nil {
				dst = append(dst, *n.Early)
			}
			if n.Late != nil {
				dst = append(dst, *n.Late)
			}
		}
	}
	return dst
}
