package geometry

import (
	"fmt"
	"slices"

	"github.com/cartokit/carto"
)

// SegmentID is a stable handle to a segment within one Collection. Handles
// survive insertion and removal of other segments. The zero value never
// names a segment.
type SegmentID uint32

type record struct {
	id  SegmentID
	seg Segment
	gap bool
}

// Collection is an ordered sequence of segments with a gap flag per segment.
// A gap segment still shapes the outline of an area; it only suppresses the
// stroke along that run.
//
// The zero value is an empty collection ready to use. A Collection is not
// safe for concurrent mutation.
type Collection struct {
	records []record
	last    SegmentID
}

// NewCollection creates a collection holding segs in order.
func NewCollection(segs ...Segment) *Collection {
	c := &Collection{}
	for _, s := range segs {
		c.Add(s)
	}
	return c
}

// Add appends s and returns its handle. The new segment is not a gap.
func (c *Collection) Add(s Segment) SegmentID {
	c.last++
	c.records = append(c.records, record{id: c.last, seg: s})
	return c.last
}

// InsertBefore inserts s in front of the segment named by before. It
// returns false and leaves c unchanged if before is not present.
func (c *Collection) InsertBefore(before SegmentID, s Segment) (SegmentID, bool) {
	i := c.index(before)
	if i < 0 {
		return 0, false
	}
	c.last++
	c.records = slices.Insert(c.records, i, record{id: c.last, seg: s})
	return c.last, true
}

// Remove deletes the segment named by id and reports whether it existed.
func (c *Collection) Remove(id SegmentID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.records = slices.Delete(c.records, i, i+1)
	return true
}

// SetGap marks the segment as a gap. It returns false and changes nothing
// if the segment is absent. Marking an existing gap again is a no-op.
func (c *Collection) SetGap(id SegmentID) bool {
	return c.setGap(id, true)
}

// ClearGap makes the segment visible again. It returns false if the
// segment is absent.
func (c *Collection) ClearGap(id SegmentID) bool {
	return c.setGap(id, false)
}

func (c *Collection) setGap(id SegmentID, gap bool) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.records[i].gap = gap
	return true
}

// IsGap reports whether the segment is present and marked as a gap.
func (c *Collection) IsGap(id SegmentID) bool {
	i := c.index(id)
	return i >= 0 && c.records[i].gap
}

// Segment returns the segment named by id.
func (c *Collection) Segment(id SegmentID) (Segment, bool) {
	i := c.index(id)
	if i < 0 {
		return nil, false
	}
	return c.records[i].seg, true
}

// IDs returns the segment handles in path order.
func (c *Collection) IDs() []SegmentID {
	ids := make([]SegmentID, len(c.records))
	for i, r := range c.records {
		ids[i] = r.id
	}
	return ids
}

// Segments returns the segments in path order.
func (c *Collection) Segments() []Segment {
	segs := make([]Segment, len(c.records))
	for i, r := range c.records {
		segs[i] = r.seg
	}
	return segs
}

// Len returns the number of segments.
func (c *Collection) Len() int {
	return len(c.records)
}

// GapCount returns the number of gap segments.
func (c *Collection) GapCount() int {
	n := 0
	for _, r := range c.records {
		if r.gap {
			n++
		}
	}
	return n
}

func (c *Collection) index(id SegmentID) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(c.records, func(r record) bool { return r.id == id })
}

// Clone returns a deep copy of c. Handles and gap flags are preserved.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	out := &Collection{
		records: make([]record, len(c.records)),
		last:    c.last,
	}
	for i, r := range c.records {
		r.seg = cloneSegment(r.seg)
		out.records[i] = r
	}
	return out
}

// Transform returns a copy of c with every point mapped through m.
func (c *Collection) Transform(m carto.Matrix) *Collection {
	out := c.Clone()
	for i := range out.records {
		out.records[i].seg = transformSegment(out.records[i].seg, m)
	}
	return out
}

// Validate reports segments that carry no points.
func (c *Collection) Validate() error {
	for i, r := range c.records {
		if r.seg == nil || r.seg.Len() == 0 {
			return fmt.Errorf("segment %d: %w", i, ErrEmptySegment)
		}
	}
	return nil
}

// LinearApproximation flattens the path. Linear runs are copied verbatim;
// Bezier runs get n evenly parameterised samples between consecutive
// anchors. Segments are concatenated in order without deduplicating shared
// endpoints. Negative n is treated as zero.
func (c *Collection) LinearApproximation(n int) []carto.Point {
	n = max(n, 0)
	var out []carto.Point
	for _, r := range c.records {
		out = appendFlattened(out, r.seg, n)
	}
	return out
}

// Points returns anchors and explicitly present control points, in path
// order. Unlike LinearApproximation it never densifies.
func (c *Collection) Points() []carto.Point {
	var out []carto.Point
	for _, r := range c.records {
		out = appendPoints(out, r.seg)
	}
	return out
}

// Anchors returns every anchor in path order.
func (c *Collection) Anchors() []carto.Point {
	var out []carto.Point
	for _, r := range c.records {
		out = appendAnchors(out, r.seg)
	}
	return out
}

// ControlPoints returns every explicitly present Bezier control point.
func (c *Collection) ControlPoints() []carto.Point {
	var out []carto.Point
	for _, r := range c.records {
		out = appendControls(out, r.seg)
	}
	return out
}

// Ring flattens the path as a closed ring: a trailing point equal to the
// first is dropped, since the closing edge is implicit.
func (c *Collection) Ring(n int) []carto.Point {
	pts := c.LinearApproximation(n)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// Bounds returns the bounding box of the flattened path. The second result
// is false for an empty collection.
func (c *Collection) Bounds(n int) (carto.Rect, bool) {
	return carto.BoundsOf(c.LinearApproximation(n))
}

// VisibleRuns returns the stroke runs of the path: consecutive non-gap
// segments are flattened and joined into one polyline, and each gap ends
// the current run. A point shared by two joined segments appears once.
//
// For a closed path the closing edge is stroked only when the last and the
// first segment are both visible; the two runs touching it are then merged.
func (c *Collection) VisibleRuns(n int, closed bool) [][]carto.Point {
	n = max(n, 0)
	var (
		runs [][]carto.Point
		cur  []carto.Point
	)
	for _, r := range c.records {
		if r.gap {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		pts := appendFlattened(nil, r.seg, n)
		if len(cur) > 0 && len(pts) > 0 && cur[len(cur)-1] == pts[0] {
			pts = pts[1:]
		}
		cur = append(cur, pts...)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	if !closed || len(runs) == 0 {
		return runs
	}

	firstVisible := !c.records[0].gap
	lastVisible := !c.records[len(c.records)-1].gap
	if !firstVisible || !lastVisible {
		return runs
	}
	if len(runs) == 1 {
		run := runs[0]
		if len(run) > 1 && run[0] != run[len(run)-1] {
			runs[0] = append(run, run[0])
		}
		return runs
	}
	tail := runs[len(runs)-1]
	head := runs[0]
	if tail[len(tail)-1] == head[0] {
		head = head[1:]
	}
	merged := append(slices.Clip(tail), head...)
	return append([][]carto.Point{merged}, runs[1:len(runs)-1]...)
}
