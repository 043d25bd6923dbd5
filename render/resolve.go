package render

import (
	"fmt"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/geometry"
	"github.com/cartokit/carto/model"
	"github.com/cartokit/carto/symbol"
	"github.com/cartokit/carto/text"
)

// resolver turns instances into parts. It only reads the map, so one
// resolver serves concurrent workers.
type resolver struct {
	m    *model.Map
	opts *options
}

// add appends a part for sub-object idx painted with ref.
func (r *resolver) add(parts []part, idx int, ref symbol.ColourRef, g Geometry) ([]part, error) {
	c, err := r.m.ResolveRef(ref)
	if err != nil {
		return parts, fmt.Errorf("sub-object %d: %w", idx, err)
	}
	return append(parts, part{
		order: idx,
		shape: Shape{Part: idx, Colour: c, Geometry: g},
	}), nil
}

func (r *resolver) point(inst *model.PointInstance, sym *symbol.Symbol) ([]part, error) {
	style, ok := sym.Style.(*symbol.PointStyle)
	if !ok {
		return nil, kindMismatch(sym)
	}
	angle := inst.Rotation
	if style.Upright {
		angle = 0
	}
	return r.elements(style.Elements, carto.Placement(inst.Position, angle, 1), 1)
}

func (r *resolver) file(inst *model.FileInstance, sym *symbol.Symbol) ([]part, error) {
	style, ok := sym.Style.(*symbol.FileStyle)
	if !ok {
		return nil, kindMismatch(sym)
	}
	scale := inst.Scale
	if scale == 0 {
		scale = 1
	}
	return r.elements(style.Elements, carto.Placement(inst.Centre, inst.Rotation, scale), scale)
}

// elements places symbol-local elements with m. scale is the uniform
// scale factor in m, applied to radii and stroke widths.
func (r *resolver) elements(elems []symbol.Element, m carto.Matrix, scale float64) ([]part, error) {
	var parts []part
	for i, e := range elems {
		g, err := placeElement(e, m, scale)
		if err != nil {
			return nil, fmt.Errorf("sub-object %d: %w", i, err)
		}
		if parts, err = r.add(parts, i, e.ElementColour(), g); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

func placeElement(e symbol.Element, m carto.Matrix, scale float64) (Geometry, error) {
	switch e := e.(type) {
	case symbol.Circle:
		rad := e.Radius * scale
		return Ellipse{
			Centre:      m.TransformPoint(e.Centre),
			RX:          rad,
			RY:          rad,
			StrokeWidth: e.Width * scale,
		}, nil
	case symbol.Rectangle:
		if m.IsAxisAligned() {
			return Rectangle{
				Rect:        carto.NewRect(m.TransformPoint(e.Rect.Min), m.TransformPoint(e.Rect.Max)),
				StrokeWidth: e.Width * scale,
			}, nil
		}
		corners := e.Rect.Corners()
		ring := m.TransformPoints(corners[:])
		if e.Width == 0 {
			return polygonOf(ring)
		}
		return Polyline{Runs: [][]carto.Point{closeRun(ring)}, Width: e.Width * scale}, nil
	case symbol.Polygon:
		return polygonOf(m.TransformPoints(e.Points))
	case symbol.Polyline:
		run := m.TransformPoints(e.Points)
		if e.Closed {
			run = closeRun(run)
		}
		return Polyline{Runs: [][]carto.Point{run}, Width: e.Width * scale}, nil
	}
	return nil, fmt.Errorf("element %T: %w", e, carto.ErrUnsupportedSymbolKind)
}

func polygonOf(ring []carto.Point) (Geometry, error) {
	p, err := geometry.NewPolygon(ring)
	if err != nil {
		return nil, err
	}
	return Polygon{p}, nil
}

func closeRun(run []carto.Point) []carto.Point {
	if len(run) > 1 && run[0] != run[len(run)-1] {
		return append(run, run[0])
	}
	return run
}

func (r *resolver) line(inst *model.LineInstance, sym *symbol.Symbol) ([]part, error) {
	style, ok := sym.Style.(*symbol.LineStyle)
	if !ok {
		return nil, kindMismatch(sym)
	}
	path, err := checkPath(inst.Path)
	if err != nil {
		return nil, err
	}
	runs := path.VisibleRuns(r.opts.subdivisions, inst.Closed)
	return r.stroke(nil, 0, style, runs)
}

// stroke appends the border and main stroke of style over runs, numbering
// sub-objects from first. Nothing is emitted when no run is visible.
func (r *resolver) stroke(parts []part, first int, style *symbol.LineStyle, runs [][]carto.Point) ([]part, error) {
	if len(runs) == 0 {
		return parts, nil
	}
	var err error
	idx := first
	if b := style.Border; b != nil {
		width := style.Width + 2*(b.Shift+b.Width)
		if parts, err = r.add(parts, idx, b.Colour, Polyline{Runs: runs, Width: width}); err != nil {
			return nil, err
		}
		idx++
	}
	return r.add(parts, idx, style.Colour, Polyline{Runs: runs, Width: style.Width, Dash: style.Dash.Clone()})
}

func (r *resolver) area(inst *model.AreaInstance, sym *symbol.Symbol) ([]part, error) {
	style, ok := sym.Style.(*symbol.AreaStyle)
	if !ok {
		return nil, kindMismatch(sym)
	}
	n := r.opts.subdivisions
	outline, err := checkPath(inst.Path)
	if err != nil {
		return nil, err
	}
	holePaths := make([]*geometry.Collection, len(inst.Holes))
	holes := make([][]carto.Point, len(inst.Holes))
	for i, h := range inst.Holes {
		if holePaths[i], err = checkPath(h); err != nil {
			return nil, fmt.Errorf("hole %d: %w", i, err)
		}
		holes[i] = holePaths[i].Ring(n)
	}
	poly, err := geometry.NewPolygon(outline.Ring(n), holes...)
	if err != nil {
		return nil, err
	}

	var parts []part
	idx := 0
	switch fill := style.Fill.(type) {
	case symbol.SolidFill:
		parts, err = r.add(parts, idx, fill.Colour, Polygon{poly})
		idx++
	case symbol.PatternFill:
		parts, err = r.add(parts, idx, fill.Colour, hatch(poly, fill, inst.PatternRotation))
		idx++
	case symbol.CombinedFill:
		parts, err = r.add(parts, idx, fill.First.Colour, hatch(poly, fill.First, inst.PatternRotation))
		if err == nil {
			parts, err = r.add(parts, idx+1, fill.Second.Colour, hatch(poly, fill.Second, inst.PatternRotation))
		}
		idx += 2
	default:
		return nil, fmt.Errorf("fill %T: %w", style.Fill, carto.ErrUnsupportedSymbolKind)
	}
	if err != nil {
		return nil, err
	}

	if style.Border == nil {
		return parts, nil
	}
	runs := outline.VisibleRuns(n, true)
	for _, h := range holePaths {
		runs = append(runs, h.VisibleRuns(n, true)...)
	}
	return r.stroke(parts, idx, style.Border, runs)
}

// hatch orients a pattern fill. The instance rotation adds to the
// pattern's own angle.
func hatch(poly geometry.Polygon, f symbol.PatternFill, rotation float64) Pattern {
	return Pattern{
		Area:      poly,
		Angle:     f.Angle + rotation,
		Spacing:   f.Spacing,
		LineWidth: f.LineWidth,
	}
}

func (r *resolver) text(inst *model.TextInstance, sym *symbol.Symbol) ([]part, error) {
	style, ok := sym.Style.(*symbol.TextStyle)
	if !ok {
		return nil, kindMismatch(sym)
	}
	if inst.Text == "" {
		return nil, nil
	}
	measurer := r.opts.measurer
	if measurer == nil {
		var err error
		if measurer, err = defaultMeasurer(); err != nil {
			return nil, err
		}
	}
	block, err := text.Layout(measurer, inst.Text, inst.TopLeft, text.Options{
		Size:        style.Font.Size,
		Align:       inst.Align,
		Width:       inst.Width,
		LineSpacing: style.LineSpacing,
	})
	if err != nil {
		return nil, err
	}

	m := carto.Translate(inst.TopLeft.X, inst.TopLeft.Y).
		Multiply(carto.Rotate(inst.Rotation)).
		Multiply(carto.Translate(-inst.TopLeft.X, -inst.TopLeft.Y))
	lines := make([]string, len(block.Lines))
	for i, l := range block.Lines {
		lines[i] = l.Text
	}
	for i := range block.Glyphs {
		block.Glyphs[i].Origin = m.TransformPoint(block.Glyphs[i].Origin)
	}
	return r.add(nil, 0, style.Colour, Text{
		Lines:    lines,
		Font:     style.Font,
		Rotation: inst.Rotation,
		Glyphs:   block.Glyphs,
	})
}

// checkPath rejects a missing outline or one holding empty segments.
func checkPath(c *geometry.Collection) (*geometry.Collection, error) {
	if c == nil {
		return &geometry.Collection{}, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func kindMismatch(sym *symbol.Symbol) error {
	return fmt.Errorf("symbol %s (%T): %w", sym.ID, sym.Style, carto.ErrUnsupportedSymbolKind)
}
