// Package render turns a map into an ordered list of renderer-agnostic
// shape descriptors.
//
// Render resolves every instance's symbol into sub-objects, resolves their
// colours through the map's calibration table and flattens their geometry
// into map-local coordinates. Shapes come out in paint order; a renderer
// draws them first to last. Coordinate transforms for display (pan, zoom)
// belong to the renderer.
package render

import (
	"fmt"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/colour"
	"github.com/cartokit/carto/geometry"
	"github.com/cartokit/carto/model"
	"github.com/cartokit/carto/symbol"
	"github.com/cartokit/carto/text"
)

// ShapeKind identifies the geometry of a shape.
type ShapeKind uint8

const (
	KindRectangle ShapeKind = iota
	KindEllipse
	KindPolyline
	KindPolygon
	KindPattern
	KindText
)

var shapeKindNames = [...]string{
	KindRectangle: "Rectangle",
	KindEllipse:   "Ellipse",
	KindPolyline:  "Polyline",
	KindPolygon:   "Polygon",
	KindPattern:   "Pattern",
	KindText:      "Text",
}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return "Unknown"
}

// Geometry is the kind-specific part of a shape. Implementations:
// Rectangle, Ellipse, Polyline, Polygon, Pattern, Text.
type Geometry interface {
	Kind() ShapeKind
}

// Shape is one drawable sub-object of an instance.
type Shape struct {
	// Instance that produced the shape, and the index of the sub-object in
	// its symbol.
	Instance model.ID
	Part     int

	// Z increases strictly along the plan.
	Z int

	Colour  colour.RGBA
	Opacity float64
	Geometry
}

func (s Shape) String() string {
	return fmt.Sprintf("%s %s/%d z=%d %s", s.Kind(), s.Instance, s.Part, s.Z, s.Colour)
}

// Rectangle is an axis-aligned rectangle, filled when StrokeWidth is zero.
type Rectangle struct {
	Rect        carto.Rect
	StrokeWidth float64
}

// Ellipse is filled when StrokeWidth is zero and stroked otherwise.
type Ellipse struct {
	Centre      carto.Point
	RX, RY      float64
	StrokeWidth float64
}

// Polyline strokes every run with the same pen. Runs are disjoint pieces of
// one logical stroke, split where a path has gaps.
type Polyline struct {
	Runs  [][]carto.Point
	Width float64
	Dash  *symbol.Dash
}

// Polygon fills an outer ring minus its holes.
type Polygon struct {
	geometry.Polygon
}

// Pattern hatches a polygon with parallel lines. Angle is the final line
// angle in radians.
type Pattern struct {
	Area      geometry.Polygon
	Angle     float64
	Spacing   float64
	LineWidth float64
}

// Text draws laid out text. Glyph origins are final, including rotation.
type Text struct {
	Lines    []string
	Font     symbol.Font
	Rotation float64
	Glyphs   []text.PlacedGlyph
}

func (Rectangle) Kind() ShapeKind { return KindRectangle }
func (Ellipse) Kind() ShapeKind   { return KindEllipse }
func (Polyline) Kind() ShapeKind  { return KindPolyline }
func (Polygon) Kind() ShapeKind   { return KindPolygon }
func (Pattern) Kind() ShapeKind   { return KindPattern }
func (Text) Kind() ShapeKind      { return KindText }
