package symbol

import (
	"fmt"
	"slices"

	"github.com/cartokit/carto"
)

// Element is one drawable sub-object of a point or file symbol, in
// symbol-local coordinates. Implementations: Circle, Rectangle, Polygon,
// Polyline.
type Element interface {
	// ElementColour returns the colour the element paints with.
	ElementColour() ColourRef

	isElement()
}

// Circle is a disc (Width == 0) or a ring of the given stroke width.
type Circle struct {
	Centre carto.Point
	Radius float64
	Colour ColourRef
	Width  float64
}

// Rectangle is a filled (Width == 0) or outlined axis-aligned rectangle.
type Rectangle struct {
	Rect   carto.Rect
	Colour ColourRef
	Width  float64
}

// Polygon is a filled closed ring.
type Polygon struct {
	Points []carto.Point
	Colour ColourRef
}

// Polyline is a stroked open or closed polyline.
type Polyline struct {
	Points []carto.Point
	Colour ColourRef
	Width  float64
	Closed bool
}

func (c Circle) ElementColour() ColourRef    { return c.Colour }
func (r Rectangle) ElementColour() ColourRef { return r.Colour }
func (p Polygon) ElementColour() ColourRef   { return p.Colour }
func (p Polyline) ElementColour() ColourRef  { return p.Colour }

func (Circle) isElement()    {}
func (Rectangle) isElement() {}
func (Polygon) isElement()   {}
func (Polyline) isElement()  {}

func validateElements(elems []Element) error {
	if len(elems) == 0 {
		return fmt.Errorf("%w: no elements", ErrInvalidStyle)
	}
	for i, e := range elems {
		var err error
		switch e := e.(type) {
		case Circle:
			if e.Radius <= 0 || !isFinite(e.Radius) {
				err = fmt.Errorf("%w: circle radius %v", ErrInvalidStyle, e.Radius)
			} else {
				err = checkWidth("circle", e.Width)
			}
		case Rectangle:
			err = checkWidth("rectangle", e.Width)
		case Polygon:
			if len(e.Points) < 3 {
				err = fmt.Errorf("%w: polygon with %d points", ErrInvalidStyle, len(e.Points))
			} else {
				err = checkPoints(e.Points)
			}
		case Polyline:
			if len(e.Points) < 2 {
				err = fmt.Errorf("%w: polyline with %d points", ErrInvalidStyle, len(e.Points))
			} else if err = checkPoints(e.Points); err == nil {
				err = checkWidth("polyline", e.Width)
			}
		case nil:
			err = fmt.Errorf("%w: nil element", ErrInvalidStyle)
		}
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if e.ElementColour() == "" {
			return fmt.Errorf("element %d: %w: no colour", i, ErrInvalidStyle)
		}
	}
	return nil
}

func cloneElements(elems []Element) []Element {
	if elems == nil {
		return nil
	}
	out := make([]Element, len(elems))
	for i, e := range elems {
		switch e := e.(type) {
		case Polygon:
			e.Points = slices.Clone(e.Points)
			out[i] = e
		case Polyline:
			e.Points = slices.Clone(e.Points)
			out[i] = e
		default:
			out[i] = e
		}
	}
	return out
}
