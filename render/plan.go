package render

import (
	"errors"
	"fmt"

	"github.com/cartokit/carto/model"
)

// ErrInvalidOpacity is reported for an instance opacity outside [0,1].
var ErrInvalidOpacity = errors.New("render: opacity out of range")

// InstanceError reports why one instance produced no shapes.
type InstanceError struct {
	Instance model.ID
	Err      error
}

func (e *InstanceError) Error() string {
	return fmt.Sprintf("render: instance %s: %v", e.Instance, e.Err)
}

func (e *InstanceError) Unwrap() error {
	return e.Err
}

// Plan is the ordered output of Render.
type Plan struct {
	Shapes []Shape

	// Skipped lists instances left out under PolicySkip, in paint order.
	Skipped []*InstanceError
}

// Degraded reports whether any instance was skipped.
func (p *Plan) Degraded() bool {
	return len(p.Skipped) > 0
}

// ShapesOf returns the shapes produced by one instance.
func (p *Plan) ShapesOf(id model.ID) []Shape {
	var out []Shape
	for _, s := range p.Shapes {
		if s.Instance == id {
			out = append(out, s)
		}
	}
	return out
}
