package colour

import (
	"fmt"

	"github.com/cartokit/carto"
)

// maxSpotDepth bounds chains of spot definitions that refer to other spots.
const maxSpotDepth = 8

// SpotTable looks up map-level spot colour definitions by name.
type SpotTable interface {
	SpotDefinition(name string) (Colour, bool)
}

// SpotMap is a SpotTable backed by a map.
type SpotMap map[string]Colour

// SpotDefinition implements SpotTable.
func (m SpotMap) SpotDefinition(name string) (Colour, bool) {
	c, ok := m[name]
	return c, ok
}

// Resolver turns any Colour into device colour.
type Resolver struct {
	Table *CalibrationTable
	Spots SpotTable
}

// NewResolver creates a Resolver. A nil table gets a fresh table over
// NaiveProfile.
func NewResolver(table *CalibrationTable, spots SpotTable) *Resolver {
	if table == nil {
		table = NewCalibrationTable(nil)
	}
	return &Resolver{Table: table, Spots: spots}
}

// Resolve returns the device colour for c.
//
// RGB resolves to itself, Transparent to the zero RGBA. CMYK goes through the
// calibration table. A Spot is looked up in the spot table, tinted and
// resolved again; a missing name yields ErrUnresolvedColourReference.
func (r *Resolver) Resolve(c Colour) (RGBA, error) {
	return r.resolve(c, 0)
}

func (r *Resolver) resolve(c Colour, depth int) (RGBA, error) {
	switch c := c.(type) {
	case RGB:
		return Opaque(c), nil
	case Transparent:
		return RGBA{}, nil
	case CMYK:
		return Opaque(r.Table.Lookup(c)), nil
	case Spot:
		if depth >= maxSpotDepth {
			return RGBA{}, fmt.Errorf("spot %q: definition chain too deep: %w", c.Name, carto.ErrUnresolvedColourReference)
		}
		def, err := r.spot(c)
		if err != nil {
			return RGBA{}, err
		}
		return r.resolve(def, depth+1)
	case nil:
		return RGBA{}, fmt.Errorf("nil colour: %w", carto.ErrUnresolvedColourReference)
	default:
		panic(fmt.Sprintf("colour: unknown colour type %T", c))
	}
}

// spot returns the definition of s with the tint applied.
func (r *Resolver) spot(s Spot) (Colour, error) {
	if r.Spots == nil {
		return nil, fmt.Errorf("spot %q: %w", s.Name, carto.ErrUnresolvedColourReference)
	}
	def, ok := r.Spots.SpotDefinition(s.Name)
	if !ok {
		return nil, fmt.Errorf("spot %q: %w", s.Name, carto.ErrUnresolvedColourReference)
	}
	return ApplyTint(def, s.Tint), nil
}

// ApplyTint scales a colour by tint: process channels are multiplied, device
// colours mix toward white and spot tints compound.
func ApplyTint(c Colour, tint float64) Colour {
	switch c := c.(type) {
	case CMYK:
		return c.Scale(tint)
	case RGB:
		return c.Tint(tint)
	case Spot:
		return NewSpot(c.Name, c.Tint*tint)
	default:
		return c
	}
}
