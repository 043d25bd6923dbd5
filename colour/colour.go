// Package colour models map colours and resolves them to calibrated device
// colour.
//
// A Colour is one of four immutable value types:
//   - RGB: a device colour with 8-bit channels
//   - CMYK: a process colour with channels in [0, 1]
//   - Spot: a named ink at a tint, defined at map level
//   - Transparent: no paint
//
// Conversions between representations are always explicit. Process colours
// reach the screen through a CalibrationTable, which memoises an external
// Profile transform.
package colour

import (
	"fmt"
	"math"
	"strconv"
)

// Colour is the closed set of colour representations. Values are compared
// with ==.
type Colour interface {
	// String renders the colour in the notation accepted by Parse.
	String() string

	isColour()
}

// RGB is a device colour.
type RGB struct {
	R, G, B uint8
}

// CMYK is a process colour. Construct it with NewCMYK to clamp the channels.
type CMYK struct {
	C, M, Y, K float64
}

// Spot is a tint of a named spot colour. The name is resolved against the
// map's spot definitions.
type Spot struct {
	Name string
	Tint float64
}

// Transparent paints nothing.
type Transparent struct{}

func (RGB) isColour()         {}
func (CMYK) isColour()        {}
func (Spot) isColour()        {}
func (Transparent) isColour() {}

// NewCMYK creates a process colour with every channel clamped to [0, 1].
func NewCMYK(c, m, y, k float64) CMYK {
	return CMYK{C: clamp01(c), M: clamp01(m), Y: clamp01(y), K: clamp01(k)}
}

// NewSpot creates a spot colour reference with the tint clamped to [0, 1].
func NewSpot(name string, tint float64) Spot {
	return Spot{Name: name, Tint: clamp01(tint)}
}

// Naive converts a process colour to device colour with the uncalibrated
// complement formula. It ignores ink behaviour and is only suitable as a
// fallback profile.
func (c CMYK) Naive() RGB {
	return RGB{
		R: to8((1 - c.C) * (1 - c.K)),
		G: to8((1 - c.M) * (1 - c.K)),
		B: to8((1 - c.Y) * (1 - c.K)),
	}
}

// Scale returns the colour with every channel multiplied by tint.
func (c CMYK) Scale(tint float64) CMYK {
	return NewCMYK(c.C*tint, c.M*tint, c.Y*tint, c.K*tint)
}

// CMYK converts a device colour to the process colour with maximal black.
func (c RGB) CMYK() CMYK {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	k := 1 - max(r, g, b)
	if k >= 1 {
		return CMYK{K: 1}
	}
	return NewCMYK((1-r-k)/(1-k), (1-g-k)/(1-k), (1-b-k)/(1-k), k)
}

// Tint mixes the colour toward white. tint=1 returns c, tint=0 returns white.
func (c RGB) Tint(tint float64) RGB {
	t := clamp01(tint)
	mix := func(v uint8) uint8 {
		return to8(1 - (1-float64(v)/255)*t)
	}
	return RGB{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func (c CMYK) String() string {
	return "cmyk(" + formatFloat(c.C) + "," + formatFloat(c.M) + "," +
		formatFloat(c.Y) + "," + formatFloat(c.K) + ")"
}

func (s Spot) String() string {
	return "spot(" + strconv.Quote(s.Name) + "," + formatFloat(s.Tint) + ")"
}

func (Transparent) String() string { return "transparent" }

// RGBA is a resolved device colour with alpha. Fully transparent colours
// resolve to the zero value.
type RGBA struct {
	R, G, B, A uint8
}

// Opaque returns c with full alpha.
func Opaque(c RGB) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// IsTransparent reports whether the colour paints nothing.
func (c RGBA) IsTransparent() bool {
	return c.A == 0
}

func (c RGBA) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// to8 maps [0, 1] to [0, 255] with rounding.
func to8(x float64) uint8 {
	return uint8(clamp01(x)*255 + 0.5)
}
